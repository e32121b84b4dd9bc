package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFieldPath_Valid(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		segments []string
		isNested bool
	}{
		{name: "Simple field", input: "status", segments: []string{"status"}, isNested: false},
		{name: "Nested field level 1", input: "customer.ruc", segments: []string{"customer", "ruc"}, isNested: true},
		{name: "Nested field level 2", input: "customer.address.city", segments: []string{"customer", "address", "city"}, isNested: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			fp, err := NewFieldPath(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.input, fp.Raw())
			assert.Equal(t, tc.segments, fp.Segments())
			assert.Equal(t, tc.isNested, fp.IsNested())
		})
	}
}

func TestNewFieldPath_Invalid(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		err   error
	}{
		{name: "Empty", input: "", err: ErrEmptyFieldPath},
		{name: "Leading dot", input: ".a", err: ErrInvalidFieldPathFormat},
		{name: "Trailing dot", input: "a.", err: ErrInvalidFieldPathFormat},
		{name: "Double dot", input: "a..b", err: ErrInvalidFieldPathFormat},
		{name: "Too deep", input: "a.b.c.d.e.f.g.h.i.j.k", err: ErrFieldPathTooDeep},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewFieldPath(tc.input)
			assert.ErrorIs(t, err, tc.err)
		})
	}
}

func TestSetNestedField_CreatesIntermediates(t *testing.T) {
	fields := map[string]interface{}{}
	require.NoError(t, SetNestedField(fields, "a.b", 1))

	assert.Equal(t, map[string]interface{}{"a": map[string]interface{}{"b": 1}}, fields)
}

func TestSetNestedField_ReplacesScalarIntermediate(t *testing.T) {
	fields := map[string]interface{}{"a": "scalar"}
	require.NoError(t, SetNestedField(fields, "a.b", 2))

	assert.Equal(t, map[string]interface{}{"a": map[string]interface{}{"b": 2}}, fields)
}

func TestSetNestedField_RejectsMalformedPath(t *testing.T) {
	fields := map[string]interface{}{"a": 1}

	err := SetNestedField(fields, "a..b", 2)
	assert.ErrorIs(t, err, ErrInvalidFieldPathFormat)
	assert.Equal(t, map[string]interface{}{"a": 1}, fields)

	assert.ErrorIs(t, SetNestedField(fields, "", 2), ErrEmptyFieldPath)
}

func TestApplyUpdate_DottedPathMerge(t *testing.T) {
	testCases := []struct {
		name     string
		prior    map[string]interface{}
		update   map[string]interface{}
		expected map[string]interface{}
	}{
		{
			name:     "Empty prior",
			prior:    map[string]interface{}{},
			update:   map[string]interface{}{"a.b": 1},
			expected: map[string]interface{}{"a": map[string]interface{}{"b": 1}},
		},
		{
			name:     "Sibling keys retained",
			prior:    map[string]interface{}{"a": map[string]interface{}{"b": 1, "c": 2}},
			update:   map[string]interface{}{"a.b": 9},
			expected: map[string]interface{}{"a": map[string]interface{}{"b": 9, "c": 2}},
		},
		{
			name:     "Absent document treated as empty",
			prior:    nil,
			update:   map[string]interface{}{"x": "y"},
			expected: map[string]interface{}{"x": "y"},
		},
		{
			name:     "Unmentioned top-level keys retained",
			prior:    map[string]interface{}{"keep": true, "a": map[string]interface{}{"b": 1}},
			update:   map[string]interface{}{"a.b": 2},
			expected: map[string]interface{}{"keep": true, "a": map[string]interface{}{"b": 2}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := ApplyUpdate(tc.prior, tc.update)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, result)
		})
	}
}

func TestApplyUpdate_DoesNotMutatePrior(t *testing.T) {
	prior := map[string]interface{}{"a": map[string]interface{}{"b": 1}}
	_, err := ApplyUpdate(prior, map[string]interface{}{"a.b": 99})
	require.NoError(t, err)

	assert.Equal(t, 1, prior["a"].(map[string]interface{})["b"])
}

func TestApplyUpdate_RejectsMalformedKey(t *testing.T) {
	testCases := []struct {
		name   string
		update map[string]interface{}
		err    error
	}{
		{name: "Double dot", update: map[string]interface{}{"a..b": 1}, err: ErrInvalidFieldPathFormat},
		{name: "Empty key", update: map[string]interface{}{"": 1}, err: ErrEmptyFieldPath},
		{name: "Too deep", update: map[string]interface{}{"a.b.c.d.e.f.g.h.i.j.k": 1}, err: ErrFieldPathTooDeep},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := ApplyUpdate(map[string]interface{}{"a": 1}, tc.update)
			assert.ErrorIs(t, err, tc.err)
			assert.Nil(t, result)
		})
	}
}

func TestCloneFields_DeepCopies(t *testing.T) {
	original := map[string]interface{}{
		"nested": map[string]interface{}{"x": 1},
		"list":   []interface{}{map[string]interface{}{"y": 2}},
	}

	clone := CloneFields(original)
	require.Equal(t, original, clone)

	clone["nested"].(map[string]interface{})["x"] = 99
	clone["list"].([]interface{})[0].(map[string]interface{})["y"] = 99

	assert.Equal(t, 1, original["nested"].(map[string]interface{})["x"])
	assert.Equal(t, 2, original["list"].([]interface{})[0].(map[string]interface{})["y"])
}
