package usecase

import (
	"testing"

	"firestore-rules-tester/internal/rulestest/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeGetCase_ExistingDocument(t *testing.T) {
	tree := testTree()

	testCase := MakeGetCase(tree, model.ExpectAllow, &model.Auth{UID: "userA"}, "users/userA")

	assert.Equal(t, model.ExpectAllow, testCase.Expectation)
	assert.Equal(t, model.MethodGet, testCase.Request.Method)
	assert.Equal(t, "/databases/(default)/documents/users/userA", testCase.Request.Path)
	assert.Equal(t, "userA", testCase.Request.Auth.UID)
	require.NotNil(t, testCase.Resource)
	assert.Equal(t, map[string]interface{}{"name": "Ana"}, testCase.Resource.Data)
	assert.Len(t, testCase.FunctionMocks, 3+2*4)
}

func TestMakeGetCase_AbsentDocumentHasNullResource(t *testing.T) {
	testCase := MakeGetCase(testTree(), model.ExpectDeny, nil, "users/ghost")

	require.NotNil(t, testCase.Resource)
	assert.Nil(t, testCase.Resource.Data)
	assert.Nil(t, testCase.Request.Auth)
}

func TestMakeCommitCases_SetBecomesCreateWhenAbsent(t *testing.T) {
	tree := testTree()

	cases, err := MakeCommitCases(tree, model.ExpectAllow, &model.Auth{UID: "userC"},
		[]model.BatchOperation{model.NewSet("users/userC", map[string]interface{}{"name": "Carla"})})
	require.NoError(t, err)
	require.Len(t, cases, 1)

	assert.Equal(t, model.MethodCreate, cases[0].Request.Method)
	assert.Equal(t, map[string]interface{}{"name": "Carla"}, cases[0].Resource.Data)
}

func TestMakeCommitCases_SetBecomesUpdateWhenPresent(t *testing.T) {
	tree := testTree()

	cases, err := MakeCommitCases(tree, model.ExpectAllow, nil,
		[]model.BatchOperation{model.NewSet("users/userA", map[string]interface{}{"name": "Ana2"})})
	require.NoError(t, err)
	require.Len(t, cases, 1)

	assert.Equal(t, model.MethodUpdate, cases[0].Request.Method)
}

func TestMakeCommitCases_UpdateAndDeletePassThrough(t *testing.T) {
	tree := testTree()

	cases, err := MakeCommitCases(tree, model.ExpectDeny, nil, []model.BatchOperation{
		model.NewUpdate("users/userA", map[string]interface{}{"name": "x"}),
		model.NewDelete("users/userB"),
	})
	require.NoError(t, err)
	require.Len(t, cases, 2)

	assert.Equal(t, model.MethodUpdate, cases[0].Request.Method)
	assert.Equal(t, model.MethodDelete, cases[1].Request.Method)
	require.NotNil(t, cases[1].Resource)
	assert.Nil(t, cases[1].Resource.Data)
}

func TestMakeCommitCases_EveryCaseSeesWholeBatchAfterState(t *testing.T) {
	tree := testTree()
	batch := []model.BatchOperation{
		model.NewSet("users/userC", map[string]interface{}{"name": "Carla"}),
		model.NewSet("settings/userC", map[string]interface{}{"theme": "dark"}),
	}

	cases, err := MakeCommitCases(tree, model.ExpectAllow, &model.Auth{UID: "userC"}, batch)
	require.NoError(t, err)
	require.Len(t, cases, 2)

	// base mocks (3 defaults + 2 per fixture document) plus one getAfter per batch op
	expectedMocks := 3 + 2*4 + 2
	for _, c := range cases {
		require.Len(t, c.FunctionMocks, expectedMocks)
		after := findMock(t, c.FunctionMocks, "getAfter", "/databases/(default)/documents/settings/userC")
		assert.Equal(t,
			map[string]interface{}{"data": map[string]interface{}{"theme": "dark"}},
			after.Result.Value)
	}
}

func TestMakeCommitCases_UnknownMethodFails(t *testing.T) {
	_, err := MakeCommitCases(testTree(), model.ExpectAllow, nil,
		[]model.BatchOperation{{Method: "merge", Document: "users/userA"}})
	assert.Error(t, err)
}

func TestMakeCommitCases_MalformedUpdateKeyFails(t *testing.T) {
	_, err := MakeCommitCases(testTree(), model.ExpectAllow, &model.Auth{UID: "userA"},
		[]model.BatchOperation{model.NewUpdate("users/userA", map[string]interface{}{"name..first": "Ana"})})
	assert.ErrorIs(t, err, model.ErrInvalidFieldPathFormat)
}
