package usecase

import (
	"testing"

	"firestore-rules-tester/internal/rulestest/domain/model"
	"firestore-rules-tester/internal/shared/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func caseWith(method model.RequestMethod, expectation model.Expectation) model.TestCase {
	return model.TestCase{
		Expectation: expectation,
		Request:     model.Request{Method: method, Path: "/databases/(default)/documents/users/userA"},
	}
}

func TestSummarize_AllSuccess(t *testing.T) {
	cases := []model.TestCase{caseWith(model.MethodGet, model.ExpectAllow)}
	results := []model.TestResult{{State: model.StateSuccess}}

	summary := Summarize(cases, results)
	assert.True(t, summary.Success)
	require.Len(t, summary.Tests, 1)
	assert.Equal(t, model.StateSuccess, summary.Tests[0].Result.State)
}

func TestSummarize_AnyFailureFailsTheSummary(t *testing.T) {
	cases := []model.TestCase{
		caseWith(model.MethodCreate, model.ExpectAllow),
		caseWith(model.MethodCreate, model.ExpectAllow),
	}
	results := []model.TestResult{
		{State: model.StateSuccess},
		{State: model.StateFailure},
	}

	summary := Summarize(cases, results)
	assert.False(t, summary.Success)
	assert.Len(t, summary.Tests, 2)
}

func TestAssertSummary_NoopOnSuccess(t *testing.T) {
	summary := Summarize(
		[]model.TestCase{caseWith(model.MethodGet, model.ExpectAllow)},
		[]model.TestResult{{State: model.StateSuccess}})

	assert.NoError(t, AssertSummary(summary))
}

func TestAssertSummary_SynthesizedMessage(t *testing.T) {
	testCases := []struct {
		name        string
		method      model.RequestMethod
		expectation model.Expectation
		expected    string
	}{
		{name: "Allowed get", method: model.MethodGet, expectation: model.ExpectAllow, expected: "Expected the get operation to succeed."},
		{name: "Denied get", method: model.MethodGet, expectation: model.ExpectDeny, expected: "Expected the get operation to fail."},
		{name: "Allowed create", method: model.MethodCreate, expectation: model.ExpectAllow, expected: "Expected the create operation to succeed."},
		{name: "Denied update", method: model.MethodUpdate, expectation: model.ExpectDeny, expected: "Expected the update operation to fail."},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			summary := Summarize(
				[]model.TestCase{caseWith(tc.method, tc.expectation)},
				[]model.TestResult{{State: model.StateFailure}})

			err := AssertSummary(summary)
			require.Error(t, err)
			assert.True(t, errors.IsAssertion(err))
			assert.Equal(t, tc.expected, err.Error())
		})
	}
}

func TestAssertSummary_PrefersDebugMessages(t *testing.T) {
	summary := Summarize(
		[]model.TestCase{caseWith(model.MethodGet, model.ExpectAllow)},
		[]model.TestResult{{
			State:         model.StateFailure,
			DebugMessages: []string{"rule at line 4 denied the request", "auth was null"},
		}})

	err := AssertSummary(summary)
	require.Error(t, err)
	assert.Equal(t, "rule at line 4 denied the request\n\nauth was null", err.Error())
}

func TestAssertSummary_FirstFailingCaseWins(t *testing.T) {
	summary := Summarize(
		[]model.TestCase{
			caseWith(model.MethodCreate, model.ExpectAllow),
			caseWith(model.MethodDelete, model.ExpectAllow),
		},
		[]model.TestResult{
			{State: model.StateFailure},
			{State: model.StateFailure, DebugMessages: []string{"other"}},
		})

	err := AssertSummary(summary)
	require.Error(t, err)
	assert.Equal(t, "Expected the create operation to succeed.", err.Error())
}

func TestAssertResult(t *testing.T) {
	input := caseWith(model.MethodWrite, model.ExpectDeny)

	assert.NoError(t, AssertResult(model.TestResult{State: model.StateSuccess}, input))

	err := AssertResult(model.TestResult{State: model.StateFailure}, input)
	require.Error(t, err)
	assert.Equal(t, "Expected the write operation to fail.", err.Error())
}
