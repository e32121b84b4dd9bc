package usecase

import (
	"fmt"
	"strings"

	"firestore-rules-tester/internal/rulestest/domain/model"
	"firestore-rules-tester/internal/shared/errors"
)

// Summarize pairs each submitted case with its oracle result and reduces them to a
// single verdict: success iff every result is SUCCESS.
func Summarize(cases []model.TestCase, results []model.TestResult) model.TestSummary {
	summary := model.TestSummary{
		Success: true,
		Tests:   make([]model.CaseResult, 0, len(results))}
	for i, result := range results {
		var testCase model.TestCase
		if i < len(cases) {
			testCase = cases[i]
		}
		if result.State != model.StateSuccess {
			summary.Success = false
		}
		summary.Tests = append(summary.Tests, model.CaseResult{Case: testCase, Result: result})
	}
	return summary
}

// AssertSummary is a no-op on success. On failure it returns an assertion error
// for the first failing case, preferring the oracle's debug diagnostics over the
// synthesized expectation sentence.
func AssertSummary(summary model.TestSummary) error {
	if summary.Success {
		return nil
	}

	for _, test := range summary.Tests {
		if test.Result.State == model.StateSuccess {
			continue
		}
		return errors.NewAssertionError(failureMessage(test.Case, test.Result))
	}

	return errors.NewAssertionError("test summary reported failure without a failing case")
}

// AssertResult applies the same phrasing to a bare result and its originating case,
// used by the simpler get/set-only call forms.
func AssertResult(result model.TestResult, input model.TestCase) error {
	if result.State == model.StateSuccess {
		return nil
	}
	return errors.NewAssertionError(failureMessage(input, result))
}

func failureMessage(testCase model.TestCase, result model.TestResult) string {
	if len(result.DebugMessages) > 0 {
		return strings.Join(result.DebugMessages, "\n\n")
	}

	direction := "succeed"
	if testCase.Expectation == model.ExpectDeny {
		direction = "fail"
	}
	return fmt.Sprintf("Expected the %s operation to %s.", testCase.Request.Method, direction)
}
