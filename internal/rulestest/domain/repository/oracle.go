package repository

import (
	"context"
	"strings"

	"firestore-rules-tester/internal/rulestest/domain/model"
	"firestore-rules-tester/internal/shared/errors"
)

// SourcePosition locates an issue inside the rules source.
type SourcePosition struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Issue is a syntax or semantic problem the oracle found in the rules source
// itself, as opposed to a per-case failure.
type Issue struct {
	SourcePosition SourcePosition `json:"sourcePosition"`
	Description    string         `json:"description"`
}

// TestRulesetResponse is the oracle's answer for one evaluation call: one result
// per supplied case, in the same order.
type TestRulesetResponse struct {
	Issues      []Issue            `json:"issues,omitempty"`
	TestResults []model.TestResult `json:"testResults"`
}

// RulesOracle is the external rules-evaluation service, treated as a black box
// returning per-case verdicts.
type RulesOracle interface {
	TestRuleset(ctx context.Context, projectID, rulesSource string, cases []model.TestCase) (*TestRulesetResponse, error)
}

// Credential identifies a service account allowed to call the oracle.
type Credential struct {
	ProjectID   string `json:"project_id"`
	ClientEmail string `json:"client_email"`
	PrivateKey  string `json:"private_key"`
}

// Validate checks that all credential fields are present.
func (c Credential) Validate() error {
	if c.ProjectID == "" {
		return errors.NewValidationError("credential is missing project_id")
	}
	if c.ClientEmail == "" {
		return errors.NewValidationError("credential is missing client_email")
	}
	if strings.TrimSpace(c.PrivateKey) == "" {
		return errors.NewValidationError("credential is missing private_key")
	}
	return nil
}

// TokenSource produces bearer tokens for oracle calls.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// OracleAuthorizer exchanges a credential for an authenticated oracle client.
// Authorization failures propagate unchanged to the caller.
type OracleAuthorizer interface {
	Authorize(ctx context.Context, credential Credential) (RulesOracle, error)
}
