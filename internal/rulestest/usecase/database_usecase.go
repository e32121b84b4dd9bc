package usecase

import (
	"context"
	"fmt"
	"os"
	"strings"

	"firestore-rules-tester/internal/rulestest/domain/model"
	"firestore-rules-tester/internal/rulestest/domain/repository"
	"firestore-rules-tester/internal/shared/errors"
	"firestore-rules-tester/internal/shared/logger"
	"firestore-rules-tester/internal/shared/paths"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Database owns a fixture dataset and a rules source and simulates requests
// against the remote rules evaluation service. Dataset and rules are replaced
// wholesale by the setters; each test call snapshots them at call time, so callers
// are expected to serialize mutation relative to in-flight tests.
type Database struct {
	collections model.Collections
	rules       string
	credential  repository.Credential
	authorizer  repository.OracleAuthorizer
	oracle      repository.RulesOracle
	log         logger.Logger
	runID       string
}

// DatabaseConfig carries the construction inputs for a Database. Data and Rules
// default to empty.
type DatabaseConfig struct {
	Data       model.Collections
	Credential repository.Credential
	Rules      string
}

// NewDatabase creates a Database. It is not usable for tests until Authorize has
// produced an authenticated oracle client.
func NewDatabase(cfg DatabaseConfig, authorizer repository.OracleAuthorizer, log logger.Logger) *Database {
	data := cfg.Data
	if data == nil {
		data = model.Collections{}
	}

	return &Database{
		collections: data,
		rules:       cfg.Rules,
		credential:  cfg.Credential,
		authorizer:  authorizer,
		log:         log.WithComponent("rules_database"),
		runID:       uuid.NewString(),
	}
}

// Authorize exchanges the credential for an authenticated oracle client. It is
// idempotent: once a client exists, subsequent calls are no-ops.
func (d *Database) Authorize(ctx context.Context) error {
	if d.oracle != nil {
		return nil
	}

	client, err := d.authorizer.Authorize(ctx, d.credential)
	if err != nil {
		d.log.Error("Authorization against rules service failed",
			zap.String("runID", d.runID),
			zap.String("projectID", d.credential.ProjectID),
			zap.Error(err))
		return err
	}

	d.oracle = client
	d.log.Info("Rules test client authorized",
		zap.String("runID", d.runID),
		zap.String("projectID", d.credential.ProjectID))
	return nil
}

// AuthorizeWith replaces the credential and re-authorizes, keeping rules and data.
func (d *Database) AuthorizeWith(ctx context.Context, credential repository.Credential) error {
	d.credential = credential
	d.oracle = nil
	return d.Authorize(ctx)
}

// SetData replaces the whole fixture dataset.
func (d *Database) SetData(collections model.Collections) {
	if collections == nil {
		collections = model.Collections{}
	}
	d.collections = collections
}

// SetRules replaces the rules source.
func (d *Database) SetRules(rules string) {
	d.rules = rules
}

// SetRulesFromFile reads a file as text and replaces the rules source with it.
func (d *Database) SetRulesFromFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return errors.NewInfrastructureError("failed to read rules file").
			WithCause(err).
			WithDetail("path", path)
	}
	d.SetRules(string(content))
	return nil
}

// Data returns the current fixture dataset.
func (d *Database) Data() model.Collections {
	return d.collections
}

// Rules returns the current rules source.
func (d *Database) Rules() string {
	return d.rules
}

// TestRules submits the given cases to the oracle and aggregates the per-case
// results into a summary. A non-empty issues list means the rules source itself
// did not compile and is surfaced as a fatal error, not a per-case failure.
func (d *Database) TestRules(ctx context.Context, cases ...model.TestCase) (*model.TestSummary, error) {
	if err := d.requireAuthorized(); err != nil {
		return nil, err
	}

	resp, err := d.oracle.TestRuleset(ctx, d.credential.ProjectID, d.rules, cases)
	if err != nil {
		d.log.Error("Rules evaluation call failed",
			zap.String("runID", d.runID),
			zap.String("projectID", d.credential.ProjectID),
			zap.Int("cases", len(cases)),
			zap.Error(err))
		return nil, err
	}

	if len(resp.Issues) > 0 {
		return nil, compilationError(resp.Issues)
	}

	if len(resp.TestResults) != len(cases) {
		return nil, errors.NewInternalError("oracle result count does not match submitted cases").
			WithCause(errors.ErrResultCountMismatch).
			WithDetail("cases", len(cases)).
			WithDetail("results", len(resp.TestResults))
	}

	summary := Summarize(cases, resp.TestResults)
	if summary.Success {
		d.log.Info("Rules test passed",
			zap.String("runID", d.runID),
			zap.String("projectID", d.credential.ProjectID),
			zap.Int("cases", len(cases)))
	} else {
		d.log.Warn("Rules test failed",
			zap.String("runID", d.runID),
			zap.String("projectID", d.credential.ProjectID),
			zap.Int("cases", len(cases)))
	}
	return &summary, nil
}

// CanGet asserts that reading path under the given identity is allowed.
func (d *Database) CanGet(ctx context.Context, auth *model.Auth, path string) (*model.TestSummary, error) {
	return d.testGet(ctx, model.ExpectAllow, auth, path)
}

// CannotGet asserts that reading path under the given identity is denied.
func (d *Database) CannotGet(ctx context.Context, auth *model.Auth, path string) (*model.TestSummary, error) {
	return d.testGet(ctx, model.ExpectDeny, auth, path)
}

// CanSet asserts that replacing the document at path is allowed.
func (d *Database) CanSet(ctx context.Context, auth *model.Auth, path string, data map[string]interface{}) (*model.TestSummary, error) {
	return d.testCommit(ctx, model.ExpectAllow, auth, []model.BatchOperation{model.NewSet(path, data)})
}

// CannotSet asserts that replacing the document at path is denied.
func (d *Database) CannotSet(ctx context.Context, auth *model.Auth, path string, data map[string]interface{}) (*model.TestSummary, error) {
	return d.testCommit(ctx, model.ExpectDeny, auth, []model.BatchOperation{model.NewSet(path, data)})
}

// CanUpdate asserts that merging data into the document at path is allowed.
func (d *Database) CanUpdate(ctx context.Context, auth *model.Auth, path string, data map[string]interface{}) (*model.TestSummary, error) {
	return d.testCommit(ctx, model.ExpectAllow, auth, []model.BatchOperation{model.NewUpdate(path, data)})
}

// CannotUpdate asserts that merging data into the document at path is denied.
func (d *Database) CannotUpdate(ctx context.Context, auth *model.Auth, path string, data map[string]interface{}) (*model.TestSummary, error) {
	return d.testCommit(ctx, model.ExpectDeny, auth, []model.BatchOperation{model.NewUpdate(path, data)})
}

// CanCommit asserts that committing the whole batch is allowed. Each write becomes
// its own case, and every case sees the after-state of every operation in the
// batch, so cross-document rule conditions evaluate against the combined effect.
func (d *Database) CanCommit(ctx context.Context, auth *model.Auth, batch []model.BatchOperation) (*model.TestSummary, error) {
	return d.testCommit(ctx, model.ExpectAllow, auth, batch)
}

// CannotCommit asserts that committing the whole batch is denied.
func (d *Database) CannotCommit(ctx context.Context, auth *model.Auth, batch []model.BatchOperation) (*model.TestSummary, error) {
	return d.testCommit(ctx, model.ExpectDeny, auth, batch)
}

func (d *Database) testGet(ctx context.Context, expectation model.Expectation, auth *model.Auth, path string) (*model.TestSummary, error) {
	if err := d.requireAuthorized(); err != nil {
		return nil, err
	}
	if err := paths.ValidateDocumentPath(path); err != nil {
		return nil, err
	}

	testCase := MakeGetCase(d.collections, expectation, auth, path)
	return d.TestRules(ctx, testCase)
}

func (d *Database) testCommit(ctx context.Context, expectation model.Expectation, auth *model.Auth, batch []model.BatchOperation) (*model.TestSummary, error) {
	if err := d.requireAuthorized(); err != nil {
		return nil, err
	}

	cases, err := MakeCommitCases(d.collections, expectation, auth, batch)
	if err != nil {
		return nil, err
	}
	return d.TestRules(ctx, cases...)
}

// requireAuthorized fails fast when no authenticated client exists yet, so case
// building never precedes authorization.
func (d *Database) requireAuthorized() error {
	if d.oracle == nil {
		return errors.NewConfigurationError("rules test client is not authorized").
			WithCause(errors.ErrNotAuthorized)
	}
	return nil
}

// compilationError folds every oracle issue into one fatal error listing its
// location and description.
func compilationError(issues []repository.Issue) error {
	lines := make([]string, 0, len(issues))
	for _, issue := range issues {
		lines = append(lines, fmt.Sprintf("Line %d, column %d: %s",
			issue.SourcePosition.Line, issue.SourcePosition.Column, issue.Description))
	}

	return errors.NewRulesCompilationError("rules source failed to compile:\n" + strings.Join(lines, "\n")).
		WithCause(errors.ErrRulesCompilation).
		WithDetail("issue_count", len(issues))
}
