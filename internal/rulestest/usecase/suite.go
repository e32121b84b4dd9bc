package usecase

import (
	"context"

	"firestore-rules-tester/internal/rulestest/domain/model"
	"firestore-rules-tester/internal/rulestest/domain/repository"
	"firestore-rules-tester/internal/shared/errors"
	"firestore-rules-tester/internal/shared/logger"
)

// Suite is an explicit test-suite context shared across setup and teardown hooks,
// replacing any process-wide default database. Lifecycle: create, Authorize,
// (SetRules/SetData)*, run tests, Close. It lazily constructs a single Database on
// first Authorize and preserves its rules and data across re-authorization.
type Suite struct {
	authorizer repository.OracleAuthorizer
	log        logger.Logger
	db         *Database
	closed     bool
}

// NewSuite creates an unauthorized suite context.
func NewSuite(authorizer repository.OracleAuthorizer, log logger.Logger) *Suite {
	return &Suite{
		authorizer: authorizer,
		log:        log.WithComponent("rules_suite"),
	}
}

// Authorize authorizes the suite's database against the oracle, constructing it on
// first use. Re-authorizing with a new credential keeps the rules and dataset set
// so far.
func (s *Suite) Authorize(ctx context.Context, credential repository.Credential) error {
	if s.closed {
		return errors.NewConfigurationError("suite is closed").WithCause(errors.ErrNotInitialized)
	}

	if s.db == nil {
		s.db = NewDatabase(DatabaseConfig{Credential: credential}, s.authorizer, s.log)
		return s.db.Authorize(ctx)
	}
	return s.db.AuthorizeWith(ctx, credential)
}

// SetData replaces the suite's fixture dataset.
func (s *Suite) SetData(collections model.Collections) error {
	if err := s.requireInitialized(); err != nil {
		return err
	}
	s.db.SetData(collections)
	return nil
}

// SetRules replaces the suite's rules source.
func (s *Suite) SetRules(rules string) error {
	if err := s.requireInitialized(); err != nil {
		return err
	}
	s.db.SetRules(rules)
	return nil
}

// SetRulesFromFile reads a file as text and replaces the suite's rules source.
func (s *Suite) SetRulesFromFile(path string) error {
	if err := s.requireInitialized(); err != nil {
		return err
	}
	return s.db.SetRulesFromFile(path)
}

// CanGet asserts that reading path under the given identity is allowed.
func (s *Suite) CanGet(ctx context.Context, auth *model.Auth, path string) (*model.TestSummary, error) {
	if err := s.requireInitialized(); err != nil {
		return nil, err
	}
	return s.db.CanGet(ctx, auth, path)
}

// CannotGet asserts that reading path under the given identity is denied.
func (s *Suite) CannotGet(ctx context.Context, auth *model.Auth, path string) (*model.TestSummary, error) {
	if err := s.requireInitialized(); err != nil {
		return nil, err
	}
	return s.db.CannotGet(ctx, auth, path)
}

// CanSet asserts that replacing the document at path is allowed.
func (s *Suite) CanSet(ctx context.Context, auth *model.Auth, path string, data map[string]interface{}) (*model.TestSummary, error) {
	if err := s.requireInitialized(); err != nil {
		return nil, err
	}
	return s.db.CanSet(ctx, auth, path, data)
}

// CannotSet asserts that replacing the document at path is denied.
func (s *Suite) CannotSet(ctx context.Context, auth *model.Auth, path string, data map[string]interface{}) (*model.TestSummary, error) {
	if err := s.requireInitialized(); err != nil {
		return nil, err
	}
	return s.db.CannotSet(ctx, auth, path, data)
}

// Database exposes the underlying database for the full operation surface.
func (s *Suite) Database() (*Database, error) {
	if err := s.requireInitialized(); err != nil {
		return nil, err
	}
	return s.db, nil
}

// Close disposes the suite. Subsequent operations fail with an initialization
// error.
func (s *Suite) Close() error {
	s.closed = true
	s.db = nil
	return nil
}

func (s *Suite) requireInitialized() error {
	if s.closed || s.db == nil {
		return errors.NewConfigurationError("suite is not initialized").
			WithCause(errors.ErrNotInitialized)
	}
	return nil
}
