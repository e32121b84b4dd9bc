package rulestest

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"firestore-rules-tester/internal/rulestest/adapter/cache"
	"firestore-rules-tester/internal/rulestest/adapter/oracle"
	"firestore-rules-tester/internal/rulestest/config"
	"firestore-rules-tester/internal/rulestest/domain/model"
	"firestore-rules-tester/internal/rulestest/domain/repository"
	"firestore-rules-tester/internal/rulestest/usecase"
	"firestore-rules-tester/internal/shared/errors"
	"firestore-rules-tester/internal/shared/logger"

	"github.com/redis/go-redis/v9"
)

// Module wires the rules-testing components together: the oracle adapter, the
// optional Redis verdict cache, and the database usecase.
type Module struct {
	Config     *config.Config
	Authorizer repository.OracleAuthorizer
	Database   *usecase.Database
	Logger     logger.Logger

	redisClient *redis.Client
}

// NewModule creates and wires a rules-testing module for the given credential.
// When RedisAddr is configured, oracle verdicts are cached between runs.
func NewModule(cfg *config.Config, credential repository.Credential, log logger.Logger) (*Module, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	var authorizer repository.OracleAuthorizer = oracle.NewAuthorizer(cfg, nil, log)

	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		authorizer = cache.NewCachingAuthorizer(authorizer, redisClient, cfg.VerdictCacheTTL, log)
		log.WithFields(map[string]interface{}{"addr": cfg.RedisAddr}).Info("Verdict cache enabled")
	}

	db := usecase.NewDatabase(usecase.DatabaseConfig{Credential: credential}, authorizer, log)

	return &Module{
		Config:      cfg,
		Authorizer:  authorizer,
		Database:    db,
		Logger:      log,
		redisClient: redisClient,
	}, nil
}

// Close releases module resources.
func (m *Module) Close() error {
	if m.redisClient != nil {
		return m.redisClient.Close()
	}
	return nil
}

// LoadCredentialFile reads a service-account credential from a JSON file.
func LoadCredentialFile(path string) (repository.Credential, error) {
	var credential repository.Credential

	raw, err := os.ReadFile(path)
	if err != nil {
		return credential, errors.NewInfrastructureError("failed to read credential file").
			WithCause(err).
			WithDetail("path", path)
	}

	if err := json.Unmarshal(raw, &credential); err != nil {
		return credential, errors.NewValidationError("credential file is not valid JSON").
			WithCause(err).
			WithDetail("path", path)
	}

	if err := credential.Validate(); err != nil {
		return credential, err
	}
	return credential, nil
}

// LoadFixtureFile reads a fixture dataset from a JSON file. The file holds the
// root Collections value: collection names mapped to document arrays.
func LoadFixtureFile(path string) (model.Collections, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewInfrastructureError("failed to read fixture file").
			WithCause(err).
			WithDetail("path", path)
	}

	var collections model.Collections
	if err := json.Unmarshal(raw, &collections); err != nil {
		return nil, errors.NewValidationError("fixture file is not valid JSON").
			WithCause(err).
			WithDetail("path", path)
	}
	return collections, nil
}

// Scenario is one scripted assertion from a scenario file.
type Scenario struct {
	Name   string                 `json:"name"`
	Expect model.Expectation      `json:"expect"`
	Method string                 `json:"method"`
	Auth   *model.Auth            `json:"auth,omitempty"`
	Path   string                 `json:"path,omitempty"`
	Data   map[string]interface{} `json:"data,omitempty"`
	Batch  []model.BatchOperation `json:"batch,omitempty"`
}

// LoadScenarioFile reads a list of scripted assertions from a JSON file.
func LoadScenarioFile(path string) ([]Scenario, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewInfrastructureError("failed to read scenario file").
			WithCause(err).
			WithDetail("path", path)
	}

	var scenarios []Scenario
	if err := json.Unmarshal(raw, &scenarios); err != nil {
		return nil, errors.NewValidationError("scenario file is not valid JSON").
			WithCause(err).
			WithDetail("path", path)
	}
	return scenarios, nil
}

// RunScenario executes one scripted assertion against the module's database.
func (m *Module) RunScenario(ctx context.Context, sc Scenario) (*model.TestSummary, error) {
	allowed := sc.Expect == model.ExpectAllow

	switch sc.Method {
	case "get":
		if allowed {
			return m.Database.CanGet(ctx, sc.Auth, sc.Path)
		}
		return m.Database.CannotGet(ctx, sc.Auth, sc.Path)
	case "set":
		if allowed {
			return m.Database.CanSet(ctx, sc.Auth, sc.Path, sc.Data)
		}
		return m.Database.CannotSet(ctx, sc.Auth, sc.Path, sc.Data)
	case "update":
		if allowed {
			return m.Database.CanUpdate(ctx, sc.Auth, sc.Path, sc.Data)
		}
		return m.Database.CannotUpdate(ctx, sc.Auth, sc.Path, sc.Data)
	case "commit":
		if allowed {
			return m.Database.CanCommit(ctx, sc.Auth, sc.Batch)
		}
		return m.Database.CannotCommit(ctx, sc.Auth, sc.Batch)
	default:
		return nil, errors.NewValidationError(fmt.Sprintf("scenario %q has unsupported method %q", sc.Name, sc.Method))
	}
}
