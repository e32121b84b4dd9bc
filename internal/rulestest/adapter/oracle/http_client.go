package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"firestore-rules-tester/internal/rulestest/config"
	"firestore-rules-tester/internal/rulestest/domain/model"
	"firestore-rules-tester/internal/rulestest/domain/repository"
	"firestore-rules-tester/internal/shared/errors"
	"firestore-rules-tester/internal/shared/logger"
)

const rulesFileName = "firestore.rules"

// Client calls the remote rules Test API over HTTP, authenticating each request
// with a bearer token from the token source.
type Client struct {
	endpoint   string
	httpClient *http.Client
	tokens     repository.TokenSource
	log        logger.Logger
}

// NewClient creates an oracle client. A nil httpClient falls back to a default
// client with the configured timeout.
func NewClient(cfg *config.Config, tokens repository.TokenSource, httpClient *http.Client, log logger.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.HTTPTimeout}
	}

	return &Client{
		endpoint:   cfg.OracleEndpoint,
		httpClient: httpClient,
		tokens:     tokens,
		log:        log.WithComponent("rules_oracle_client"),
	}
}

// Wire schema of the Test API.

type testRulesetRequest struct {
	Source    rulesSource `json:"source"`
	TestSuite testSuite   `json:"testSuite"`
}

type rulesSource struct {
	Files []rulesFile `json:"files"`
}

type rulesFile struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

type testSuite struct {
	TestCases []model.TestCase `json:"testCases"`
}

// TestRuleset submits the rules source and cases for evaluation and returns the
// oracle's verdicts, one per case in the same order.
func (c *Client) TestRuleset(ctx context.Context, projectID, rulesSrc string, cases []model.TestCase) (*repository.TestRulesetResponse, error) {
	payload := testRulesetRequest{
		Source: rulesSource{
			Files: []rulesFile{{Name: rulesFileName, Content: rulesSrc}},
		},
		TestSuite: testSuite{TestCases: cases},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.NewInternalError("failed to encode rules test request").WithCause(err)
	}

	url := fmt.Sprintf("%s/v1/projects/%s:test", c.endpoint, projectID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, errors.NewInternalError("failed to build rules test request").WithCause(err)
	}

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, errors.NewAuthorizationError("failed to obtain bearer token for rules test").WithCause(err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.NewOracleTransportError("rules evaluation request failed").
			WithCause(err).
			WithDetail("project_id", projectID)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewOracleTransportError("failed to read rules evaluation response").WithCause(err)
	}

	if resp.StatusCode != http.StatusOK {
		c.log.WithFields(map[string]interface{}{
			"status":     resp.StatusCode,
			"project_id": projectID,
		}).Error("Rules evaluation service returned an error")
		return nil, errors.NewOracleTransportError("rules evaluation service returned an error").
			WithDetail("status", resp.StatusCode).
			WithDetail("body", string(raw))
	}

	var result repository.TestRulesetResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, errors.NewOracleTransportError("failed to decode rules evaluation response").WithCause(err)
	}

	return &result, nil
}

// Authorizer builds authenticated oracle clients from service-account credentials.
type Authorizer struct {
	cfg        *config.Config
	httpClient *http.Client
	log        logger.Logger
}

// NewAuthorizer creates an authorizer. A nil httpClient falls back to a default
// client with the configured timeout; tests inject their own transport here.
func NewAuthorizer(cfg *config.Config, httpClient *http.Client, log logger.Logger) *Authorizer {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.HTTPTimeout}
	}

	return &Authorizer{
		cfg:        cfg,
		httpClient: httpClient,
		log:        log,
	}
}

// Authorize validates the credential, verifies it can mint a token, and returns a
// client bound to that token source.
func (a *Authorizer) Authorize(ctx context.Context, credential repository.Credential) (repository.RulesOracle, error) {
	if err := credential.Validate(); err != nil {
		return nil, errors.NewAuthorizationError("credential is not usable").WithCause(err)
	}

	tokens := NewTokenSource(credential, a.cfg.TokenURL, a.cfg.TokenScope, a.httpClient)
	if _, err := tokens.Token(ctx); err != nil {
		return nil, errors.NewAuthorizationError("credential was rejected by the token endpoint").
			WithCause(err).
			WithDetail("client_email", credential.ClientEmail)
	}

	return NewClient(a.cfg, tokens, a.httpClient, a.log), nil
}
