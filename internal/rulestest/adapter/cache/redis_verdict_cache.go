package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"firestore-rules-tester/internal/rulestest/domain/model"
	"firestore-rules-tester/internal/rulestest/domain/repository"
	"firestore-rules-tester/internal/shared/logger"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "rulestest:verdict:"

// VerdictCache caches oracle responses in Redis, keyed by a digest of the exact
// evaluation input, so repeated runs of an unchanged suite skip the network round
// trip. Cache failures are never fatal; the call falls through to the oracle.
type VerdictCache struct {
	next   repository.RulesOracle
	client *redis.Client
	ttl    time.Duration
	log    logger.Logger
}

// NewVerdictCache wraps an oracle with a Redis-backed verdict cache.
func NewVerdictCache(next repository.RulesOracle, client *redis.Client, ttl time.Duration, log logger.Logger) *VerdictCache {
	return &VerdictCache{
		next:   next,
		client: client,
		ttl:    ttl,
		log:    log.WithComponent("verdict_cache"),
	}
}

// TestRuleset serves a cached response when the same project, rules, and cases
// were evaluated before, delegating to the wrapped oracle otherwise.
func (c *VerdictCache) TestRuleset(ctx context.Context, projectID, rulesSource string, cases []model.TestCase) (*repository.TestRulesetResponse, error) {
	key, keyErr := cacheKey(projectID, rulesSource, cases)
	if keyErr == nil {
		if raw, err := c.client.Get(ctx, key).Bytes(); err == nil {
			var cached repository.TestRulesetResponse
			if err := json.Unmarshal(raw, &cached); err == nil {
				c.log.WithFields(map[string]interface{}{"key": key}).Debug("Verdict cache hit")
				return &cached, nil
			}
		}
	}

	resp, err := c.next.TestRuleset(ctx, projectID, rulesSource, cases)
	if err != nil {
		return nil, err
	}

	if keyErr == nil {
		if raw, err := json.Marshal(resp); err == nil {
			if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
				c.log.WithFields(map[string]interface{}{"error": err.Error()}).Warn("Failed to store verdict in cache")
			}
		}
	}

	return resp, nil
}

func cacheKey(projectID, rulesSource string, cases []model.TestCase) (string, error) {
	payload, err := json.Marshal(struct {
		ProjectID string           `json:"projectId"`
		Rules     string           `json:"rules"`
		Cases     []model.TestCase `json:"cases"`
	}{projectID, rulesSource, cases})
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256(payload)
	return keyPrefix + hex.EncodeToString(sum[:]), nil
}

// CachingAuthorizer decorates an authorizer so every client it produces is
// wrapped in a verdict cache.
type CachingAuthorizer struct {
	next   repository.OracleAuthorizer
	client *redis.Client
	ttl    time.Duration
	log    logger.Logger
}

// NewCachingAuthorizer wraps an authorizer with verdict caching.
func NewCachingAuthorizer(next repository.OracleAuthorizer, client *redis.Client, ttl time.Duration, log logger.Logger) *CachingAuthorizer {
	return &CachingAuthorizer{
		next:   next,
		client: client,
		ttl:    ttl,
		log:    log,
	}
}

// Authorize delegates to the wrapped authorizer and caches the resulting client's
// verdicts.
func (a *CachingAuthorizer) Authorize(ctx context.Context, credential repository.Credential) (repository.RulesOracle, error) {
	oracle, err := a.next.Authorize(ctx, credential)
	if err != nil {
		return nil, err
	}
	return NewVerdictCache(oracle, a.client, a.ttl, a.log), nil
}
