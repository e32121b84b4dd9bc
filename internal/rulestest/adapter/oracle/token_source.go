package oracle

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"firestore-rules-tester/internal/rulestest/domain/repository"
	"firestore-rules-tester/internal/shared/errors"

	"github.com/golang-jwt/jwt/v5"
)

const (
	jwtBearerGrant = "urn:ietf:params:oauth:grant-type:jwt-bearer"
	assertionTTL   = time.Hour
	expirySkew     = time.Minute
)

// tokenSource mints service-account bearer tokens and caches them until near
// expiry. It signs an RS256 assertion with the credential's private key and
// exchanges it at the OAuth2 token endpoint.
type tokenSource struct {
	credential repository.Credential
	tokenURL   string
	scope      string
	httpClient *http.Client
	now        func() time.Time

	mu     sync.Mutex
	token  string
	expiry time.Time
}

// NewTokenSource creates a caching token source for the given credential.
func NewTokenSource(credential repository.Credential, tokenURL, scope string, httpClient *http.Client) repository.TokenSource {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &tokenSource{
		credential: credential,
		tokenURL:   tokenURL,
		scope:      scope,
		httpClient: httpClient,
		now:        time.Now,
	}
}

// Token returns a cached bearer token, minting a fresh one when the cached token
// is absent or close to expiry.
func (s *tokenSource) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token != "" && s.now().Add(expirySkew).Before(s.expiry) {
		return s.token, nil
	}

	assertion, err := s.signAssertion()
	if err != nil {
		return "", err
	}

	token, expiresIn, err := s.exchange(ctx, assertion)
	if err != nil {
		return "", err
	}

	s.token = token
	s.expiry = s.now().Add(time.Duration(expiresIn) * time.Second)
	return s.token, nil
}

func (s *tokenSource) signAssertion() (string, error) {
	key, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(s.credential.PrivateKey))
	if err != nil {
		return "", errors.NewAuthorizationError("credential private key is not a valid RSA PEM key").
			WithCause(err)
	}

	now := s.now()
	claims := jwt.MapClaims{
		"iss":   s.credential.ClientEmail,
		"scope": s.scope,
		"aud":   s.tokenURL,
		"iat":   now.Unix(),
		"exp":   now.Add(assertionTTL).Unix(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	if err != nil {
		return "", errors.NewAuthorizationError("failed to sign token assertion").WithCause(err)
	}
	return signed, nil
}

func (s *tokenSource) exchange(ctx context.Context, assertion string) (string, int, error) {
	form := url.Values{}
	form.Set("grant_type", jwtBearerGrant)
	form.Set("assertion", assertion)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", 0, errors.NewInternalError("failed to build token request").WithCause(err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", 0, errors.NewAuthorizationError("token endpoint request failed").WithCause(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", 0, errors.NewAuthorizationError("failed to read token response").WithCause(err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", 0, errors.NewAuthorizationError("token endpoint rejected the credential").
			WithDetail("status", resp.StatusCode).
			WithDetail("body", string(raw))
	}

	var payload struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return "", 0, errors.NewAuthorizationError("failed to decode token response").WithCause(err)
	}
	if payload.AccessToken == "" {
		return "", 0, errors.NewAuthorizationError("token endpoint returned an empty token")
	}

	return payload.AccessToken, payload.ExpiresIn, nil
}
