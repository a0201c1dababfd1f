// Package auth acquires BigQuery bearer tokens for the gateway's service
// account. Tokens come from a cache when possible; on a miss the provider
// signs a short-lived JWT assertion and exchanges it at the identity
// provider's token endpoint.
package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"trends-gateway/internal/cache"
	"trends-gateway/internal/config"
	"trends-gateway/internal/domain"
	"trends-gateway/internal/observability"
)

// assertionLifetime is the validity window of each signed assertion. Google's
// token endpoint rejects assertions valid for longer than one hour.
const assertionLifetime = time.Hour

// cacheKeyPrefix namespaces token entries in the shared cache.
const cacheKeyPrefix = "gcp-token:"

// Provider exchanges signed service-account assertions for bearer tokens and
// caches them for their reported lifetime.
type Provider struct {
	cfg    config.GCPConfig
	store  cache.Store
	httpc  *http.Client
	logger *slog.Logger
	now    func() time.Time
}

// NewProvider creates a Provider using the given cache and HTTP client.
func NewProvider(cfg config.GCPConfig, store cache.Store, httpc *http.Client, logger *slog.Logger) *Provider {
	if httpc == nil {
		httpc = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Provider{
		cfg:    cfg,
		store:  store,
		httpc:  httpc,
		logger: logger,
		now:    time.Now,
	}
}

// AccessToken returns a bearer token granting the requested scope. A cached
// unexpired token is returned without any network call or signature;
// otherwise a fresh assertion exchange is performed and the result cached
// best-effort. Concurrent misses for the same scope each exchange
// independently; tokens are interchangeable so the last cache writer wins.
func (p *Provider) AccessToken(ctx context.Context, scope string) (string, error) {
	key := cacheKey(scope)

	token, ok, err := p.store.Lookup(ctx, key)
	if err != nil {
		// Cache trouble degrades to a miss.
		p.logger.Warn("token cache lookup failed", "error", err)
	}
	if ok && token != "" {
		observability.ObserveTokenCacheHit()
		return token, nil
	}
	observability.ObserveTokenCacheMiss()

	token, expiresIn, err := p.exchange(ctx, scope)
	observability.ObserveTokenExchange(err)
	if err != nil {
		return "", err
	}

	if err := p.store.Insert(ctx, key, token, time.Duration(expiresIn)*time.Second); err != nil {
		p.logger.Warn("token cache insert failed", "error", err)
	}
	return token, nil
}

// exchange signs a fresh assertion and trades it for a bearer token.
func (p *Provider) exchange(ctx context.Context, scope string) (string, int64, error) {
	assertion, err := p.signAssertion(scope)
	if err != nil {
		return "", 0, err
	}

	form := url.Values{
		"grant_type": {p.cfg.GrantType},
		"assertion":  {assertion},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.TokenAudience, strings.NewReader(form.Encode()))
	if err != nil {
		return "", 0, domain.ErrAuth("build token request: %v", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.httpc.Do(req)
	if err != nil {
		return "", 0, domain.ErrTransport("token exchange request: %v", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", 0, domain.ErrTransport("read token response: %v", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", 0, &domain.UpstreamError{Status: resp.StatusCode, Body: string(body)}
	}

	var grant struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int64  `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &grant); err != nil {
		return "", 0, domain.ErrAuth("token response is not valid JSON: %v", err)
	}
	if grant.AccessToken == "" {
		return "", 0, domain.ErrAuth("token response is missing access_token")
	}
	if grant.ExpiresIn <= 0 {
		return "", 0, domain.ErrAuth("token response is missing expires_in")
	}
	return grant.AccessToken, grant.ExpiresIn, nil
}

// signAssertion builds and signs the one-hour JWT assertion for scope.
func (p *Provider) signAssertion(scope string) (string, error) {
	// The key is transported as a single-line config value; restore the
	// PEM line breaks before parsing.
	pemKey := strings.ReplaceAll(p.cfg.ServiceAccountKey, `\n`, "\n")
	key, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(pemKey))
	if err != nil {
		return "", domain.ErrAuth("parse service account key: %v", err)
	}

	now := p.now()
	claims := jwt.MapClaims{
		"scope": scope,
		"iss":   p.cfg.ServiceAccountEmail,
		"aud":   p.cfg.TokenAudience,
		"iat":   now.Unix(),
		"exp":   now.Add(assertionLifetime).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	if err != nil {
		return "", domain.ErrAuth("sign assertion: %v", err)
	}
	return signed, nil
}

// cacheKey derives the cache key for a scope. Distinct scopes never alias.
func cacheKey(scope string) string {
	digest := sha256.Sum256([]byte(scope))
	return cacheKeyPrefix + hex.EncodeToString(digest[:])
}
