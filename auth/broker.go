package auth

import (
	"context"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/jws"
)

const grantType = "urn:ietf:params:oauth:grant-type:jwt-bearer"

var (
	// ErrBadCredential is returned when the private key or credentials file is
	// missing or malformed. Raised before any network traffic.
	ErrBadCredential = errors.New("bad credential")

	// ErrSignFailure is returned when signing the assertion fails.
	ErrSignFailure = errors.New("unable to sign assertion")

	// ErrTransport is returned for network errors and non-2xx responses from
	// the token endpoint.
	ErrTransport = errors.New("token exchange failed")

	// ErrTokenMissing is returned when the token endpoint responds 2xx but the
	// body has no access_token field.
	ErrTokenMissing = errors.New("no access token in response")
)

// Broker exchanges a freshly signed assertion for a bearer token. It is
// stateless between calls - every Acquire re-signs a new assertion with a
// new timestamp and performs exactly one round trip to the token endpoint.
// The broker never retries; the caller decides whether to re-run the whole
// acquisition.
type Broker struct {
	identity Identity
	scope    string
	audience string
	client   *http.Client
	now      func() time.Time
}

// NewBroker validates the scope and audience URIs and returns a broker for
// the identity. The audience is the token endpoint that both names the
// assertion's intended recipient and receives the exchange request.
func NewBroker(identity Identity, scope, audience string) (*Broker, error) {
	if strings.TrimSpace(identity.Email) == "" {
		return nil, fmt.Errorf("%w: missing service account email", ErrBadCredential)
	}

	if _, err := url.ParseRequestURI(scope); err != nil || strings.TrimSpace(scope) == "" {
		return nil, fmt.Errorf("invalid scope %q", scope)
	}

	if _, err := url.ParseRequestURI(audience); err != nil || strings.TrimSpace(audience) == "" {
		return nil, fmt.Errorf("invalid audience %q", audience)
	}

	return &Broker{
		identity: identity,
		scope:    scope,
		audience: audience,
		client:   &http.Client{},
		now:      time.Now,
	}, nil
}

// Acquire signs a fresh assertion and exchanges it for an access token.
// The returned token's expiry is the endpoint's expires_in when supplied,
// falling back to the assertion lifetime.
func (b *Broker) Acquire(ctx context.Context) (*oauth2.Token, error) {
	key, err := parseKey(b.identity.PrivateKey)
	if err != nil {
		return nil, err
	}

	now := b.now()
	claims := BuildClaims(b.identity, b.scope, b.audience, now)

	assertion, err := jws.Encode(&jws.Header{Algorithm: "RS256", Typ: "JWT"}, claims, key)
	if err != nil {
		return nil, fmt.Errorf("%w (%v)", ErrSignFailure, err)
	}

	form := url.Values{
		"grant_type": {grantType},
		"assertion":  {assertion},
	}

	rq, err := http.NewRequestWithContext(ctx, http.MethodPost, b.audience, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("%w (%v)", ErrTransport, err)
	}

	rq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	response, err := b.client.Do(rq)
	if err != nil {
		return nil, fmt.Errorf("%w (%v)", ErrTransport, err)
	}

	defer response.Body.Close()

	body, err := io.ReadAll(io.LimitReader(response.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w (%v)", ErrTransport, err)
	}

	if response.StatusCode < 200 || response.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s returned %v (%s)", ErrTransport, b.audience, response.Status, strings.TrimSpace(string(body)))
	}

	var reply struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
		ExpiresIn   int64  `json:"expires_in"`
	}

	if err := json.Unmarshal(body, &reply); err != nil {
		return nil, fmt.Errorf("%w (%v)", ErrTokenMissing, err)
	}

	if reply.AccessToken == "" {
		return nil, fmt.Errorf("%w from %s", ErrTokenMissing, b.audience)
	}

	lifetime := AssertionLifetime
	if reply.ExpiresIn > 0 {
		lifetime = time.Duration(reply.ExpiresIn) * time.Second
	}

	tokenType := reply.TokenType
	if tokenType == "" {
		tokenType = "Bearer"
	}

	return &oauth2.Token{
		AccessToken: reply.AccessToken,
		TokenType:   tokenType,
		Expiry:      now.Add(lifetime),
	}, nil
}

// TokenSource adapts the broker to the oauth2.TokenSource contract so that
// it can be composed with oauth2.ReuseTokenSource - tokens are then
// re-acquired at call boundaries when the validity window lapses mid-run.
func (b *Broker) TokenSource(ctx context.Context) oauth2.TokenSource {
	return tokenSource{ctx: ctx, broker: b}
}

type tokenSource struct {
	ctx    context.Context
	broker *Broker
}

func (ts tokenSource) Token() (*oauth2.Token, error) {
	return ts.broker.Acquire(ts.ctx)
}

// parseKey decodes a PEM encoded PKCS#1 or PKCS#8 RSA private key. Any other
// key material is a bad credential.
func parseKey(key []byte) (*rsa.PrivateKey, error) {
	if len(key) == 0 {
		return nil, fmt.Errorf("%w: missing private key", ErrBadCredential)
	}

	if block, _ := pem.Decode(key); block != nil {
		key = block.Bytes
	}

	parsed, err := x509.ParsePKCS8PrivateKey(key)
	if err != nil {
		if parsed, err = x509.ParsePKCS1PrivateKey(key); err != nil {
			return nil, fmt.Errorf("%w: private key should be PEM encoded PKCS#1 or PKCS#8 (%v)", ErrBadCredential, err)
		}
	}

	pk, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("%w: private key is not an RSA key", ErrBadCredential)
	}

	return pk, nil
}
