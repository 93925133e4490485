package auth

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/oauth2/google"
)

// Identity is the service principal on whose behalf access tokens are
// acquired: a service account email and the PEM-encoded RSA key that
// signs its assertions. It is loaded once at startup and never mutated.
type Identity struct {
	Email      string
	PrivateKey []byte
	TokenURL   string
}

// LoadCredentials reads a Google service account credentials file
// (the JSON key downloaded from the cloud console) and extracts the
// service identity from it. A missing or malformed file is a bad
// credential - there is no interactive fallback for a service account.
func LoadCredentials(file string) (Identity, error) {
	b, err := os.ReadFile(file)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: unable to read credentials file (%v)", ErrBadCredential, err)
	}

	cfg, err := google.JWTConfigFromJSON(b)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: invalid credentials file %s (%v)", ErrBadCredential, file, err)
	}

	identity := Identity{
		Email:      cfg.Email,
		PrivateKey: cfg.PrivateKey,
		TokenURL:   cfg.TokenURL,
	}

	if strings.TrimSpace(identity.Email) == "" {
		return Identity{}, fmt.Errorf("%w: credentials file %s has no client email", ErrBadCredential, file)
	}

	if identity.TokenURL == "" {
		identity.TokenURL = google.JWTTokenURL
	}

	return identity, nil
}
