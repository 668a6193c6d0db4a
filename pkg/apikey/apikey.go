// Package apikey implements the one-time interactive recovery flow for a
// missing OpenAI API key: open the account page, prompt for a key, validate
// it, and store it in the secrets environment for future sessions.
package apikey

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/davedittrich/ocd/pkg/browser"
	"github.com/davedittrich/ocd/pkg/presenter"
	"github.com/davedittrich/ocd/pkg/secrets"
)

const (
	// SecretName is the secrets environment variable holding the API key.
	SecretName = "openai_api_key"

	// OrgSecretName is the secrets environment variable holding the organization ID.
	OrgSecretName = "openai_organization_id"

	// KeyPrefix is the prefix every OpenAI API key starts with.
	KeyPrefix = "sk-"

	// KeyLength is the exact length of an OpenAI API key.
	KeyLength = 51

	accountBase = "https://beta.openai.com"
	accountPath = "/account/api-keys"
)

// ErrDeclined is returned when the user declines to open the account page.
// It is informational, not a failure.
var ErrDeclined = errors.New("API key setup declined")

// Options controls the bootstrap flow.
type Options struct {
	Environment *secrets.Environment
	Presenter   presenter.Presenter
	Browser     string
	ForceOpen   bool

	// OpenBrowser defaults to browser.Open; swappable for tests.
	OpenBrowser func(ctx context.Context, url, browser string, force bool) error
}

// AccountURL is the page where API keys are managed.
func AccountURL() string {
	return accountBase + accountPath
}

// Validate checks that key has the vendor's expected prefix and exact length.
func Validate(key string) error {
	if !strings.HasPrefix(key, KeyPrefix) {
		return errors.Errorf("API key must start with %q", KeyPrefix)
	}
	if len(key) != KeyLength {
		return errors.Errorf("API key must be exactly %d characters long (got %d)", KeyLength, len(key))
	}
	return nil
}

// Bootstrap walks the user through obtaining and storing an API key. On
// success the key is written to the secrets environment and returned for
// immediate use. A declined browser prompt yields ErrDeclined; an invalid
// key a fatal validation error. There is no retry loop.
func Bootstrap(ctx context.Context, opts Options) (string, error) {
	p := opts.Presenter
	env := opts.Environment

	p.Section("OpenAI API Key Setup")
	p.Info(fmt.Sprintf(
		"No OpenAI API key was found. Keys are stored as the secret %q\nin %s.",
		SecretName, env.Path()))
	p.Info(fmt.Sprintf("You can create or copy a key at %s.", AccountURL()))

	if !p.Confirm("Open that page in a browser?") {
		return "", ErrDeclined
	}

	openBrowser := opts.OpenBrowser
	if openBrowser == nil {
		openBrowser = browser.Open
	}
	if err := openBrowser(ctx, AccountURL(), opts.Browser, opts.ForceOpen); err != nil {
		return "", errors.Wrap(err, "failed to open browser")
	}

	key := p.Prompt("Enter your OpenAI API key")
	if err := Validate(key); err != nil {
		return "", err
	}

	env.Set(SecretName, key)
	if err := env.Write(); err != nil {
		return "", errors.Wrap(err, "failed to store API key")
	}

	p.Success(fmt.Sprintf("stored API key in %s", env.Path()))
	return key, nil
}
