package apikey

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davedittrich/ocd/pkg/presenter"
	"github.com/davedittrich/ocd/pkg/secrets"
)

const validKey = "sk-aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"

func testEnv(t *testing.T) *secrets.Environment {
	t.Helper()
	env, err := secrets.NewEnvironment("test", t.TempDir())
	require.NoError(t, err)
	require.NoError(t, env.Read())
	return env
}

func testOptions(t *testing.T, env *secrets.Environment, input string, browserCalls *int) Options {
	t.Helper()
	p := presenter.NewWithOptions(&bytes.Buffer{}, &bytes.Buffer{}, strings.NewReader(input), presenter.ColorNever)
	return Options{
		Environment: env,
		Presenter:   p,
		OpenBrowser: func(_ context.Context, _, _ string, _ bool) error {
			if browserCalls != nil {
				*browserCalls++
			}
			return nil
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantErr string
	}{
		{name: "valid", key: validKey},
		{name: "wrong prefix", key: "pk-" + strings.Repeat("a", 48), wantErr: `must start with "sk-"`},
		{name: "too short", key: "sk-short", wantErr: "exactly 51 characters"},
		{name: "too long", key: "sk-" + strings.Repeat("a", 60), wantErr: "exactly 51 characters"},
		{name: "empty", key: "", wantErr: `must start with "sk-"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.key)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestBootstrap_Declined(t *testing.T) {
	env := testEnv(t)
	var browserCalls int

	// "n" to the browser prompt; no key input is provided because none
	// should be requested.
	opts := testOptions(t, env, "n\n", &browserCalls)

	key, err := Bootstrap(context.Background(), opts)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDeclined))
	assert.Empty(t, key)
	assert.Zero(t, browserCalls)

	// Secrets store was never touched.
	_, statErr := os.Stat(env.Path())
	assert.True(t, os.IsNotExist(statErr))
}

func TestBootstrap_InvalidKey(t *testing.T) {
	tests := []struct {
		name string
		key  string
	}{
		{name: "wrong prefix", key: "ak-" + strings.Repeat("x", 48)},
		{name: "wrong length", key: "sk-tooshort"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := testEnv(t)
			var browserCalls int
			opts := testOptions(t, env, "y\n"+tt.key+"\n", &browserCalls)

			_, err := Bootstrap(context.Background(), opts)
			require.Error(t, err)
			assert.False(t, errors.Is(err, ErrDeclined))
			assert.Equal(t, 1, browserCalls)

			// The invalid key was never written.
			_, statErr := os.Stat(env.Path())
			assert.True(t, os.IsNotExist(statErr))
		})
	}
}

func TestBootstrap_Success(t *testing.T) {
	env := testEnv(t)
	var browserCalls int
	opts := testOptions(t, env, "y\n"+validKey+"\n", &browserCalls)

	key, err := Bootstrap(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, validKey, key)
	assert.Equal(t, 1, browserCalls)

	fresh, err := secrets.NewEnvironment("test", env.BaseDir)
	require.NoError(t, err)
	require.NoError(t, fresh.Read())
	stored, err := fresh.Get(SecretName)
	require.NoError(t, err)
	assert.Equal(t, validKey, stored)
}

func TestBootstrap_PipedInput(t *testing.T) {
	// Both answers arrive in one pre-buffered read, and the key line is
	// terminated by EOF rather than a newline; the key prompt must still see
	// the second line.
	env := testEnv(t)
	var browserCalls int
	opts := testOptions(t, env, "y\n"+validKey, &browserCalls)

	key, err := Bootstrap(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, validKey, key)
	assert.Equal(t, 1, browserCalls)

	stored, err := env.Get(SecretName)
	require.NoError(t, err)
	assert.Equal(t, validKey, stored)
}

func TestAccountURL(t *testing.T) {
	assert.Equal(t, "https://beta.openai.com/account/api-keys", AccountURL())
}
