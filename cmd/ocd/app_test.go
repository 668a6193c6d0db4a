package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davedittrich/ocd/pkg/api"
	"github.com/davedittrich/ocd/pkg/secrets"
)

const testKey = "sk-aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"

func testApp(t *testing.T) *App {
	t.Helper()
	t.Setenv(secrets.BaseDirVar, t.TempDir())

	env, err := secrets.NewEnvironment("testing", "")
	require.NoError(t, err)
	require.NoError(t, env.Read())

	return &App{Secrets: env}
}

func TestResolveKeyPrefersProcessEnvironment(t *testing.T) {
	app := testApp(t)
	t.Setenv("OPENAI_API_KEY", testKey)
	app.Secrets.Set("openai_api_key", "sk-from-secrets")

	key, err := app.ResolveKey(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, testKey, key)
}

func TestResolveKeyFallsBackToSecrets(t *testing.T) {
	app := testApp(t)
	t.Setenv("OPENAI_API_KEY", "")
	app.Secrets.Set("openai_api_key", testKey)

	key, err := app.ResolveKey(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, testKey, key)
}

func TestResolveKeyNonInteractiveWithoutKey(t *testing.T) {
	app := testApp(t)
	t.Setenv("OPENAI_API_KEY", "")

	key, err := app.ResolveKey(context.Background(), false)
	require.NoError(t, err)
	assert.Empty(t, key)
}

func TestOrganizationResolutionOrder(t *testing.T) {
	app := testApp(t)

	t.Setenv("OPENAI_ORGANIZATION_ID", "")
	assert.Empty(t, app.Organization())

	app.Secrets.Set("openai_organization_id", "org-from-secrets")
	assert.Equal(t, "org-from-secrets", app.Organization())

	t.Setenv("OPENAI_ORGANIZATION_ID", "org-from-env")
	assert.Equal(t, "org-from-env", app.Organization())
}

func TestClientIsBuiltOnceWithResolvedKey(t *testing.T) {
	app := testApp(t)
	t.Setenv("OPENAI_API_KEY", testKey)

	var gotConfig api.Config
	calls := 0
	original := newAPIClient
	newAPIClient = func(cfg api.Config) api.Service {
		calls++
		gotConfig = cfg
		return api.NewClient(cfg)
	}
	t.Cleanup(func() { newAPIClient = original })

	first, err := app.Client(context.Background())
	require.NoError(t, err)
	second, err := app.Client(context.Background())
	require.NoError(t, err)

	assert.Same(t, first.(*api.Client), second.(*api.Client))
	assert.Equal(t, 1, calls)
	assert.Equal(t, testKey, gotConfig.APIKey)
}

func TestNewAppOpensStoreUnderEnvironmentDir(t *testing.T) {
	base := t.TempDir()
	t.Setenv(secrets.BaseDirVar, base)
	t.Setenv(secrets.EnvironmentVar, "apptest")

	viper.Set("format", "table")
	viper.Set("environment", "apptest")
	t.Cleanup(func() {
		viper.Set("format", "table")
		viper.Set("environment", "")
	})

	ctx := context.Background()
	app, err := newApp(ctx)
	require.NoError(t, err)
	defer app.Close(ctx)

	assert.Equal(t, "apptest", app.Secrets.Name)
	assert.Equal(t, filepath.Join(base, "apptest", "defaults.db"), app.Defaults.Path())
	assert.FileExists(t, app.Defaults.Path())
}

func TestNewAppPropagatesQuiet(t *testing.T) {
	t.Setenv(secrets.BaseDirVar, t.TempDir())

	viper.Set("format", "table")
	viper.Set("quiet", true)
	t.Cleanup(func() { viper.Set("quiet", false) })

	ctx := context.Background()
	app, err := newApp(ctx)
	require.NoError(t, err)
	defer app.Close(ctx)

	assert.True(t, app.Presenter.IsQuiet())
}
