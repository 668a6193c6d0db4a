package main

import (
	"context"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/davedittrich/ocd/pkg/api"
	"github.com/davedittrich/ocd/pkg/apikey"
	"github.com/davedittrich/ocd/pkg/defaults"
	"github.com/davedittrich/ocd/pkg/logger"
	"github.com/davedittrich/ocd/pkg/presenter"
	"github.com/davedittrich/ocd/pkg/render"
	"github.com/davedittrich/ocd/pkg/secrets"
)

const (
	openaiBase     = "https://beta.openai.com"
	openaiDocsBase = openaiBase + "/docs"
)

// GlobalOptions are the root-level flags shared by every subcommand.
type GlobalOptions struct {
	APIBase      string
	Browser      string
	ForceBrowser bool
	Environment  string
	Format       render.Format
}

// globalOptions extracts the shared options from viper-bound flags.
func globalOptions() (GlobalOptions, error) {
	format, err := render.ParseFormat(viper.GetString("format"))
	if err != nil {
		return GlobalOptions{}, err
	}
	return GlobalOptions{
		APIBase:      viper.GetString("api_base"),
		Browser:      viper.GetString("browser"),
		ForceBrowser: viper.GetBool("force_browser"),
		Environment:  viper.GetString("environment"),
		Format:       format,
	}, nil
}

// newAPIClient is swappable for tests.
var newAPIClient = func(cfg api.Config) api.Service {
	return api.NewClient(cfg)
}

// App holds the per-invocation session state: the secrets environment, the
// defaults store opened under it, and a lazily-built API client. It is
// constructed once by the command dispatcher and passed by reference into
// each command handler.
type App struct {
	Options   GlobalOptions
	Secrets   *secrets.Environment
	Defaults  *defaults.Store
	Presenter presenter.Presenter

	client api.Service
}

// newApp reads the secrets environment and opens the defaults store under
// its directory.
func newApp(ctx context.Context) (*App, error) {
	opts, err := globalOptions()
	if err != nil {
		return nil, err
	}

	env, err := secrets.NewEnvironment(opts.Environment, "")
	if err != nil {
		return nil, err
	}
	if err := env.Read(); err != nil {
		return nil, err
	}

	store, err := defaults.Open(ctx, env.Dir())
	if err != nil {
		return nil, err
	}

	logger.G(ctx).WithField("environment", env.Name).Debug("using environment")

	p := presenter.New()
	p.SetQuiet(viper.GetBool("quiet"))

	return &App{
		Options:   opts,
		Secrets:   env,
		Defaults:  store,
		Presenter: p,
	}, nil
}

// Close persists the defaults store if it changed during the session.
func (a *App) Close(ctx context.Context) {
	if err := a.Defaults.Close(ctx); err != nil {
		logger.G(ctx).WithError(err).Warn("failed to save defaults")
	}
}

// ResolveKey finds the API key: the process environment wins, then the
// secrets store. When interactive is set and neither has a key, the
// one-time bootstrap flow runs.
func (a *App) ResolveKey(ctx context.Context, interactive bool) (string, error) {
	if key := viper.GetString("openai_api_key"); key != "" {
		return key, nil
	}

	key, err := a.Secrets.Get(apikey.SecretName)
	if err == nil {
		return key, nil
	}
	if !errors.Is(err, secrets.ErrSecretNotFound) {
		return "", err
	}
	if !interactive {
		return "", nil
	}

	return apikey.Bootstrap(ctx, apikey.Options{
		Environment: a.Secrets,
		Presenter:   a.Presenter,
		Browser:     a.Options.Browser,
		ForceOpen:   a.Options.ForceBrowser,
	})
}

// Organization returns the organization identifier from the process
// environment or the secrets store, or empty.
func (a *App) Organization() string {
	if org := viper.GetString("openai_organization_id"); org != "" {
		return org
	}
	if org, err := a.Secrets.Get(apikey.OrgSecretName); err == nil {
		return org
	}
	return ""
}

// Client returns the API client, resolving the key (interactively if
// necessary) on first use.
func (a *App) Client(ctx context.Context) (api.Service, error) {
	if a.client != nil {
		return a.client, nil
	}

	key, err := a.ResolveKey(ctx, true)
	if err != nil {
		return nil, err
	}

	a.client = newAPIClient(api.Config{
		APIKey:       key,
		Organization: a.Organization(),
		APIBase:      a.Options.APIBase,
	})
	return a.client, nil
}
