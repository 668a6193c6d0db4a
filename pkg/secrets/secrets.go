// Package secrets provides access to named, directory-scoped secrets
// environments. Each environment is a directory under the secrets base
// directory holding a YAML map of secret names to values, so secrets and
// per-environment settings stay out of source code and shell history.
package secrets

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	// SecretsFileName is the fixed name of the secrets file within an environment directory.
	SecretsFileName = "secrets.yml"

	// EnvironmentVar overrides the default environment name.
	EnvironmentVar = "D2_ENVIRONMENT"

	// BaseDirVar overrides the secrets base directory.
	BaseDirVar = "D2_SECRETS_BASEDIR"
)

// ErrSecretNotFound is returned by Get when no secret with the given name exists.
var ErrSecretNotFound = errors.New("secret not found")

// DefaultEnvironment returns the environment name selected by D2_ENVIRONMENT,
// falling back to "default".
func DefaultEnvironment() string {
	if env := os.Getenv(EnvironmentVar); env != "" {
		return env
	}
	return "default"
}

// DefaultBaseDir returns the secrets base directory selected by
// D2_SECRETS_BASEDIR, falling back to ~/.secrets.
func DefaultBaseDir() (string, error) {
	if base := os.Getenv(BaseDirVar); base != "" {
		return base, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to get home directory")
	}
	return filepath.Join(home, ".secrets"), nil
}

// Environment is a named collection of secrets rooted at a directory.
type Environment struct {
	Name    string
	BaseDir string

	values map[string]string
}

// NewEnvironment opens the named environment under baseDir. An empty name
// selects the default environment; an empty baseDir selects the default
// base directory.
func NewEnvironment(name, baseDir string) (*Environment, error) {
	if name == "" {
		name = DefaultEnvironment()
	}
	if baseDir == "" {
		var err error
		baseDir, err = DefaultBaseDir()
		if err != nil {
			return nil, err
		}
	}
	return &Environment{
		Name:    name,
		BaseDir: baseDir,
		values:  map[string]string{},
	}, nil
}

// Dir returns the environment's directory.
func (e *Environment) Dir() string {
	return filepath.Join(e.BaseDir, e.Name)
}

// Path returns the location of the environment's secrets file.
func (e *Environment) Path() string {
	return filepath.Join(e.Dir(), SecretsFileName)
}

// Read loads all secrets from disk. A missing secrets file yields an empty
// environment, not an error.
func (e *Environment) Read() error {
	data, err := os.ReadFile(e.Path())
	if err != nil {
		if os.IsNotExist(err) {
			e.values = map[string]string{}
			return nil
		}
		return errors.Wrap(err, "failed to read secrets file")
	}

	values := map[string]string{}
	if err := yaml.Unmarshal(data, &values); err != nil {
		return errors.Wrap(err, "failed to parse secrets file")
	}
	e.values = values
	return nil
}

// Get returns the named secret, or ErrSecretNotFound. An empty value is
// treated the same as a missing one.
func (e *Environment) Get(name string) (string, error) {
	value, ok := e.values[name]
	if !ok || value == "" {
		return "", errors.Wrap(ErrSecretNotFound, name)
	}
	return value, nil
}

// Set stores the named secret in memory; Write persists it.
func (e *Environment) Set(name, value string) {
	e.values[name] = value
}

// Names returns the sorted names of all known secrets.
func (e *Environment) Names() []string {
	names := make([]string, 0, len(e.values))
	for name := range e.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Write persists all secrets to the environment directory, creating it if
// necessary. The secrets file is only readable by the owner.
func (e *Environment) Write() error {
	if err := os.MkdirAll(e.Dir(), 0o700); err != nil {
		return errors.Wrap(err, "failed to create environment directory")
	}

	data, err := yaml.Marshal(e.values)
	if err != nil {
		return errors.Wrap(err, "failed to marshal secrets")
	}

	if err := os.WriteFile(e.Path(), data, 0o600); err != nil {
		return errors.Wrap(err, "failed to write secrets file")
	}
	return nil
}
