// Package harness drives end-to-end checks against a running Hermes
// deployment. Subpackages generate documents, seed workspaces on disk,
// validate indexing through the API and run canned scenarios.
package harness

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp-forge/hermes-client/pkg/config"
)

const (
	DefaultBaseURL       = "http://localhost:8001"
	DefaultDocumentCount = 10
	DefaultPollInterval  = 5 * time.Second
	DefaultMaxWait       = 120 * time.Second
	DefaultAPITimeout    = 30 * time.Second
	DefaultAPIMaxRetries = 3
	DefaultTestingDir    = "./testing"
)

const (
	envBaseURL       = "HERMES_BASE_URL"
	envAuthToken     = "HERMES_AUTH_TOKEN"
	envWorkspacesDir = "HERMES_TEST_WORKSPACES_DIR"
	envFixturesDir   = "HERMES_TEST_FIXTURES_DIR"
)

// DefaultTestAuthors rotate through multi-author scenarios.
var DefaultTestAuthors = []string{
	"alice@example.com",
	"bob@example.com",
	"charlie@example.com",
	"diana@example.com",
}

// TestingConfig holds the settings shared by the seeder, validator and
// scenario runner.
type TestingConfig struct {
	BaseURL   string
	AuthToken string

	WorkspacesDir string
	FixturesDir   string

	DefaultDocumentCount int

	// PollInterval and MaxWait bound WaitForIndexing.
	PollInterval time.Duration
	MaxWait      time.Duration

	APITimeout    time.Duration
	APIMaxRetries int

	TestAuthors []string
}

// NewTestingConfig returns the defaults overridden by HERMES_BASE_URL,
// HERMES_AUTH_TOKEN, HERMES_TEST_WORKSPACES_DIR and HERMES_TEST_FIXTURES_DIR.
func NewTestingConfig() TestingConfig {
	return testingConfigFromEnv(os.LookupEnv)
}

func testingConfigFromEnv(lookup config.LookupEnvFunc) TestingConfig {
	get := func(key, def string) string {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return def
	}

	return TestingConfig{
		BaseURL:              get(envBaseURL, DefaultBaseURL),
		AuthToken:            get(envAuthToken, ""),
		WorkspacesDir:        get(envWorkspacesDir, filepath.Join(DefaultTestingDir, "workspaces")),
		FixturesDir:          get(envFixturesDir, filepath.Join(DefaultTestingDir, "fixtures")),
		DefaultDocumentCount: DefaultDocumentCount,
		PollInterval:         DefaultPollInterval,
		MaxWait:              DefaultMaxWait,
		APITimeout:           DefaultAPITimeout,
		APIMaxRetries:        DefaultAPIMaxRetries,
		TestAuthors:          append([]string(nil), DefaultTestAuthors...),
	}
}

// ClientConfig converts c into a validated client configuration. opts are
// applied last.
func (c TestingConfig) ClientConfig(opts ...config.Option) (config.Config, error) {
	base := []config.Option{
		config.WithBaseURL(c.BaseURL),
		config.WithAuthToken(c.AuthToken),
		config.WithTimeout(c.APITimeout),
		config.WithMaxRetries(c.APIMaxRetries),
	}
	return config.New(append(base, opts...)...)
}
