package e2e

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/hashicorp-forge/hermes-client/internal/cmd/base"
	"github.com/hashicorp-forge/hermes-client/internal/harness"
	"github.com/hashicorp-forge/hermes-client/internal/harness/validation"
	"github.com/hashicorp-forge/hermes-client/pkg/auth"
)

// dexTokenLifetime is assumed when a Dex token carries no exp claim.
const dexTokenLifetime = time.Hour

// Flags are shared by the harness commands. Unset flags fall back to the
// HERMES_* environment variables and then to the harness defaults.
type Flags struct {
	BaseURL      string
	Token        string
	Dir          string
	Dex          bool
	PollInterval time.Duration
	MaxWait      time.Duration
	Debug        bool

	// dexToken is swapped in tests.
	dexToken func(context.Context) (string, error)
}

// AddFlags registers the harness flags on f.
func (hf *Flags) AddFlags(f *base.FlagSet) {
	f.StringVar(&hf.BaseURL, "base-url", "", "Hermes server URL. Overrides HERMES_BASE_URL.")
	f.StringVar(&hf.Token, "token", "", "OAuth bearer token. Overrides HERMES_AUTH_TOKEN.")
	f.StringVar(&hf.Dir, "dir", "", "Workspaces directory. Overrides HERMES_TEST_WORKSPACES_DIR.")
	f.BoolVar(&hf.Dex, "dex", false,
		"Obtain and refresh a token from the local Dex test server using the\n"+
			"DEX_* environment variables.")
	f.DurationVar(&hf.PollInterval, "poll-interval", harness.DefaultPollInterval,
		"How often to poll the search index while waiting for indexing.")
	f.DurationVar(&hf.MaxWait, "max-wait", harness.DefaultMaxWait,
		"How long to wait for indexing before giving up.")
	f.BoolVar(&hf.Debug, "debug", false, "Enable debug logging.")
}

// Config returns the testing configuration with flag overrides applied.
func (hf *Flags) Config() harness.TestingConfig {
	cfg := harness.NewTestingConfig()
	if hf.BaseURL != "" {
		cfg.BaseURL = hf.BaseURL
	}
	if hf.Token != "" {
		cfg.AuthToken = hf.Token
	}
	if hf.Dir != "" {
		cfg.WorkspacesDir = hf.Dir
	}
	if hf.PollInterval > 0 {
		cfg.PollInterval = hf.PollInterval
	}
	if hf.MaxWait > 0 {
		cfg.MaxWait = hf.MaxWait
	}
	return cfg
}

// Validator builds a validator for cfg. With -dex set the initial token is
// fetched from Dex and refreshed as it nears expiry.
func (hf *Flags) Validator(ctx context.Context, cfg harness.TestingConfig, log hclog.Logger) (*validation.Validator, error) {
	if hf.Debug {
		log.SetLevel(hclog.Debug)
	}

	fetch := hf.dexToken
	if fetch == nil {
		fetch = func(ctx context.Context) (string, error) {
			return auth.DexTestToken(ctx, auth.PasswordGrant{})
		}
	}

	if hf.Dex && cfg.AuthToken == "" {
		token, err := fetch(ctx)
		if err != nil {
			return nil, fmt.Errorf("error getting Dex token: %w", err)
		}
		cfg.AuthToken = token
	}

	v, err := validation.NewFromConfig(cfg, validation.WithLogger(log.Named("validation")))
	if err != nil {
		return nil, err
	}
	if hf.Dex {
		v.SetTokenRefresh(validation.TokenRefreshFunc(fetch), dexTokenLifetime)
	}
	return v, nil
}
