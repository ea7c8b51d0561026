package base

import (
	"github.com/hashicorp/go-hclog"

	"github.com/hashicorp-forge/hermes-client/pkg/client"
	"github.com/hashicorp-forge/hermes-client/pkg/config"
)

// ClientFlags are the connection flags shared by commands that talk to a
// Hermes server.
type ClientFlags struct {
	BaseURL    string
	Token      string
	ConfigFile string
	Debug      bool
}

// AddFlags registers the connection flags on f.
func (cf *ClientFlags) AddFlags(f *FlagSet) {
	f.StringVar(&cf.BaseURL, "base-url", "",
		"Hermes server URL. Overrides HERMES_BASE_URL and the config file.")
	f.StringVar(&cf.Token, "token", "",
		"OAuth bearer token. Overrides HERMES_AUTH_TOKEN and the config file.")
	f.StringVar(&cf.ConfigFile, "config", "",
		"Path to a .yaml, .json, .toml or .hcl client config file.\n"+
			"Defaults to ~/.hermes/config.yaml when it exists.")
	f.BoolVar(&cf.Debug, "debug", false, "Enable debug logging.")
}

// Config resolves the client configuration from defaults, the environment,
// the config file and the flags, in that order.
func (cf *ClientFlags) Config() (config.Config, error) {
	var opts []config.Option
	if cf.BaseURL != "" {
		opts = append(opts, config.WithBaseURL(cf.BaseURL))
	}
	if cf.Token != "" {
		opts = append(opts, config.WithAuthToken(cf.Token))
	}
	if cf.Debug {
		opts = append(opts, config.WithLogLevel("DEBUG"))
	}
	if cf.ConfigFile != "" {
		return config.LoadFile(cf.ConfigFile, opts...)
	}
	return config.Default(opts...)
}

// Client builds a Client from the resolved configuration and sets log's
// level from it.
func (cf *ClientFlags) Client(log hclog.Logger) (*client.Client, error) {
	cfg, err := cf.Config()
	if err != nil {
		return nil, err
	}
	log.SetLevel(cfg.HCLogLevel())
	return client.New(cfg, client.WithLogger(log.Named("client"))), nil
}
