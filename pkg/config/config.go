// Package config holds the Hermes client configuration.
//
// A Config is resolved in layers: built-in defaults, then HERMES_* environment
// variables, then an optional config file, then explicit options. The result
// is validated once and treated as immutable afterwards.
package config

import (
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/hashicorp/go-hclog"

	"github.com/hashicorp-forge/hermes-client/pkg/errdefs"
)

// Defaults.
const (
	DefaultBaseURL    = "http://localhost:8000"
	DefaultTimeout    = 30 * time.Second
	DefaultMaxRetries = 3
	DefaultAPIVersion = "v2"
	DefaultLogLevel   = "INFO"

	// MaxRetriesLimit is the largest accepted MaxRetries value.
	MaxRetriesLimit = 10
)

// LogLevels lists the accepted values for Config.LogLevel.
var LogLevels = []string{"DEBUG", "INFO", "WARNING", "ERROR", "CRITICAL"}

// Config contains the settings used by the client and transport.
//
// Example configuration (HCL):
//
//	base_url    = "https://hermes.example.com"
//	auth_token  = "..."
//	timeout     = "30s"
//	max_retries = 3
//	verify_ssl  = true
type Config struct {
	// BaseURL is the root of the Hermes server, without the /api prefix.
	BaseURL string `json:"baseUrl"`

	// AuthToken is sent as a bearer token when set.
	AuthToken string `json:"-"`

	// Timeout applies to each HTTP request. Zero disables the timeout.
	Timeout time.Duration `json:"timeout"`

	// MaxRetries bounds how many times a transport failure is retried.
	MaxRetries int `json:"maxRetries"`

	// VerifySSL controls TLS certificate verification.
	VerifySSL bool `json:"verifySsl"`

	APIVersion string `json:"apiVersion"`

	// LogLevel is one of LogLevels.
	LogLevel string `json:"logLevel"`

	// CredentialsPath is where CLI tooling looks for stored credentials.
	CredentialsPath string `json:"credentialsPath"`

	// RateLimit caps outbound requests per second. Zero disables it.
	RateLimit float64 `json:"rateLimit"`

	// Trace enables Datadog tracing of outbound requests.
	Trace bool `json:"trace"`
}

// Option overrides a single Config field.
type Option func(*Config)

func WithBaseURL(u string) Option { return func(c *Config) { c.BaseURL = u } }
func WithAuthToken(t string) Option { return func(c *Config) { c.AuthToken = t } }
func WithTimeout(d time.Duration) Option { return func(c *Config) { c.Timeout = d } }
func WithMaxRetries(n int) Option { return func(c *Config) { c.MaxRetries = n } }
func WithVerifySSL(v bool) Option { return func(c *Config) { c.VerifySSL = v } }
func WithAPIVersion(v string) Option { return func(c *Config) { c.APIVersion = v } }
func WithLogLevel(l string) Option { return func(c *Config) { c.LogLevel = l } }
func WithRateLimit(rps float64) Option { return func(c *Config) { c.RateLimit = rps } }
func WithTrace(enabled bool) Option { return func(c *Config) { c.Trace = enabled } }
func WithCredentialsPath(p string) Option {
	return func(c *Config) { c.CredentialsPath = p }
}

// Defaults returns a Config populated with built-in defaults only.
func Defaults() Config {
	return Config{
		BaseURL:         DefaultBaseURL,
		Timeout:         DefaultTimeout,
		MaxRetries:      DefaultMaxRetries,
		VerifySSL:       true,
		APIVersion:      DefaultAPIVersion,
		LogLevel:        DefaultLogLevel,
		CredentialsPath: defaultCredentialsPath(),
	}
}

// New builds a validated Config from defaults, the environment and opts.
func New(opts ...Option) (Config, error) {
	cfg := Defaults()
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	return cfg.finish(opts)
}

// LoadFile builds a validated Config from defaults, the environment, the file
// at path and opts. The format is chosen by extension: .json, .yaml, .yml,
// .toml or .hcl.
func LoadFile(path string, opts ...Option) (Config, error) {
	cfg := Defaults()
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.applyFile(path); err != nil {
		return Config{}, err
	}
	return cfg.finish(opts)
}

// Default loads ~/.hermes/config.yaml when it exists and falls back to New
// otherwise.
func Default(opts ...Option) (Config, error) {
	home, err := os.UserHomeDir()
	if err == nil {
		path := filepath.Join(home, ".hermes", "config.yaml")
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path, opts...)
		}
	}
	return New(opts...)
}

func (c Config) finish(opts []Option) (Config, error) {
	for _, opt := range opts {
		opt(&c)
	}
	c.normalize()
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c *Config) normalize() {
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	c.LogLevel = strings.ToUpper(strings.TrimSpace(c.LogLevel))
	c.APIVersion = strings.Trim(c.APIVersion, "/")
}

// Validate checks the configuration and returns an *errdefs.ValidationError
// naming the first offending field.
func (c Config) Validate() error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.BaseURL, validation.Required, validation.By(httpURL)),
		validation.Field(&c.Timeout, validation.Min(time.Duration(0))),
		validation.Field(&c.MaxRetries, validation.Min(0), validation.Max(MaxRetriesLimit)),
		validation.Field(&c.APIVersion, validation.Required),
		validation.Field(&c.LogLevel, validation.Required, validation.In(toAny(LogLevels)...)),
		validation.Field(&c.RateLimit, validation.Min(0.0)),
	)
	if err == nil {
		return nil
	}

	var fieldErrs validation.Errors
	if !errors.As(err, &fieldErrs) {
		return &errdefs.ValidationError{Msg: "invalid configuration", Err: err}
	}
	keys := make([]string, 0, len(fieldErrs))
	for k := range fieldErrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return &errdefs.ValidationError{
		Field: keys[0],
		Value: c.fieldValue(keys[0]),
		Msg:   fieldErrs[keys[0]].Error(),
		Err:   err,
	}
}

func (c Config) fieldValue(key string) any {
	switch key {
	case "baseUrl":
		return c.BaseURL
	case "timeout":
		return c.Timeout
	case "maxRetries":
		return c.MaxRetries
	case "apiVersion":
		return c.APIVersion
	case "logLevel":
		return c.LogLevel
	case "rateLimit":
		return c.RateLimit
	}
	return nil
}

func httpURL(value interface{}) error {
	s, _ := value.(string)
	u, err := url.Parse(s)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("must use http or https scheme, got: %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("must include a host")
	}
	return nil
}

// APIURL joins the base URL, the API version segment and path. Leading
// slashes on path are ignored, so APIURL("/x") == APIURL("x").
func (c Config) APIURL(path string) string {
	base := strings.TrimRight(c.BaseURL, "/")
	return fmt.Sprintf("%s/api/%s/%s", base, c.APIVersion, strings.TrimLeft(path, "/"))
}

// HCLogLevel maps LogLevel onto an hclog level.
func (c Config) HCLogLevel() hclog.Level {
	switch c.LogLevel {
	case "DEBUG":
		return hclog.Debug
	case "WARNING":
		return hclog.Warn
	case "ERROR", "CRITICAL":
		return hclog.Error
	default:
		return hclog.Info
	}
}

// NewHTTPClient creates a pooled HTTP client honoring Timeout and VerifySSL.
func (c Config) NewHTTPClient() *http.Client {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}

	if !c.VerifySSL {
		transport.TLSClientConfig = &tls.Config{
			InsecureSkipVerify: true,
		}
	}

	return &http.Client{
		Timeout:   c.Timeout,
		Transport: transport,
	}
}

// Redacted returns a display-safe view of the configuration.
func (c Config) Redacted() map[string]string {
	token := "Not set"
	if c.AuthToken != "" {
		token = "Set"
	}
	return map[string]string{
		"base_url":         c.BaseURL,
		"api_version":      c.APIVersion,
		"auth_token":       token,
		"timeout":          c.Timeout.String(),
		"max_retries":      fmt.Sprintf("%d", c.MaxRetries),
		"verify_ssl":       fmt.Sprintf("%t", c.VerifySSL),
		"log_level":        c.LogLevel,
		"credentials_path": c.CredentialsPath,
		"rate_limit":       fmt.Sprintf("%g", c.RateLimit),
		"trace":            fmt.Sprintf("%t", c.Trace),
	}
}

func defaultCredentialsPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".hermes", "credentials.json")
	}
	return filepath.Join(home, ".hermes", "credentials.json")
}

func toAny(ss []string) []interface{} {
	out := make([]interface{}, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
