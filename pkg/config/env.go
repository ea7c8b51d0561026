package config

import (
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp-forge/hermes-client/pkg/errdefs"
)

// EnvPrefix is prepended to every environment variable the client reads.
const EnvPrefix = "HERMES_"

// LookupEnvFunc matches the signature of os.LookupEnv.
type LookupEnvFunc func(key string) (string, bool)

// applyEnv overrides fields from HERMES_* environment variables.
func (c *Config) applyEnv(lookup LookupEnvFunc) error {
	get := func(name string) (string, bool) {
		v, ok := lookup(EnvPrefix + name)
		if !ok || strings.TrimSpace(v) == "" {
			return "", false
		}
		return strings.TrimSpace(v), true
	}

	if v, ok := get("BASE_URL"); ok {
		c.BaseURL = v
	}
	if v, ok := get("AUTH_TOKEN"); ok {
		c.AuthToken = v
	}
	if v, ok := get("API_VERSION"); ok {
		c.APIVersion = v
	}
	if v, ok := get("LOG_LEVEL"); ok {
		c.LogLevel = v
	}
	if v, ok := get("CREDENTIALS_PATH"); ok {
		c.CredentialsPath = v
	}
	if v, ok := get("TIMEOUT"); ok {
		d, err := ParseSeconds(v)
		if err != nil {
			return errdefs.NewValidationError("timeout", v, "invalid %sTIMEOUT: %v", EnvPrefix, err)
		}
		c.Timeout = d
	}
	if v, ok := get("MAX_RETRIES"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errdefs.NewValidationError("maxRetries", v, "invalid %sMAX_RETRIES: %v", EnvPrefix, err)
		}
		c.MaxRetries = n
	}
	if v, ok := get("VERIFY_SSL"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return errdefs.NewValidationError("verifySsl", v, "invalid %sVERIFY_SSL: %v", EnvPrefix, err)
		}
		c.VerifySSL = b
	}
	if v, ok := get("RATE_LIMIT"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return errdefs.NewValidationError("rateLimit", v, "invalid %sRATE_LIMIT: %v", EnvPrefix, err)
		}
		c.RateLimit = f
	}
	if v, ok := get("TRACE"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return errdefs.NewValidationError("trace", v, "invalid %sTRACE: %v", EnvPrefix, err)
		}
		c.Trace = b
	}

	return nil
}

// ParseSeconds parses a duration given either as a plain number of seconds
// ("30", "1.5") or as a Go duration string ("30s", "2m").
func ParseSeconds(s string) (time.Duration, error) {
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return time.Duration(f * float64(time.Second)), nil
	}
	return time.ParseDuration(s)
}
