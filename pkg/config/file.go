package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/iancoleman/strcase"
	"github.com/mitchellh/mapstructure"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/hashicorp-forge/hermes-client/pkg/errdefs"
)

// fileConfig is the on-disk shape of a config file. Pointer fields
// distinguish "absent" from zero values so a file only overrides what it sets.
type fileConfig struct {
	BaseURL         *string        `mapstructure:"base_url"`
	AuthToken       *string        `mapstructure:"auth_token"`
	Timeout         *time.Duration `mapstructure:"timeout"`
	MaxRetries      *int           `mapstructure:"max_retries"`
	VerifySSL       *bool          `mapstructure:"verify_ssl"`
	APIVersion      *string        `mapstructure:"api_version"`
	LogLevel        *string        `mapstructure:"log_level"`
	CredentialsPath *string        `mapstructure:"credentials_path"`
	RateLimit       *float64       `mapstructure:"rate_limit"`
	Trace           *bool          `mapstructure:"trace"`
}

// hclFile mirrors fileConfig for HCL, which decodes into tagged structs
// rather than maps.
type hclFile struct {
	BaseURL         *string  `hcl:"base_url,optional"`
	AuthToken       *string  `hcl:"auth_token,optional"`
	Timeout         *string  `hcl:"timeout,optional"`
	MaxRetries      *int     `hcl:"max_retries,optional"`
	VerifySSL       *bool    `hcl:"verify_ssl,optional"`
	APIVersion      *string  `hcl:"api_version,optional"`
	LogLevel        *string  `hcl:"log_level,optional"`
	CredentialsPath *string  `hcl:"credentials_path,optional"`
	RateLimit       *float64 `hcl:"rate_limit,optional"`
	Trace           *bool    `hcl:"trace,optional"`
}

func (c *Config) applyFile(path string) error {
	raw, err := readFile(path)
	if err != nil {
		return err
	}

	normalized := make(map[string]interface{}, len(raw))
	for k, v := range raw {
		normalized[strcase.ToSnake(k)] = v
	}

	var fc fileConfig
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       durationHook,
		WeaklyTypedInput: true,
		Result:           &fc,
	})
	if err != nil {
		return fmt.Errorf("error creating config decoder: %w", err)
	}
	if err := dec.Decode(normalized); err != nil {
		return &errdefs.ValidationError{
			Field: filepath.Base(path),
			Msg:   "error decoding config file",
			Err:   err,
		}
	}

	fc.apply(c)
	return nil
}

func readFile(path string) (map[string]interface{}, error) {
	ext := strings.ToLower(filepath.Ext(path))

	if ext == ".hcl" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		var hf hclFile
		if err := hclsimple.DecodeFile(path, nil, &hf); err != nil {
			return nil, &errdefs.ValidationError{Field: filepath.Base(path), Msg: "error decoding HCL config", Err: err}
		}
		return hf.toMap(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	raw := map[string]interface{}{}
	switch ext {
	case ".json":
		err = json.Unmarshal(data, &raw)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &raw)
	case ".toml":
		err = toml.Unmarshal(data, &raw)
	default:
		return nil, errdefs.NewValidationError("path", path, "unsupported config file format: %q", ext)
	}
	if err != nil {
		return nil, &errdefs.ValidationError{Field: filepath.Base(path), Msg: "error parsing config file", Err: err}
	}
	return raw, nil
}

func (hf hclFile) toMap() map[string]interface{} {
	m := map[string]interface{}{}
	set := func(key string, v interface{}) {
		if !reflect.ValueOf(v).IsNil() {
			m[key] = reflect.ValueOf(v).Elem().Interface()
		}
	}
	set("base_url", hf.BaseURL)
	set("auth_token", hf.AuthToken)
	set("timeout", hf.Timeout)
	set("max_retries", hf.MaxRetries)
	set("verify_ssl", hf.VerifySSL)
	set("api_version", hf.APIVersion)
	set("log_level", hf.LogLevel)
	set("credentials_path", hf.CredentialsPath)
	set("rate_limit", hf.RateLimit)
	set("trace", hf.Trace)
	return m
}

func (fc fileConfig) apply(c *Config) {
	if fc.BaseURL != nil {
		c.BaseURL = *fc.BaseURL
	}
	if fc.AuthToken != nil {
		c.AuthToken = *fc.AuthToken
	}
	if fc.Timeout != nil {
		c.Timeout = *fc.Timeout
	}
	if fc.MaxRetries != nil {
		c.MaxRetries = *fc.MaxRetries
	}
	if fc.VerifySSL != nil {
		c.VerifySSL = *fc.VerifySSL
	}
	if fc.APIVersion != nil {
		c.APIVersion = *fc.APIVersion
	}
	if fc.LogLevel != nil {
		c.LogLevel = *fc.LogLevel
	}
	if fc.CredentialsPath != nil {
		c.CredentialsPath = *fc.CredentialsPath
	}
	if fc.RateLimit != nil {
		c.RateLimit = *fc.RateLimit
	}
	if fc.Trace != nil {
		c.Trace = *fc.Trace
	}
}

// durationHook decodes numbers as seconds and strings as either seconds or
// Go duration syntax.
func durationHook(_ reflect.Type, t reflect.Type, data interface{}) (interface{}, error) {
	if t != reflect.TypeOf(time.Duration(0)) {
		return data, nil
	}
	switch v := data.(type) {
	case string:
		return ParseSeconds(v)
	case int:
		return time.Duration(v) * time.Second, nil
	case int64:
		return time.Duration(v) * time.Second, nil
	case uint64:
		return time.Duration(v) * time.Second, nil
	case float64:
		return time.Duration(v * float64(time.Second)), nil
	}
	return data, nil
}
