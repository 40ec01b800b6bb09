package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net/textproto"
	"strings"
	"time"

	"github.com/spf13/cast"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	asynchttp "github.com/frankli0324/async-http-client"
	"github.com/frankli0324/async-http-client/internal/stubserver"
)

const (
	configFileName = "ahc"
	envPrefix      = "AHC"

	cfgKeyAddr     = "addr"
	cfgKeyClose    = "close"
	cfgKeyTimeout  = "timeout"
	cfgKeyHeader   = "header"
	cfgKeyLogLevel = "log_level"

	defaultTimeout = 30 * time.Second
)

var errBadHeader = errors.New(`header must look like "Name: value"`)

type config struct {
	Addr     string
	Close    bool
	Timeout  time.Duration
	Header   asynchttp.Header
	LogLevel slog.Level
}

// loadConfig merges, from lowest priority: defaults, the config file,
// AHC_* environment variables and flags. A missing config file is not an
// error unless it was named explicitly.
func loadConfig(configFile string, flags *pflag.FlagSet) (*config, error) {
	v := viper.New()
	v.SetDefault(cfgKeyAddr, stubserver.DefaultAddr)
	v.SetDefault(cfgKeyTimeout, defaultTimeout)
	v.SetDefault(cfgKeyLogLevel, "info")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	for key, flag := range map[string]string{
		cfgKeyAddr: "addr", cfgKeyClose: "close", cfgKeyTimeout: "timeout",
		cfgKeyHeader: "header", cfgKeyLogLevel: "log-level",
	} {
		if f := flags.Lookup(flag); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("bind flag %s: %w", flag, err)
			}
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(configFileName)
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &config{
		Addr:    v.GetString(cfgKeyAddr),
		Close:   v.GetBool(cfgKeyClose),
		Timeout: v.GetDuration(cfgKeyTimeout),
		Header:  asynchttp.Header{},
	}
	if err := cfg.LogLevel.UnmarshalText([]byte(v.GetString(cfgKeyLogLevel))); err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	for _, h := range headerList(v.Get(cfgKeyHeader)) {
		name, value, ok := strings.Cut(h, ":")
		name = textproto.TrimString(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("%w: %q", errBadHeader, h)
		}
		cfg.Header[name] = append(cfg.Header[name], textproto.TrimString(value))
	}
	return cfg, nil
}

// headerList accepts a list from a config file or flags, or a string of
// comma separated headers from the environment.
func headerList(raw interface{}) []string {
	switch h := raw.(type) {
	case nil:
		return nil
	case string:
		if strings.TrimSpace(h) == "" {
			return nil
		}
		return strings.Split(h, ",")
	default:
		return cast.ToStringSlice(h)
	}
}
