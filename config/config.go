package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lexandro/organize-mcp/publish"
	"github.com/lexandro/organize-mcp/scan"
)

// Environment variables read by FromEnv.
const (
	EnvGitHubUser       = "ORGANIZE_GITHUB_USER"
	EnvOutput           = "ORGANIZE_OUTPUT"
	EnvPrivate          = "ORGANIZE_PRIVATE"
	EnvRemote           = "ORGANIZE_REMOTE"
	EnvForcePush        = "ORGANIZE_FORCE_PUSH"
	EnvLogLevel         = "ORGANIZE_LOG_LEVEL"
	EnvLogFile          = "ORGANIZE_LOG_FILE"
	EnvMaxDepth         = "ORGANIZE_MAX_DEPTH"
	EnvDescriptionLimit = "ORGANIZE_DESCRIPTION_LIMIT"
	EnvExclude          = "ORGANIZE_EXCLUDE"
	EnvSyncInterval     = "ORGANIZE_SYNC_INTERVAL"
)

const DefaultOutputDir = "organized_projects"

var logLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// Config is the full runtime configuration. It is built once in main and passed
// down explicitly; no package reads the environment on its own.
type Config struct {
	GitHubUser       string
	OutputDir        string
	Private          bool
	Remote           bool // create GitHub repositories when gh is ready
	ForcePush        bool
	LogLevel         string
	LogFile          string
	MaxDepth         int
	DescriptionLimit int
	RespectGitignore bool
	Excludes         []string
	Debounce         time.Duration
	SyncInterval     time.Duration // serve mode consistency check, 0 disables
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		OutputDir:        DefaultOutputDir,
		Remote:           true,
		LogLevel:         "info",
		MaxDepth:         scan.DefaultMaxDepth,
		DescriptionLimit: publish.DefaultDescriptionLimit,
		RespectGitignore: true,
		Debounce:         500 * time.Millisecond,
		SyncInterval:     5 * time.Minute,
	}
}

// FromEnv overlays values from env onto c. Unset or blank variables leave the
// field untouched; malformed values are reported together.
func (c Config) FromEnv(env map[string]string) (Config, error) {
	var errs []error
	get := func(key string) (string, bool) {
		v := strings.TrimSpace(env[key])
		return v, v != ""
	}
	parseBool := func(key string, dst *bool) {
		if v, ok := get(key); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = b
		}
	}
	parseInt := func(key string, dst *int) {
		if v, ok := get(key); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = n
		}
	}

	if v, ok := get(EnvGitHubUser); ok {
		c.GitHubUser = v
	}
	if v, ok := get(EnvOutput); ok {
		c.OutputDir = v
	}
	if v, ok := get(EnvLogLevel); ok {
		c.LogLevel = strings.ToLower(v)
	}
	if v, ok := get(EnvLogFile); ok {
		c.LogFile = v
	}
	if v, ok := get(EnvExclude); ok {
		for _, pattern := range strings.Split(v, ",") {
			if pattern = strings.TrimSpace(pattern); pattern != "" {
				c.Excludes = append(c.Excludes, pattern)
			}
		}
	}
	if v, ok := get(EnvSyncInterval); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvSyncInterval, err))
		} else {
			c.SyncInterval = d
		}
	}
	parseBool(EnvPrivate, &c.Private)
	parseBool(EnvRemote, &c.Remote)
	parseBool(EnvForcePush, &c.ForcePush)
	parseInt(EnvMaxDepth, &c.MaxDepth)
	parseInt(EnvDescriptionLimit, &c.DescriptionLimit)

	return c, errors.Join(errs...)
}

// Validate reports settings that cannot work.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.OutputDir) == "" {
		errs = append(errs, errors.New("output directory must not be empty"))
	}
	if c.MaxDepth < 1 {
		errs = append(errs, fmt.Errorf("max depth must be at least 1, got %d", c.MaxDepth))
	}
	if c.DescriptionLimit < 4 {
		errs = append(errs, fmt.Errorf("description limit must be at least 4, got %d", c.DescriptionLimit))
	}
	if !logLevels[c.LogLevel] {
		errs = append(errs, fmt.Errorf("unknown log level %q (want debug|info|warn|error)", c.LogLevel))
	}
	if c.Debounce < 0 {
		errs = append(errs, fmt.Errorf("debounce must not be negative, got %s", c.Debounce))
	}
	if c.SyncInterval < 0 {
		errs = append(errs, fmt.Errorf("sync interval must not be negative, got %s", c.SyncInterval))
	}
	return errors.Join(errs...)
}

// PublishConfig derives the publisher settings.
func (c Config) PublishConfig() publish.Config {
	return publish.Config{
		Username:         c.GitHubUser,
		Remote:           c.Remote,
		Private:          c.Private,
		ForcePush:        c.ForcePush,
		DescriptionLimit: c.DescriptionLimit,
	}
}
