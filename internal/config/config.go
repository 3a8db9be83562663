package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"

	"filecopier/internal/domain"
)

// Flag names shared with the command line.
const (
	FlagInclude  = "include"
	FlagExclude  = "exclude"
	FlagSkip     = "skip"
	FlagMove     = "move"
	FlagKeep     = "keep"
	FlagNoLog    = "no-log"
	FlagDryRun   = "dry-run"
	FlagYes      = "yes"
	FlagTUI      = "tui"
	FlagVerbose  = "verbose"
	FlagList     = "list"
	FlagTabbed   = "tabbed"
	FlagConfig   = "config"
	envPrefix    = "FILECOPIER_"
	envSourceDir = envPrefix + "SOURCE_DIR"
	envTargetDir = envPrefix + "TARGET_DIR"
	envVerbose   = envPrefix + "VERBOSE"
	envNoLog     = envPrefix + "NO_LOG"
)

var dotEnvFiles = []string{".env"}

type Config struct {
	SourceDir     string   `yaml:"source"`
	TargetDir     string   `yaml:"destination"`
	Extensions    []string `yaml:"extensions"`
	Include       []string `yaml:"include"`
	Exclude       []string `yaml:"exclude"`
	Skip          []string `yaml:"skip"`
	Move          bool     `yaml:"move"`
	KeepStructure bool     `yaml:"keep_structure"`
	NoLog         bool     `yaml:"no_log"`
	Verbose       bool     `yaml:"verbose"`
	DryRun        bool     `yaml:"-"`
	Yes           bool     `yaml:"-"`
	TUI           bool     `yaml:"-"`
	ListDir       string   `yaml:"-"`
	Tabbed        bool     `yaml:"-"`
}

// Load resolves the configuration. Later sources win: the YAML job file at
// path (optional), then .env and the process environment, then flags. A
// flag only applies when changed reports it was set on the command line;
// positional values in flags apply whenever they are non-empty.
func Load(path string, flags Config, changed func(name string) bool) (Config, error) {
	var cfg Config
	if path != "" {
		fileCfg, err := LoadFile(path)
		if err != nil {
			return Config{}, err
		}
		cfg = fileCfg
	}

	loadDotEnv()
	if v := envOrEmpty(envSourceDir); v != "" {
		cfg.SourceDir = v
	}
	if v := envOrEmpty(envTargetDir); v != "" {
		cfg.TargetDir = v
	}
	if envTruthy(envVerbose) {
		cfg.Verbose = true
	}
	if envTruthy(envNoLog) {
		cfg.NoLog = true
	}

	if changed == nil {
		changed = func(string) bool { return false }
	}
	if flags.SourceDir != "" {
		cfg.SourceDir = flags.SourceDir
	}
	if flags.TargetDir != "" {
		cfg.TargetDir = flags.TargetDir
	}
	if len(flags.Extensions) > 0 {
		cfg.Extensions = flags.Extensions
	}
	if changed(FlagInclude) {
		cfg.Include = flags.Include
	}
	if changed(FlagExclude) {
		cfg.Exclude = flags.Exclude
	}
	if changed(FlagSkip) {
		cfg.Skip = flags.Skip
	}
	if changed(FlagMove) {
		cfg.Move = flags.Move
	}
	if changed(FlagKeep) {
		cfg.KeepStructure = flags.KeepStructure
	}
	if changed(FlagNoLog) {
		cfg.NoLog = flags.NoLog
	}
	if changed(FlagVerbose) {
		cfg.Verbose = flags.Verbose
	}
	cfg.DryRun = flags.DryRun
	cfg.Yes = flags.Yes
	cfg.TUI = flags.TUI
	cfg.ListDir = flags.ListDir
	cfg.Tabbed = flags.Tabbed

	return cfg, nil
}

// LoadFile reads a YAML job file.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Errorf("reading config file: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Errorf("parsing config file %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.ListDir != "" {
		return nil
	}
	if c.SourceDir == "" || c.TargetDir == "" {
		return errors.New("source and destination are required")
	}
	return nil
}

// Request builds the transfer request described by the configuration.
func (c Config) Request() domain.TransferRequest {
	mode := domain.ModeCopy
	if c.Move {
		mode = domain.ModeMove
	}
	return domain.TransferRequest{
		SourceRoot:    c.SourceDir,
		DestRoot:      c.TargetDir,
		Rule:          domain.NewFilterRule(c.Extensions, c.Include, c.Exclude),
		Mode:          mode,
		KeepStructure: c.KeepStructure,
		LogEnabled:    !c.NoLog,
		Skip:          c.Skip,
	}
}

func loadDotEnv() {
	for _, file := range dotEnvFiles {
		if _, err := os.Stat(file); err != nil {
			continue
		}
		_ = godotenv.Load(file)
	}
}

func envOrEmpty(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func envTruthy(key string) bool {
	val := strings.TrimSpace(strings.ToLower(os.Getenv(key)))
	return val == "1" || val == "true" || val == "yes" || val == "y"
}
