// Package config loads and saves rv32core's TOML configuration, following
// the teacher's struct-of-structs-with-defaults pattern
// (DefaultConfig/Load/LoadFrom/Save/SaveTo, platform-specific
// GetConfigPath/GetLogPath) generalized from the ARM emulator's settings
// to this engine's execution/trace/debugger/api sections (SPEC_FULL.md §2).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config is the complete on-disk configuration for a rv32core host
// (CLI, debugger, or API server).
type Config struct {
	// Execution settings: how a Model is configured and driven.
	Execution struct {
		MaxSteps     uint64 `toml:"max_steps"`
		ResetVector  string `toml:"reset_vector"` // hex, e.g. "0x80000000"
		EnableExtC   bool   `toml:"enable_ext_c"`
		EnableExtF   bool   `toml:"enable_ext_f"`
		EnableExtM   bool   `toml:"enable_ext_m"`
		EnableExtA   bool   `toml:"enable_ext_a"`
	} `toml:"execution"`

	// Trace settings: what the per-step commit trace records and where
	// it is written when a host asks for a trace log instead of (or in
	// addition to) inspecting trace.Buffer directly.
	Trace struct {
		OutputFile    string `toml:"output_file"`
		IncludeXRegs  bool   `toml:"include_xregs"`
		IncludeFRegs  bool   `toml:"include_fregs"`
		IncludeCSRs   bool   `toml:"include_csrs"`
		MaxEntries    int    `toml:"max_entries"`
	} `toml:"trace"`

	// Debugger settings: the tview/tcell text UI's session-local behavior.
	Debugger struct {
		HistorySize    int  `toml:"history_size"`
		AutoSaveBreaks bool `toml:"auto_save_breakpoints"`
		ShowCSRs       bool `toml:"show_csrs"`
	} `toml:"debugger"`

	// API settings: the HTTP+WebSocket server's listen address and
	// per-connection broadcast buffering.
	API struct {
		Port          int `toml:"port"`
		BroadcastSize int `toml:"broadcast_buffer_size"`
	} `toml:"api"`
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Execution.MaxSteps = 1_000_000
	cfg.Execution.ResetVector = "0x80000000"
	cfg.Execution.EnableExtC = true
	cfg.Execution.EnableExtF = true
	cfg.Execution.EnableExtM = true
	cfg.Execution.EnableExtA = true

	cfg.Trace.OutputFile = "trace.log"
	cfg.Trace.IncludeXRegs = true
	cfg.Trace.IncludeFRegs = true
	cfg.Trace.IncludeCSRs = true
	cfg.Trace.MaxEntries = 100000

	cfg.Debugger.HistorySize = 1000
	cfg.Debugger.AutoSaveBreaks = true
	cfg.Debugger.ShowCSRs = true

	cfg.API.Port = 8080
	cfg.API.BroadcastSize = 256

	return cfg
}

// GetConfigPath returns the platform-specific config file path.
func GetConfigPath() string {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		configDir = filepath.Join(configDir, "rv32core")

	case "darwin", "linux":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "config.toml"
		}
		configDir = filepath.Join(homeDir, ".config", "rv32core")

	default:
		return "config.toml"
	}

	if err := os.MkdirAll(configDir, 0750); err != nil {
		return "config.toml"
	}

	return filepath.Join(configDir, "config.toml")
}

// GetLogPath returns the platform-specific log directory path.
func GetLogPath() string {
	var logDir string

	switch runtime.GOOS {
	case "windows":
		logDir = os.Getenv("APPDATA")
		if logDir == "" {
			logDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		logDir = filepath.Join(logDir, "rv32core", "logs")

	case "darwin", "linux":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "logs"
		}
		logDir = filepath.Join(homeDir, ".local", "share", "rv32core", "logs")

	default:
		return "logs"
	}

	if err := os.MkdirAll(logDir, 0750); err != nil {
		return "logs"
	}

	return logDir
}

// Load loads configuration from the default config file.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom loads configuration from the specified file, falling back to
// defaults when the file does not exist.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Save saves configuration to the default config file.
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo saves configuration to the specified file.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path) // #nosec G304 -- user config file path
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close config file: %w", closeErr)
		}
	}()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}

// ResetVectorValue parses Execution.ResetVector as a hex or decimal uint32,
// defaulting to 0 if the field is malformed.
func ResetVectorValue(c *Config) uint32 {
	var v uint32
	s := c.Execution.ResetVector
	if _, err := fmt.Sscanf(s, "0x%x", &v); err == nil {
		return v
	}
	if _, err := fmt.Sscanf(s, "%d", &v); err == nil {
		return v
	}
	return 0
}
