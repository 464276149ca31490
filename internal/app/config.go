// Package app provides configuration management and the host application
// for the Super NES emulator.
package app

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gosnes/internal/bus"
	"gosnes/internal/cartridge"
)

// Config holds all application configuration
type Config struct {
	Window    WindowConfig    `json:"window"`
	Video     VideoConfig     `json:"video"`
	Emulation EmulationConfig `json:"emulation"`
	Debug     DebugConfig     `json:"debug"`
	Paths     PathsConfig     `json:"paths"`

	// Internal state
	configPath string
	loaded     bool
}

// WindowConfig contains window-related configuration
type WindowConfig struct {
	Width      int  `json:"width"`
	Height     int  `json:"height"`
	Fullscreen bool `json:"fullscreen"`
}

// VideoConfig contains display configuration
type VideoConfig struct {
	Backend string `json:"backend"` // "ebitengine", "terminal", "headless"
	VSync   bool   `json:"vsync"`
	Scale   int    `json:"scale"` // memory page cell size in pixels
	// Headless windows print every n-th frame; 0 disables
	DumpInterval int `json:"dump_interval"`
}

// EmulationConfig contains emulation-specific settings
type EmulationConfig struct {
	Mapper         string `json:"mapper"` // "lorom", "hirom", "exhirom"
	CyclesPerFrame uint64 `json:"cycles_per_frame"`
	FrameLimit     int    `json:"frame_limit"` // 0 runs until stopped
	SRAMSize       int    `json:"sram_size"`
	SaveSRAM       bool   `json:"save_sram"`
	StartPaused    bool   `json:"start_paused"`
}

// DebugConfig contains debugging and development options
type DebugConfig struct {
	EnableLogging bool     `json:"enable_logging"`
	LogLevel      string   `json:"log_level"` // "DEBUG", "INFO", "WARN", "ERROR"
	CPUTracing    bool     `json:"cpu_tracing"`
	LoopDetection bool     `json:"loop_detection"`
	Script        string   `json:"script"`
	Watchpoints   []string `json:"watchpoints"` // 24-bit hex addresses
	Page          string   `json:"page"`        // first memory page shown
	ListingLines  int      `json:"listing_lines"`
}

// PathsConfig contains file and directory paths
type PathsConfig struct {
	ROMs       string `json:"roms"`
	SaveData   string `json:"save_data"`
	SaveStates string `json:"save_states"`
	Logs       string `json:"logs"`
}

// NewConfig creates a new configuration with default values
func NewConfig() *Config {
	return &Config{
		Window: WindowConfig{
			Width:  800,
			Height: 600,
		},
		Video: VideoConfig{
			Backend: "ebitengine",
			VSync:   true,
			Scale:   8,
		},
		Emulation: EmulationConfig{
			Mapper:         "lorom",
			CyclesPerFrame: bus.DefaultCyclesPerFrame,
			SRAMSize:       0x2000,
			SaveSRAM:       true,
		},
		Debug: DebugConfig{
			LogLevel:      "INFO",
			LoopDetection: true,
			Page:          "7E0000",
			ListingLines:  12,
		},
		Paths: PathsConfig{
			ROMs:       "./roms",
			SaveData:   "./saves",
			SaveStates: "./states",
			Logs:       "./logs",
		},
	}
}

// LoadFromFile loads configuration from a JSON file. A missing file is
// created with the current values.
func (c *Config) LoadFromFile(path string) error {
	c.configPath = path

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return c.SaveToFile(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := c.validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if err := c.createDirectories(); err != nil {
		return fmt.Errorf("failed to create directories: %w", err)
	}

	c.loaded = true
	return nil
}

// SaveToFile saves configuration to a JSON file
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	c.configPath = path
	return nil
}

// Save saves the configuration to the current config file
func (c *Config) Save() error {
	if c.configPath == "" {
		return fmt.Errorf("no config file path set")
	}
	return c.SaveToFile(c.configPath)
}

// validate rejects values nothing can run with and repairs the rest
func (c *Config) validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return &ConfigError{Field: "window", Value: fmt.Sprintf("%dx%d", c.Window.Width, c.Window.Height),
			Err: fmt.Errorf("dimensions must be positive")}
	}

	switch c.Video.Backend {
	case "ebitengine", "terminal", "headless":
	default:
		return &ConfigError{Field: "video.backend", Value: c.Video.Backend, Err: fmt.Errorf("unknown backend")}
	}
	if c.Video.Scale <= 0 {
		c.Video.Scale = 8
	}
	if c.Video.DumpInterval < 0 {
		c.Video.DumpInterval = 0
	}

	if _, err := cartridge.ParseKind(c.Emulation.Mapper); err != nil {
		return &ConfigError{Field: "emulation.mapper", Value: c.Emulation.Mapper, Err: err}
	}
	if c.Emulation.CyclesPerFrame == 0 {
		c.Emulation.CyclesPerFrame = bus.DefaultCyclesPerFrame
	}
	if c.Emulation.FrameLimit < 0 {
		c.Emulation.FrameLimit = 0
	}
	if c.Emulation.SRAMSize < 0 || c.Emulation.SRAMSize > 0x20000 {
		return &ConfigError{Field: "emulation.sram_size", Value: c.Emulation.SRAMSize, Err: fmt.Errorf("must be 0-131072")}
	}

	switch strings.ToUpper(c.Debug.LogLevel) {
	case "DEBUG", "INFO", "WARN", "ERROR":
		c.Debug.LogLevel = strings.ToUpper(c.Debug.LogLevel)
	default:
		c.Debug.LogLevel = "INFO"
	}
	if _, err := c.WatchpointAddresses(); err != nil {
		return err
	}
	if _, err := parseAddress(c.Debug.Page); err != nil {
		return &ConfigError{Field: "debug.page", Value: c.Debug.Page, Err: err}
	}
	if c.Debug.ListingLines <= 0 {
		c.Debug.ListingLines = 12
	}

	return nil
}

// createDirectories creates required directories
func (c *Config) createDirectories() error {
	dirs := []string{
		c.Paths.ROMs,
		c.Paths.SaveData,
		c.Paths.SaveStates,
		c.Paths.Logs,
	}

	for _, dir := range dirs {
		if dir != "" {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", dir, err)
			}
		}
	}

	return nil
}

// parseAddress parses a 24-bit hex address written as 7E0010, $7E0010 or
// 0x7E0010.
func parseAddress(s string) (uint32, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	v, err := strconv.ParseUint(s, 16, 24)
	if err != nil {
		return 0, fmt.Errorf("bad address %q: %w", s, err)
	}
	return uint32(v), nil
}

// WatchpointAddresses parses the configured watchpoints
func (c *Config) WatchpointAddresses() ([]uint32, error) {
	addresses := make([]uint32, 0, len(c.Debug.Watchpoints))
	for _, w := range c.Debug.Watchpoints {
		address, err := parseAddress(w)
		if err != nil {
			return nil, &ConfigError{Field: "debug.watchpoints", Value: w, Err: err}
		}
		addresses = append(addresses, address)
	}
	return addresses, nil
}

// MapperKind returns the configured cartridge mapping
func (c *Config) MapperKind() (cartridge.Kind, error) {
	return cartridge.ParseKind(c.Emulation.Mapper)
}

// IsLoaded returns whether the configuration was loaded from file
func (c *Config) IsLoaded() bool {
	return c.loaded
}

// GetConfigPath returns the path to the config file
func (c *Config) GetConfigPath() string {
	return c.configPath
}

// Clone creates a deep copy of the configuration
func (c *Config) Clone() *Config {
	data, err := json.Marshal(c)
	if err != nil {
		return NewConfig()
	}

	clone := &Config{}
	if err := json.Unmarshal(data, clone); err != nil {
		return NewConfig()
	}

	clone.configPath = c.configPath
	clone.loaded = c.loaded

	return clone
}

// GetDefaultConfigPath returns the default configuration file path
func GetDefaultConfigPath() string {
	return "./config/gosnes.json"
}

// ConfigError represents configuration-related errors
type ConfigError struct {
	Field string
	Value interface{}
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error in field '%s' with value '%v': %v", e.Field, e.Value, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}
