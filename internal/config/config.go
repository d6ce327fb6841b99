// Package config is the YAML configuration of the panel tools.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
	"periph.io/x/conn/v3/gpio"

	"github.com/BeatGlow/panel"
)

// GPIOConfig names the GPIO lines of the panel.
type GPIOConfig struct {
	// Power is the power enable line.
	Power string `yaml:"power"`

	// Reset is the reset line.
	Reset string `yaml:"reset"`

	// ResetActiveHigh is set if reset is asserted on a high level.
	ResetActiveHigh bool `yaml:"reset_active_high"`

	// Backlight is the optional backlight enable line.
	Backlight string `yaml:"backlight,omitempty"`
}

// BusConfig describes how the DSI bridge is reached.
type BusConfig struct {
	// Type is "i2c" or "spi".
	Type string `yaml:"type"`

	// Bus is the SPI bus number.
	Bus int `yaml:"bus"`

	// Device is the I²C device or the SPI chip select, -1 picks the first
	// available I²C device.
	Device int `yaml:"device"`

	// Addr is the I²C address of the bridge.
	Addr uint8 `yaml:"addr"`

	// Mode is the SPI mode.
	Mode uint8 `yaml:"mode"`

	// SpeedHz is the SPI clock.
	SpeedHz uint32 `yaml:"speed_hz"`

	// Channel is the DSI virtual channel.
	Channel uint8 `yaml:"channel"`
}

// Config is the top-level configuration.
type Config struct {
	// Model is a built-in panel model, see panel.Models.
	Model string `yaml:"model"`

	// Table is an optional command table file replacing the model's table.
	Table string `yaml:"table,omitempty"`

	GPIO GPIOConfig `yaml:"gpio"`
	Bus  BusConfig  `yaml:"bus"`

	// ReplayOnPrepare replays the command table on prepare instead of enable.
	ReplayOnPrepare bool `yaml:"replay_on_prepare"`

	// RetryDelay is the wait between two attempts of a failed command.
	RetryDelay time.Duration `yaml:"retry_delay"`

	MaxBrightness uint16 `yaml:"max_brightness"`

	// Brightness is the initial brightness, unset means MaxBrightness and
	// zero starts the panel dark.
	Brightness *uint16 `yaml:"brightness,omitempty"`
}

// Defaults.
const (
	DefaultModel     = "yeebo-ili9881c"
	DefaultPower     = "GPIO22"
	DefaultReset     = "GPIO25"
	DefaultBacklight = "GPIO19"
)

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Model: DefaultModel,
		GPIO: GPIOConfig{
			Power:     DefaultPower,
			Reset:     DefaultReset,
			Backlight: DefaultBacklight,
		},
		Bus: BusConfig{
			Type:    "i2c",
			Device:  panel.DefaultI2CConfig.Device,
			Addr:    panel.DefaultI2CConfig.Addr,
			SpeedHz: panel.DefaultSPIConfig.SpeedHz,
		},
		MaxBrightness: panel.DefaultMaxBrightness,
	}
}

// Normalize fills in missing values with defaults.
func (c *Config) Normalize() {
	if c.Model == "" && c.Table == "" {
		c.Model = DefaultModel
	}
	if c.GPIO.Power == "" {
		c.GPIO.Power = DefaultPower
	}
	if c.GPIO.Reset == "" {
		c.GPIO.Reset = DefaultReset
	}

	c.Bus.Type = strings.ToLower(c.Bus.Type)
	switch c.Bus.Type {
	case "i2c", "spi":
	default:
		c.Bus.Type = "i2c"
	}
	if c.Bus.Type == "i2c" && c.Bus.Addr == 0 {
		c.Bus.Addr = panel.DefaultI2CConfig.Addr
	}
	if c.Bus.SpeedHz == 0 {
		c.Bus.SpeedHz = panel.DefaultSPIConfig.SpeedHz
	}
	c.Bus.Mode &= 0x03
	c.Bus.Channel &= 0x03

	if c.RetryDelay < 0 {
		c.RetryDelay = 0
	}
	if c.MaxBrightness == 0 {
		c.MaxBrightness = panel.DefaultMaxBrightness
	}
	if c.Brightness != nil && *c.Brightness > c.MaxBrightness {
		level := c.MaxBrightness
		c.Brightness = &level
	}
}

// Panel returns the panel configuration, pin resolves GPIO names. A custom
// command table is loaded and validated.
func (c *Config) Panel(pin func(name string) gpio.PinIO) (*panel.Config, error) {
	config := &panel.Config{
		Model:           c.Model,
		Power:           lookup(pin, c.GPIO.Power),
		Reset:           lookup(pin, c.GPIO.Reset),
		ResetActiveHigh: c.GPIO.ResetActiveHigh,
		Backlight:       lookup(pin, c.GPIO.Backlight),
		ReplayOnPrepare: c.ReplayOnPrepare,
		RetryDelay:      c.RetryDelay,
		MaxBrightness:   c.MaxBrightness,
	}
	if c.Brightness != nil {
		level := *c.Brightness
		config.Brightness = &level
	}

	if c.Model != "" {
		if _, err := panel.LookupModel(c.Model); err != nil {
			return nil, err
		}
	}
	if c.Table != "" {
		table, err := panel.LoadCommandTable(c.Table)
		if err != nil {
			return nil, err
		}
		config.Table = table
	}
	return config, nil
}

func lookup(pin func(string) gpio.PinIO, name string) gpio.PinOut {
	if name == "" {
		return nil
	}
	if p := pin(name); p != nil {
		return p
	}
	return nil
}

// Open the transport to the DSI bridge.
func (b BusConfig) Open() (panel.Transport, error) {
	switch b.Type {
	case "i2c":
		return panel.OpenI2C(&panel.I2CConfig{
			Device:  b.Device,
			Addr:    b.Addr,
			Channel: b.Channel,
		})
	case "spi":
		return panel.OpenSPI(&panel.SPIConfig{
			Bus:     b.Bus,
			Device:  b.Device,
			Mode:    b.Mode,
			SpeedHz: b.SpeedHz,
			Channel: b.Channel,
		})
	default:
		return nil, fmt.Errorf("config: unsupported bus type %q", b.Type)
	}
}

// Load loads configuration from the given YAML path. On first run the default
// configuration is written to path with 0600 permissions.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	cfg := new(Config)
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	cfg.Normalize()

	return cfg, nil
}

// Save writes the configuration atomically via a temp file and rename.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".panel-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}

// Save is a convenience method that delegates to Save.
func (c *Config) Save(path string) error {
	return Save(path, c)
}
