package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"

	"github.com/BeatGlow/panel"
)

func TestLoadFirstRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "panel", "config.yaml")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	again, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, again)
}

func TestLoadEmptyPath(t *testing.T) {
	_, err := Load("")
	assert.Error(t, err)
	assert.Error(t, Save("", DefaultConfig()))
	assert.Error(t, Save(filepath.Join(t.TempDir(), "x.yaml"), nil))
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
model: zhunyi-gh8555bl
gpio:
  power: GPIO5
  reset: GPIO6
  reset_active_high: true
bus:
  type: SPI
  bus: 1
  device: 0
  mode: 7
retry_delay: 5ms
brightness: 300
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "zhunyi-gh8555bl", cfg.Model)
	assert.Equal(t, GPIOConfig{Power: "GPIO5", Reset: "GPIO6", ResetActiveHigh: true}, cfg.GPIO)
	assert.Equal(t, "spi", cfg.Bus.Type)
	assert.Equal(t, 1, cfg.Bus.Bus)
	assert.Equal(t, uint8(3), cfg.Bus.Mode)
	assert.Equal(t, panel.DefaultSPIConfig.SpeedHz, cfg.Bus.SpeedHz)
	assert.Equal(t, 5*time.Millisecond, cfg.RetryDelay)
	assert.Equal(t, uint16(255), cfg.MaxBrightness)
	require.NotNil(t, cfg.Brightness)
	assert.Equal(t, uint16(255), *cfg.Brightness)
}

func TestLoadBrightness(t *testing.T) {
	dir := t.TempDir()

	dark := filepath.Join(dir, "dark.yaml")
	require.NoError(t, os.WriteFile(dark, []byte("brightness: 0\n"), 0o600))
	cfg, err := Load(dark)
	require.NoError(t, err)
	require.NotNil(t, cfg.Brightness)
	assert.Zero(t, *cfg.Brightness)

	config, err := cfg.Panel(pins())
	require.NoError(t, err)
	require.NotNil(t, config.Brightness)
	assert.Zero(t, *config.Brightness)

	unset := filepath.Join(dir, "unset.yaml")
	require.NoError(t, os.WriteFile(unset, []byte("max_brightness: 100\n"), 0o600))
	cfg, err = Load(unset)
	require.NoError(t, err)
	assert.Nil(t, cfg.Brightness)

	config, err = cfg.Panel(pins())
	require.NoError(t, err)
	assert.Nil(t, config.Brightness)
	assert.Equal(t, uint16(100), config.MaxBrightness)
}

func TestLoadSyntaxError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("model: [\n"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := DefaultConfig()
	cfg.Bus.Type = "spi"
	cfg.RetryDelay = 2 * time.Millisecond
	cfg.ReplayOnPrepare = true
	require.NoError(t, cfg.Save(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "retry_delay: 2ms")

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)

	matches, err := filepath.Glob(filepath.Join(filepath.Dir(path), ".panel-config-*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestNormalize(t *testing.T) {
	level := uint16(200)
	cfg := &Config{Bus: BusConfig{Type: "usb", Channel: 5}, RetryDelay: -time.Second, MaxBrightness: 100, Brightness: &level}
	cfg.Normalize()
	assert.Equal(t, DefaultModel, cfg.Model)
	assert.Equal(t, DefaultPower, cfg.GPIO.Power)
	assert.Equal(t, DefaultReset, cfg.GPIO.Reset)
	assert.Equal(t, "i2c", cfg.Bus.Type)
	assert.Equal(t, panel.DefaultI2CConfig.Addr, cfg.Bus.Addr)
	assert.Equal(t, uint8(1), cfg.Bus.Channel)
	assert.Zero(t, cfg.RetryDelay)
	require.NotNil(t, cfg.Brightness)
	assert.Equal(t, uint16(100), *cfg.Brightness)
	assert.Equal(t, uint16(200), level, "the caller's value is not modified")

	// A custom table does not need a model.
	cfg = &Config{Table: "table.yaml"}
	cfg.Normalize()
	assert.Empty(t, cfg.Model)
}

func pins(names ...string) func(string) gpio.PinIO {
	m := make(map[string]gpio.PinIO)
	for i, name := range names {
		m[name] = &gpiotest.Pin{N: name, Num: i}
	}
	return func(name string) gpio.PinIO {
		return m[name]
	}
}

func TestPanel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.GPIO.Backlight = ""
	cfg.RetryDelay = time.Millisecond

	config, err := cfg.Panel(pins(DefaultPower, DefaultReset))
	require.NoError(t, err)
	assert.Equal(t, DefaultModel, config.Model)
	assert.Equal(t, DefaultPower, config.Power.Name())
	assert.Equal(t, DefaultReset, config.Reset.Name())
	assert.Nil(t, config.Backlight)
	assert.Nil(t, config.Table)
	assert.Equal(t, time.Millisecond, config.RetryDelay)
	assert.Nil(t, config.Brightness)
	assert.Equal(t, uint16(255), config.MaxBrightness)
}

func TestPanelUnknownPin(t *testing.T) {
	config, err := DefaultConfig().Panel(pins())
	require.NoError(t, err)
	assert.Nil(t, config.Power)
	assert.Nil(t, config.Reset)
}

func TestPanelUnknownModel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Model = "ili9881c"

	_, err := cfg.Panel(pins())
	assert.ErrorIs(t, err, panel.ErrUnknownModel)
}

func TestPanelTable(t *testing.T) {
	dir := t.TempDir()
	table := filepath.Join(dir, "table.yaml")
	require.NoError(t, os.WriteFile(table, []byte("mode: dcs\nops:\n  - page: 0\n  - reg: 0xe1\n    values: [0x93]\n"), 0o600))

	cfg := DefaultConfig()
	cfg.Model = ""
	cfg.Table = table
	config, err := cfg.Panel(pins())
	require.NoError(t, err)
	require.NotNil(t, config.Table)
	assert.Equal(t, 2, config.Table.Len())

	cfg.Table = filepath.Join(dir, "missing.yaml")
	_, err = cfg.Panel(pins())
	assert.ErrorIs(t, err, os.ErrNotExist)

	require.NoError(t, os.WriteFile(table, []byte("ops:\n  - reg: 0x100\n"), 0o600))
	cfg.Table = table
	_, err = cfg.Panel(pins())
	assert.ErrorIs(t, err, panel.ErrMalformedTable)
}

func TestBusOpenUnsupported(t *testing.T) {
	_, err := BusConfig{Type: "usb"}.Open()
	assert.Error(t, err)
}
