package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	"github.com/BeatGlow/panel"
	"github.com/BeatGlow/panel/internal/config"
)

func main() {
	configFlag := flag.String("config", "", "Configuration file (created with defaults if missing)")
	modelFlag := flag.String("model", config.DefaultModel, "Panel model")
	tableFlag := flag.String("table", "", "Command table file (overrides the model table)")
	busFlag := flag.String("bus", "i2c", "Bridge bus (i2c or spi)")
	i2cDeviceFlag := flag.Int("i2c-dev", panel.DefaultI2CConfig.Device, "I²C device number (default: use first available)")
	i2cAddrFlag := flag.Uint("i2c-addr", uint(panel.DefaultI2CConfig.Addr), "I²C device address")
	spiBusFlag := flag.Int("spi-bus", 0, "SPI bus")
	spiDeviceFlag := flag.Int("spi-dev", 0, "SPI device")
	spiModeFlag := flag.Uint("spi-mode", 0, "SPI mode")
	spiSpeedFlag := flag.Uint("spi-speed", uint(panel.DefaultSPIConfig.SpeedHz), "SPI clock in Hz")
	channelFlag := flag.Uint("channel", 0, "DSI virtual channel")
	powerPinFlag := flag.String("power", config.DefaultPower, "Power enable GPIO pin")
	resetPinFlag := flag.String("reset", config.DefaultReset, "Reset GPIO pin")
	blPinFlag := flag.String("bl", config.DefaultBacklight, "Backlight GPIO pin")
	resetHighFlag := flag.Bool("reset-active-high", false, "Reset is asserted on a high level")
	replayFlag := flag.Bool("replay-on-prepare", false, "Replay the command table on prepare")
	retryDelayFlag := flag.Duration("retry-delay", 0, "Wait between command retries")
	brightnessFlag := flag.Uint("brightness", panel.DefaultMaxBrightness, "Initial brightness")
	onceFlag := flag.Bool("once", false, "Enable the panel and wait for a signal instead of running a shell")
	dumpFlag := flag.Bool("dump-table", false, "Print the command table as YAML and exit")
	modelsFlag := flag.Bool("models", false, "List the supported models and exit")
	debugFlag := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	level := zerolog.InfoLevel
	if *debugFlag {
		level = zerolog.DebugLevel
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	if *modelsFlag {
		for _, name := range panel.Models() {
			m, _ := panel.LookupModel(name)
			fmt.Println(m)
		}
		return
	}

	cfg := config.DefaultConfig()
	if *configFlag != "" {
		var err error
		if cfg, err = config.Load(*configFlag); err != nil {
			fatal(err)
		}
	}

	// Flags given on the command line win over the configuration file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "model":
			cfg.Model = *modelFlag
		case "table":
			cfg.Table = *tableFlag
		case "bus":
			cfg.Bus.Type = strings.ToLower(*busFlag)
		case "i2c-dev":
			if cfg.Bus.Type != "spi" {
				cfg.Bus.Device = *i2cDeviceFlag
			}
		case "spi-dev":
			if cfg.Bus.Type == "spi" {
				cfg.Bus.Device = *spiDeviceFlag
			}
		case "i2c-addr":
			cfg.Bus.Addr = uint8(*i2cAddrFlag)
		case "spi-bus":
			cfg.Bus.Bus = *spiBusFlag
		case "spi-mode":
			cfg.Bus.Mode = uint8(*spiModeFlag)
		case "spi-speed":
			cfg.Bus.SpeedHz = uint32(*spiSpeedFlag)
		case "channel":
			cfg.Bus.Channel = uint8(*channelFlag)
		case "power":
			cfg.GPIO.Power = *powerPinFlag
		case "reset":
			cfg.GPIO.Reset = *resetPinFlag
		case "bl":
			cfg.GPIO.Backlight = *blPinFlag
		case "reset-active-high":
			cfg.GPIO.ResetActiveHigh = *resetHighFlag
		case "replay-on-prepare":
			cfg.ReplayOnPrepare = *replayFlag
		case "retry-delay":
			cfg.RetryDelay = *retryDelayFlag
		case "brightness":
			level := uint16(*brightnessFlag)
			cfg.Brightness = &level
		}
	})
	cfg.Normalize()

	if *dumpFlag {
		if err := dumpTable(cfg); err != nil {
			fatal(err)
		}
		return
	}

	if _, err := host.Init(); err != nil {
		fatal(err)
	}

	pc, err := cfg.Panel(gpioreg.ByName)
	if err != nil {
		fatal(err)
	}

	t, err := cfg.Bus.Open()
	if err != nil {
		fatal(err)
	}
	log.Info().Str("transport", t.String()).Msg("using transport")

	var s *shell
	if !*onceFlag {
		if s, err = newShell(); err != nil {
			_ = t.Close()
			fatal(err)
		}
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: s.Stderr()})
	}

	pc.Logger = &log.Logger
	p, err := panel.New(t, pc)
	if err != nil {
		_ = t.Close()
		fatal(err)
	}
	defer func() {
		if err := p.Close(); err != nil {
			log.Error().Err(err).Msg("close failed")
		}
	}()
	log.Info().Str("panel", p.String()).Msg("using panel")

	if s == nil {
		if err = runOnce(p); err != nil {
			log.Error().Err(err).Msg("bring-up failed")
		}
		return
	}
	s.Run(p)
}

func runOnce(p panel.Panel) error {
	if err := p.Prepare(); err != nil {
		return err
	}
	if err := p.Enable(); err != nil {
		return err
	}

	for _, mode := range p.Modes() {
		log.Info().Str("mode", mode.String()).Int("clock", mode.Clock).Msg("panel enabled")
	}
	log.Info().Msg("hit control-c to stop...")

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	return p.Disable()
}

func dumpTable(cfg *config.Config) error {
	var table *panel.CommandTable
	if cfg.Table != "" {
		var err error
		if table, err = panel.LoadCommandTable(cfg.Table); err != nil {
			return err
		}
	} else {
		m, err := panel.LookupModel(cfg.Model)
		if err != nil {
			return err
		}
		table = m.Table
	}

	e := yaml.NewEncoder(os.Stdout)
	e.SetIndent(2)
	if err := e.Encode(table); err != nil {
		return err
	}
	return e.Close()
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "fatal: "+err.Error())
	os.Exit(1)
}
