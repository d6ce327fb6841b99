package panel

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type sequencer struct {
	mu sync.Mutex

	model           *Model
	table           *CommandTable
	t               Transport
	regs            *registers
	power           *powerSequencer
	powerErr        error
	bl              backlight
	state           State
	asleep          bool
	resetHeld       bool
	replayed        bool
	replayOnPrepare bool
	retryDelay      time.Duration
	delay           func(time.Duration)
	log             zerolog.Logger
}

// New returns a Panel for the configured model that talks to the controller
// over t. The panel starts Unprepared and nothing is driven until Prepare.
//
// A missing power or reset line does not fail New, but the panel will refuse
// to prepare.
func New(t Transport, config *Config) (Panel, error) {
	if t == nil {
		return nil, errors.New("panel: no transport")
	}
	if config == nil {
		return nil, errors.New("panel: no configuration")
	}

	var model *Model
	if config.Model != "" {
		var err error
		if model, err = LookupModel(config.Model); err != nil {
			return nil, err
		}
	} else if config.Table != nil {
		model = &Model{
			Name:           "custom",
			ExitSleepDelay: exitSleepDelay,
			DisplayOnDelay: displayOnDelay,
			Lanes:          4,
		}
	} else {
		return nil, fmt.Errorf("%w: no model or command table configured", ErrUnknownModel)
	}
	if config.Table != nil {
		model.Table = config.Table
	}

	s := &sequencer{
		model:           model,
		table:           model.Table,
		t:               t,
		replayOnPrepare: config.ReplayOnPrepare,
		retryDelay:      config.RetryDelay,
		delay:           config.Delay,
		bl: backlight{
			pin: config.Backlight,
			max: config.MaxBrightness,
		},
	}
	if s.delay == nil {
		s.delay = time.Sleep
	}
	if s.bl.max == 0 {
		s.bl.max = DefaultMaxBrightness
	}
	if config.Brightness == nil {
		s.bl.level = s.bl.max
	} else if s.bl.level = *config.Brightness; s.bl.level > s.bl.max {
		return nil, fmt.Errorf("%w: initial brightness %d > %d", ErrBrightnessRange, s.bl.level, s.bl.max)
	}

	if config.Logger != nil {
		s.log = config.Logger.With().Str("panel", model.Name).Logger()
	} else {
		level := zerolog.InfoLevel
		if debug {
			level = zerolog.DebugLevel
		}
		s.log = log.Logger.Level(level).With().Str("panel", model.Name).Logger()
	}

	s.regs = newRegisters(t, s.table, s.log)
	if s.power, s.powerErr = newPowerSequencer(config.Power, config.Reset, config.ResetActiveHigh, s.delay, s.log); s.powerErr != nil {
		s.log.Error().Err(s.powerErr).Msg("panel can not be prepared")
	}

	s.log.Info().
		Stringer("transport", t).
		Int("commands", s.table.Len()).
		Stringer("mode", s.table.Mode()).
		Msg("panel created")
	return s, nil
}

func (s *sequencer) String() string {
	return fmt.Sprintf("%s panel on %s", s.model.Name, s.t)
}

func (s *sequencer) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *sequencer) Modes() []DisplayMode {
	if s.model.Mode.HDisplay == 0 {
		return nil
	}
	return []DisplayMode{s.model.Mode.clone()}
}

func (s *sequencer) Prepare() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case Prepared, Enabled:
		return nil
	case Disabled:
		s.log.Info().Msg("power cycling disabled panel")
		if err := s.unprepare(); err != nil {
			return &TransitionError{Transition: TransitionPrepare, Err: err}
		}
	}

	if s.powerErr != nil {
		return &TransitionError{Transition: TransitionPrepare, Err: s.powerErr}
	}
	if err := s.prepare(); err != nil {
		s.log.Error().Err(err).Msg("prepare failed")
		return &TransitionError{Transition: TransitionPrepare, Err: err}
	}

	s.state = Prepared
	s.log.Info().Msg("prepared")
	return nil
}

func (s *sequencer) prepare() error {
	s.regs.invalidate()
	s.replayed = false
	s.resetHeld = false
	s.asleep = true

	if err := s.power.powerUp(); err != nil {
		return errors.Join(err, s.power.powerDown())
	}

	if s.replayOnPrepare {
		if err := s.regs.replay(s.table, s.retryDelay, s.delay); err != nil {
			s.regs.invalidate()
			return errors.Join(err, s.power.powerDown())
		}
		s.replayed = true
	}
	return nil
}

func (s *sequencer) Enable() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case Enabled:
		return nil
	case Unprepared:
		return &TransitionError{Transition: TransitionEnable, Err: ErrNotPrepared}
	case Disabled:
		return &TransitionError{Transition: TransitionEnable, Err: ErrReenable}
	}

	if err := s.enable(); err != nil {
		s.log.Error().Err(err).Msg("enable failed, holding reset")
		s.regs.invalidate()
		s.replayed = false
		s.asleep = true
		s.bl.on = false
		if rerr := s.power.assertReset(); rerr != nil {
			s.log.Error().Err(rerr).Msg("hold reset failed")
			err = errors.Join(err, rerr)
		} else {
			s.resetHeld = true
		}
		return &TransitionError{Transition: TransitionEnable, Err: err}
	}

	s.state = Enabled
	s.log.Info().Msg("enabled")
	return nil
}

func (s *sequencer) enable() error {
	if s.resetHeld {
		if err := s.power.releaseReset(); err != nil {
			return err
		}
		s.resetHeld = false
		s.regs.invalidate()
	}

	if !s.replayed {
		if err := s.regs.replay(s.table, s.retryDelay, s.delay); err != nil {
			return err
		}
		s.replayed = true
	}

	if err := s.regs.exitSleep(); err != nil {
		return err
	}
	s.asleep = false
	s.delay(atLeast(s.model.ExitSleepDelay, exitSleepDelay))

	if err := s.regs.displayOn(); err != nil {
		return err
	}
	s.delay(atLeast(s.model.DisplayOnDelay, displayOnDelay))

	return s.backlightOn()
}

func (s *sequencer) Disable() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Enabled {
		return nil
	}

	if err := s.disable(); err != nil {
		s.log.Error().Err(err).Msg("disable failed")
		return &TransitionError{Transition: TransitionDisable, Err: err}
	}

	s.state = Disabled
	s.log.Info().Msg("disabled")
	return nil
}

func (s *sequencer) disable() error {
	if err := s.backlightOff(); err != nil {
		return err
	}
	s.delay(backlightOffDelay)

	if err := s.regs.displayOff(); err != nil {
		return err
	}
	s.delay(displayOnDelay)

	if err := s.regs.enterSleep(); err != nil {
		return err
	}
	s.asleep = true
	return nil
}

func (s *sequencer) Unprepare() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == Unprepared {
		return nil
	}

	if err := s.unprepare(); err != nil {
		return &TransitionError{Transition: TransitionUnprepare, Err: err}
	}
	s.log.Info().Msg("unprepared")
	return nil
}

// unprepare always ends Unprepared with the power removed. Failing commands
// do not stop the power down.
func (s *sequencer) unprepare() error {
	var errs []error
	if err := s.backlightOff(); err != nil {
		s.log.Error().Err(err).Msg("unprepare: backlight off")
		errs = append(errs, err)
	}
	if !s.asleep && !s.resetHeld {
		if err := s.regs.enterSleep(); err != nil {
			s.log.Error().Err(err).Msg("unprepare: enter sleep")
			errs = append(errs, err)
		} else {
			s.asleep = true
		}
	}
	if err := s.power.powerDown(); err != nil {
		errs = append(errs, err)
	}

	s.regs.invalidate()
	s.state = Unprepared
	s.asleep = true
	s.resetHeld = false
	s.replayed = false
	return errors.Join(errs...)
}

// Close shuts the panel down: an enabled panel is disabled first, then power
// is removed regardless of command failures, then the transport is closed.
func (s *sequencer) Close() error {
	s.mu.Lock()
	var errs []error
	if s.state == Enabled {
		if err := s.disable(); err != nil {
			s.log.Error().Err(err).Msg("close: disable")
			errs = append(errs, &TransitionError{Transition: TransitionDisable, Err: err})
		} else {
			s.state = Disabled
		}
	}
	if s.state != Unprepared {
		if err := s.unprepare(); err != nil {
			errs = append(errs, &TransitionError{Transition: TransitionUnprepare, Err: err})
		}
		s.log.Info().Msg("unprepared")
	}
	s.mu.Unlock()

	if err := s.t.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
