package panel

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"periph.io/x/conn/v3/gpio"
)

// Power and reset settle delays, these are minimums.
const (
	powerOnDelay      = 20 * time.Millisecond
	resetAssertDelay  = 20 * time.Millisecond
	resetReleaseDelay = 120 * time.Millisecond
	resetHoldDelay    = 20 * time.Millisecond
	powerOffDelay     = 2 * time.Millisecond
)

// powerSequencer exclusively drives the power enable and reset lines.
type powerSequencer struct {
	power       gpio.PinOut
	reset       gpio.PinOut
	resetActive gpio.Level
	delay       func(time.Duration)
	log         zerolog.Logger
}

func newPowerSequencer(power, reset gpio.PinOut, resetActiveHigh bool, delay func(time.Duration), log zerolog.Logger) (*powerSequencer, error) {
	if isMissing(power) {
		return nil, fmt.Errorf("%w: power enable", ErrMissingGpioLine)
	}
	if isMissing(reset) {
		return nil, fmt.Errorf("%w: reset", ErrMissingGpioLine)
	}
	return &powerSequencer{
		power:       power,
		reset:       reset,
		resetActive: gpio.Level(resetActiveHigh),
		delay:       delay,
		log:         log,
	}, nil
}

// powerUp powers the controller and pulses reset.
func (p *powerSequencer) powerUp() error {
	p.log.Debug().Msg("power up")
	if err := p.power.Out(gpio.High); err != nil {
		return fmt.Errorf("power enable %s: %w", p.power, err)
	}
	p.delay(powerOnDelay)

	if err := p.assertReset(); err != nil {
		return err
	}
	p.delay(resetAssertDelay)

	return p.releaseReset()
}

// powerDown puts the controller in reset and removes power. Both lines are
// always driven, the errors are joined.
func (p *powerSequencer) powerDown() error {
	p.log.Debug().Msg("power down")
	var errs []error
	if err := p.assertReset(); err != nil {
		p.log.Error().Err(err).Msg("power down: reset")
		errs = append(errs, err)
	}
	p.delay(resetHoldDelay)

	if err := p.power.Out(gpio.Low); err != nil {
		err = fmt.Errorf("power enable %s: %w", p.power, err)
		p.log.Error().Err(err).Msg("power down: power enable")
		errs = append(errs, err)
	}
	p.delay(powerOffDelay)

	return errors.Join(errs...)
}

// assertReset puts the controller in hardware reset.
func (p *powerSequencer) assertReset() error {
	if err := p.reset.Out(p.resetActive); err != nil {
		return fmt.Errorf("reset %s: %w", p.reset, err)
	}
	return nil
}

// releaseReset takes the controller out of reset and waits until it accepts
// commands.
func (p *powerSequencer) releaseReset() error {
	if err := p.reset.Out(!p.resetActive); err != nil {
		return fmt.Errorf("reset %s: %w", p.reset, err)
	}
	p.delay(resetReleaseDelay)
	return nil
}
