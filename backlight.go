package panel

import (
	"encoding/binary"
	"fmt"

	"periph.io/x/conn/v3/gpio"

	"github.com/BeatGlow/panel/dsi"
)

// DefaultMaxBrightness is the brightness range of the controller.
const DefaultMaxBrightness = 255

// backlight is the brightness level and on state. It is only on while the
// panel is enabled, the level survives disable.
type backlight struct {
	pin   gpio.PinOut
	level uint16
	max   uint16
	on    bool
}

func (s *sequencer) SetBrightness(level uint16) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if level > s.bl.max {
		return fmt.Errorf("%w: %d > %d", ErrBrightnessRange, level, s.bl.max)
	}
	s.bl.level = level
	if s.state != Enabled {
		return nil
	}
	return s.writeBrightness(level)
}

func (s *sequencer) Brightness() (uint16, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Enabled {
		return 0, nil
	}

	var buf [2]byte
	if err := s.regs.read(dsi.DCSGetBrightness, buf[:]); err != nil {
		return 0, err
	}
	level := binary.LittleEndian.Uint16(buf[:])
	if level <= s.bl.max {
		s.bl.level = level
	}
	return level & 0xff, nil
}

func (s *sequencer) MaxBrightness() uint16 {
	return s.bl.max
}

func (s *sequencer) writeBrightness(level uint16) error {
	return s.regs.dcs(dsi.DCSSetBrightness, byte(level), byte(level>>8))
}

// backlightOn restores the brightness level and drives the enable line.
func (s *sequencer) backlightOn() error {
	if err := s.writeBrightness(s.bl.level); err != nil {
		return err
	}
	if !isMissing(s.bl.pin) {
		if err := s.bl.pin.Out(gpio.High); err != nil {
			return fmt.Errorf("backlight %s: %w", s.bl.pin, err)
		}
	}
	s.bl.on = true
	s.log.Debug().Uint16("brightness", s.bl.level).Msg("backlight on")
	return nil
}

// backlightOff releases the enable line and blanks the controller's
// brightness if the backlight was on. The backlight is considered off even if
// this fails.
func (s *sequencer) backlightOff() error {
	wasOn := s.bl.on
	s.bl.on = false

	if !isMissing(s.bl.pin) {
		if err := s.bl.pin.Out(gpio.Low); err != nil {
			return fmt.Errorf("backlight %s: %w", s.bl.pin, err)
		}
	}
	if wasOn {
		if err := s.writeBrightness(0); err != nil {
			return err
		}
		s.log.Debug().Msg("backlight off")
	}
	return nil
}
