package panel

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/BeatGlow/panel/dsi"
)

// Page selectors, the page number is appended to form the switch frame.
var (
	ILI9881CPageSelector = []byte{0xff, 0x98, 0x81}
	JD9365PageSelector   = []byte{0xe0}
)

// PageState is the register page last selected by the host. It is unknown
// until the first successful switch and after every power cycle, reset or
// failed switch.
type PageState struct {
	page  uint8
	known bool
}

// Page returns the selected page and if it is known.
func (s PageState) Page() (page uint8, known bool) {
	return s.page, s.known
}

func (s PageState) String() string {
	if !s.known {
		return "unknown"
	}
	return fmt.Sprintf("page %d", s.page)
}

// registers speaks the paged register protocol over a Transport.
type registers struct {
	t        Transport
	mode     WriteMode
	selector []byte
	page     PageState
	log      zerolog.Logger
}

func newRegisters(t Transport, table *CommandTable, log zerolog.Logger) *registers {
	return &registers{
		t:        t,
		mode:     table.mode,
		selector: table.selector,
		log:      log,
	}
}

// switchPage writes the page switch frame. Redundant switches are not elided.
func (r *registers) switchPage(page uint8) error {
	frame := make([]byte, 0, len(r.selector)+1)
	frame = append(frame, r.selector...)
	frame = append(frame, page)

	r.log.Debug().Uint8("page", page).Hex("frame", frame).Msg("switch page")
	if err := r.t.Write(r.mode, frame); err != nil {
		r.page = PageState{}
		return &TransportError{Op: "switch page", Data: frame, Err: err}
	}
	r.page = PageState{page: page, known: true}
	return nil
}

// writeRegister writes values to addr on the current page.
func (r *registers) writeRegister(addr uint8, values ...byte) error {
	data := make([]byte, 0, 1+len(values))
	data = append(data, addr)
	data = append(data, values...)

	r.log.Debug().Hex("data", data).Stringer("page", r.page).Msg("write register")
	if err := r.t.Write(r.mode, data); err != nil {
		return &TransportError{Op: "write register", Data: data, Err: err}
	}
	return nil
}

// ensurePage switches to page unless it is known to be selected.
func (r *registers) ensurePage(page uint8) error {
	if current, known := r.page.Page(); known && current == page {
		return nil
	}
	return r.switchPage(page)
}

// invalidate forgets the selected page, the controller lost its state.
func (r *registers) invalidate() {
	r.page = PageState{}
}

// dcs sends a standard DCS command, these live on page 0.
func (r *registers) dcs(cmd byte, params ...byte) error {
	if err := r.ensurePage(0); err != nil {
		return err
	}

	data := append([]byte{cmd}, params...)
	r.log.Debug().Hex("data", data).Msg("dcs")
	if err := r.t.Write(DCSWrite, data); err != nil {
		return &TransportError{Op: "dcs write", Data: data, Err: err}
	}
	return nil
}

// read reads the response of the DCS command cmd on page 0.
func (r *registers) read(cmd byte, buf []byte) error {
	if err := r.ensurePage(0); err != nil {
		return err
	}
	if err := r.t.Read(cmd, buf); err != nil {
		return &TransportError{Op: "dcs read", Data: []byte{cmd}, Err: err}
	}
	return nil
}

func (r *registers) apply(op RegisterOp) error {
	switch op.Kind {
	case OpSwitchPage:
		return r.switchPage(op.Page)
	case OpWriteRegister:
		return r.writeRegister(op.Addr, op.Values...)
	default:
		return fmt.Errorf("panel: unknown operation kind %d", op.Kind)
	}
}

func (r *registers) exitSleep() error { return r.dcs(dsi.DCSExitSleepMode) }
func (r *registers) enterSleep() error { return r.dcs(dsi.DCSEnterSleepMode) }
func (r *registers) displayOn() error { return r.dcs(dsi.DCSSetDisplayOn) }
func (r *registers) displayOff() error { return r.dcs(dsi.DCSSetDisplayOff) }
