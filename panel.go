// Package panel contains a bring-up sequencer for ILI9881C-family MIPI-DSI panels.
//
// A panel is powered and reset through two GPIO lines, switched into vendor
// register pages and initialized by replaying a fixed command table over a
// byte-stream Transport. The host drives it through the Panel interface using
// the prepare/enable/disable/unprepare lifecycle.
package panel

import (
	"errors"
	"os"
	"time"

	"github.com/rs/zerolog"
	"periph.io/x/conn/v3/gpio"
)

var debug bool

func init() {
	debug = os.Getenv("PANEL_DEBUG") != ""
}

// Errors
var (
	ErrMissingGpioLine = errors.New("panel: missing GPIO line")
	ErrMalformedTable  = errors.New("panel: malformed command table")
	ErrNotPrepared     = errors.New("panel: not prepared")
	ErrReenable        = errors.New("panel: re-enable requires an unprepare/prepare cycle")
	ErrBrightnessRange = errors.New("panel: brightness out of range")
	ErrUnknownModel    = errors.New("panel: unknown model")
)

// State is the lifecycle state of a panel.
type State uint8

// Lifecycle states.
const (
	Unprepared State = iota
	Prepared
	Enabled
	Disabled
)

func (s State) String() string {
	switch s {
	case Unprepared:
		return "unprepared"
	case Prepared:
		return "prepared"
	case Enabled:
		return "enabled"
	case Disabled:
		return "disabled"
	default:
		return "invalid"
	}
}

// Panel is the capability the host display framework holds on to.
type Panel interface {
	Backlight

	String() string

	// Prepare powers the panel and takes it out of hardware reset.
	Prepare() error

	// Enable initializes the controller and turns the display and backlight on.
	Enable() error

	// Disable turns the backlight and display off and enters sleep.
	Disable() error

	// Unprepare enters sleep if needed and removes power. Hardware lines are
	// always left de-powered, even when commands fail.
	Unprepare() error

	// Modes returns the fixed display modes of the panel model.
	Modes() []DisplayMode

	// State returns the current lifecycle state.
	State() State

	// Close tears the panel down and closes the transport.
	Close() error
}

// Backlight is the backlight-class view of a panel.
type Backlight interface {
	// SetBrightness stores the brightness level and writes it to the
	// controller while the panel is enabled.
	SetBrightness(level uint16) error

	// Brightness reads the brightness level back from the controller. It
	// returns 0 while the panel is not enabled.
	Brightness() (uint16, error)

	// MaxBrightness is the upper bound accepted by SetBrightness.
	MaxBrightness() uint16
}

// Config is the panel configuration.
type Config struct {
	// Model selects the panel model, see Models.
	Model string

	// Table overrides the command table of the model.
	Table *CommandTable

	// Power enable pin.
	Power gpio.PinOut

	// Reset pin.
	Reset gpio.PinOut

	// ResetActiveHigh is set when the reset pin asserts reset on a high level.
	ResetActiveHigh bool

	// Backlight enable pin (optional).
	Backlight gpio.PinOut

	// ReplayOnPrepare replays the command table during Prepare instead of Enable.
	ReplayOnPrepare bool

	// RetryDelay is the wait between two attempts of a command table entry.
	RetryDelay time.Duration

	// MaxBrightness defaults to 255.
	MaxBrightness uint16

	// Brightness is the initial brightness, nil defaults to MaxBrightness.
	// Zero starts the panel dark.
	Brightness *uint16

	// Logger defaults to the global zerolog logger.
	Logger *zerolog.Logger

	// Delay blocks for the given duration, defaults to time.Sleep.
	Delay func(time.Duration)
}

func isMissing(p gpio.PinOut) bool {
	return p == nil || p == gpio.INVALID
}
