package panel

import (
	"fmt"
	"strings"
)

// BusFormat is a media bus pixel format code.
type BusFormat uint32

// Media bus formats.
const (
	BusFormatRGB666 BusFormat = 0x1009 // RGB666_1X18
	BusFormatRGB888 BusFormat = 0x100a // RGB888_1X24
	BusFormatRGB565 BusFormat = 0x1017 // RGB565_1X16
)

func (f BusFormat) String() string {
	switch f {
	case BusFormatRGB666:
		return "RGB666_1X18"
	case BusFormatRGB888:
		return "RGB888_1X24"
	case BusFormatRGB565:
		return "RGB565_1X16"
	default:
		return fmt.Sprintf("bus format %#04x", uint32(f))
	}
}

// BusFlags describe the data enable and pixel clock polarity.
type BusFlags uint32

// Bus flags.
const (
	BusFlagDELow BusFlags = 1 << iota
	BusFlagDEHigh
	BusFlagPixDataPosEdge
	BusFlagPixDataNegEdge
)

// ModeFlags are the DSI host link flags a panel requires.
type ModeFlags uint32

// DSI mode flags, bit positions as in the Linux MIPI DSI core.
const (
	ModeVideo          ModeFlags = 1 << 0
	ModeVideoBurst     ModeFlags = 1 << 1
	ModeVideoSyncPulse ModeFlags = 1 << 2
	ModeVideoHSE       ModeFlags = 1 << 4
	ModeLPM            ModeFlags = 1 << 11
)

var modeFlagNames = []struct {
	flag ModeFlags
	name string
}{
	{ModeVideo, "video"},
	{ModeVideoBurst, "burst"},
	{ModeVideoSyncPulse, "sync-pulse"},
	{ModeVideoHSE, "hse"},
	{ModeLPM, "lpm"},
}

func (f ModeFlags) String() string {
	var names []string
	for _, n := range modeFlagNames {
		if f&n.flag != 0 {
			names = append(names, n.name)
			f &^= n.flag
		}
	}
	if f != 0 {
		names = append(names, fmt.Sprintf("%#x", uint32(f)))
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "|")
}

// PixelFormat is the DSI video stream pixel format.
type PixelFormat uint8

// DSI pixel formats.
const (
	PixelFormatRGB888 PixelFormat = iota
	PixelFormatRGB666
	PixelFormatRGB666Packed
	PixelFormatRGB565
)

func (f PixelFormat) String() string {
	switch f {
	case PixelFormatRGB888:
		return "RGB888"
	case PixelFormatRGB666:
		return "RGB666"
	case PixelFormatRGB666Packed:
		return "RGB666_PACKED"
	case PixelFormatRGB565:
		return "RGB565"
	default:
		return "invalid"
	}
}

// BitsPerPixel is the size of a pixel on the link.
func (f PixelFormat) BitsPerPixel() int {
	switch f {
	case PixelFormatRGB888, PixelFormatRGB666:
		return 24
	case PixelFormatRGB666Packed:
		return 18
	case PixelFormatRGB565:
		return 16
	default:
		return 0
	}
}

// DisplayMode is the fixed video timing of a panel model.
type DisplayMode struct {
	// Clock is the pixel clock in kHz.
	Clock int

	HDisplay   int
	HSyncStart int
	HSyncEnd   int
	HTotal     int
	VDisplay   int
	VSyncStart int
	VSyncEnd   int
	VTotal     int
	VRefresh   int
	WidthMM    int
	HeightMM   int
	BusFormats []BusFormat
	BusFlags   BusFlags
	Preferred  bool
}

func (m DisplayMode) String() string {
	return fmt.Sprintf("%dx%d@%d", m.HDisplay, m.VDisplay, m.VRefresh)
}

// Name is the mode name, WIDTHxHEIGHT.
func (m DisplayMode) Name() string {
	return fmt.Sprintf("%dx%d", m.HDisplay, m.VDisplay)
}

// clone returns a copy sharing no memory with m.
func (m DisplayMode) clone() DisplayMode {
	m.BusFormats = append([]BusFormat(nil), m.BusFormats...)
	return m
}
