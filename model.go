package panel

import (
	"fmt"
	"sort"
	"time"
)

// exitSleepDelay is the minimum wait after the exit sleep command.
const exitSleepDelay = 120 * time.Millisecond

// displayOnDelay is the minimum wait after the display on command.
const displayOnDelay = 5 * time.Millisecond

// backlightOffDelay is the minimum wait between backlight off and display off.
const backlightOffDelay = 10 * time.Millisecond

// Model is a panel model: its initialization table and fixed video timing.
type Model struct {
	// Name of the model.
	Name string

	// Compatible are the device tree compatible strings of the model.
	Compatible []string

	// Table is the initialization command table.
	Table *CommandTable

	// Mode is the only display mode of the panel.
	Mode DisplayMode

	// ExitSleepDelay is the settle time after exit sleep, raised to 120ms.
	ExitSleepDelay time.Duration

	// DisplayOnDelay is the settle time after display on, raised to 5ms.
	DisplayOnDelay time.Duration

	// Lanes is the number of DSI data lanes.
	Lanes int

	// Format is the DSI pixel format.
	Format PixelFormat

	// Flags are the DSI link mode flags.
	Flags ModeFlags
}

func (m *Model) String() string {
	return fmt.Sprintf("%s (%s, %d lanes %s %s)", m.Name, m.Mode, m.Lanes, m.Format, m.Flags)
}

var models = map[string]*Model{
	"yeebo-ili9881c": {
		Name:       "yeebo-ili9881c",
		Compatible: []string{"yeebo,yeebo-ili9881c"},
		Table:      yeeboTable,
		Mode: DisplayMode{
			Clock:      68587,
			HDisplay:   800,
			HSyncStart: 800 + 40,
			HSyncEnd:   800 + 40 + 20,
			HTotal:     800 + 40 + 20 + 20,
			VDisplay:   1280,
			VSyncStart: 1280 + 3,
			VSyncEnd:   1280 + 3 + 8,
			VTotal:     1280 + 3 + 8 + 8,
			VRefresh:   60,
			WidthMM:    120,
			HeightMM:   160,
			BusFormats: []BusFormat{BusFormatRGB888, BusFormatRGB666, BusFormatRGB565},
			BusFlags:   BusFlagDELow | BusFlagPixDataNegEdge,
			Preferred:  true,
		},
		ExitSleepDelay: exitSleepDelay,
		DisplayOnDelay: displayOnDelay,
		Lanes:          4,
		Format:         PixelFormatRGB888,
		Flags:          ModeVideo | ModeVideoSyncPulse | ModeVideoHSE | ModeLPM,
	},
	"zhunyi-gh8555bl": {
		Name:       "zhunyi-gh8555bl",
		Compatible: []string{"zhunyi,gh8555bl"},
		Table:      zhunyiTable,
		Mode: DisplayMode{
			Clock:      68215,
			HDisplay:   800,
			HSyncStart: 800 + 20,
			HSyncEnd:   800 + 20 + 20,
			HTotal:     800 + 20 + 20 + 20,
			VDisplay:   1280,
			VSyncStart: 1280 + 30,
			VSyncEnd:   1280 + 30 + 4,
			VTotal:     1280 + 30 + 4 + 8,
			VRefresh:   60,
			WidthMM:    120,
			HeightMM:   160,
			BusFormats: []BusFormat{BusFormatRGB888, BusFormatRGB666, BusFormatRGB565},
			BusFlags:   BusFlagDELow | BusFlagPixDataNegEdge,
			Preferred:  true,
		},
		ExitSleepDelay: 200 * time.Millisecond,
		DisplayOnDelay: 100 * time.Millisecond,
		Lanes:          4,
		Format:         PixelFormatRGB888,
		Flags:          ModeVideo | ModeVideoSyncPulse | ModeLPM,
	},
	"bananapi-lhr050h41": {
		Name:       "bananapi-lhr050h41",
		Compatible: []string{"bananapi,lhr050h41", "ilitek,ili9881c"},
		Table:      bananapiTable,
		Mode: DisplayMode{
			Clock:      200000,
			HDisplay:   1280,
			HSyncStart: 1280 + 18,
			HSyncEnd:   1280 + 18 + 18,
			HTotal:     1280 + 18 + 18 + 18,
			VDisplay:   800,
			VSyncStart: 800 + 12,
			VSyncEnd:   800 + 12 + 4,
			VTotal:     800 + 12 + 4 + 8,
			VRefresh:   60,
			WidthMM:    62,
			HeightMM:   110,
			BusFormats: []BusFormat{BusFormatRGB888},
			Preferred:  true,
		},
		ExitSleepDelay: exitSleepDelay,
		DisplayOnDelay: displayOnDelay,
		Lanes:          4,
		Format:         PixelFormatRGB888,
		Flags:          ModeVideo | ModeVideoSyncPulse | ModeVideoHSE | ModeLPM,
	},
}

// Models returns the names of the built-in models, sorted.
func Models() []string {
	names := make([]string, 0, len(models))
	for name := range models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LookupModel finds a built-in model by name or compatible string. The
// returned model is a copy.
func LookupModel(name string) (*Model, error) {
	m, ok := models[name]
	if !ok {
		m, ok = lookupCompatible(name)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownModel, name)
	}

	c := *m
	c.Compatible = append([]string(nil), m.Compatible...)
	c.Mode = m.Mode.clone()
	return &c, nil
}

func lookupCompatible(compatible string) (*Model, bool) {
	for _, m := range models {
		for _, c := range m.Compatible {
			if c == compatible {
				return m, true
			}
		}
	}
	return nil, false
}

func atLeast(d, floor time.Duration) time.Duration {
	if d < floor {
		return floor
	}
	return d
}
