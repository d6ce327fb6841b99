package panel

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/gpio"
)

var (
	enableEvents = []string{
		"dcs ff 98 81 00",
		"dcs 11",
		"delay 120ms",
		"dcs 29",
		"delay 5ms",
		"dcs 51 ff 00",
	}
	disableEvents = []string{
		"dcs 51 00 00",
		"delay 10ms",
		"dcs 28",
		"delay 5ms",
		"dcs 10",
	}
)

func requireTransition(t *testing.T, err error, want Transition) *TransitionError {
	t.Helper()
	var terr *TransitionError
	require.ErrorAs(t, err, &terr)
	require.Equal(t, want, terr.Transition)
	return terr
}

func TestLifecycle(t *testing.T) {
	f := newFixture(t, Config{})
	p := f.panel
	assert.Equal(t, Unprepared, p.State())

	require.NoError(t, p.Prepare())
	assert.Equal(t, Prepared, p.State())
	assert.Equal(t, powerUpEvents, f.timeline.Events())

	f.timeline.Reset()
	require.NoError(t, p.Prepare())
	assert.Empty(t, f.timeline.Events(), "prepare is idempotent")

	require.NoError(t, p.Enable())
	assert.Equal(t, Enabled, p.State())
	assert.Equal(t, enableEvents, f.timeline.Events())

	f.timeline.Reset()
	require.NoError(t, p.Enable())
	require.NoError(t, p.Prepare())
	assert.Empty(t, f.timeline.Events(), "enable is idempotent")

	require.NoError(t, p.Disable())
	assert.Equal(t, Disabled, p.State())
	assert.Equal(t, disableEvents, f.timeline.Events())

	f.timeline.Reset()
	require.NoError(t, p.Disable())
	assert.Empty(t, f.timeline.Events(), "disable is idempotent")

	require.NoError(t, p.Unprepare())
	assert.Equal(t, Unprepared, p.State())
	assert.Equal(t, powerDownEvents, f.timeline.Events(), "sleep was entered on disable")

	f.timeline.Reset()
	require.NoError(t, p.Unprepare())
	require.NoError(t, p.Disable())
	assert.Empty(t, f.timeline.Events(), "unprepare is idempotent")
}

func TestEnableEmptyTable(t *testing.T) {
	f := newFixture(t, Config{Table: emptyTable})
	f.panel.bl.pin = f.backlight

	require.NoError(t, f.panel.Prepare())
	f.timeline.Reset()
	require.NoError(t, f.panel.Enable())
	assert.Equal(t, concat(enableEvents, []string{"backlight=High"}), f.timeline.Events())
	assert.True(t, f.panel.bl.on)
}

func TestEnableReplaysOnce(t *testing.T) {
	f := newFixture(t, Config{Table: tenEntries})

	require.NoError(t, f.panel.Prepare())
	f.timeline.Reset()
	require.NoError(t, f.panel.Enable())
	require.NoError(t, f.panel.Enable())

	events := f.timeline.Events()
	assert.Equal(t, 1, count(events, "dcs 10 00"))
	assert.Equal(t, 1, count(events, "dcs 11"))
	assert.Zero(t, count(events, "reset=Low")+count(events, "reset=High")+count(events, "power=High"))
}

func TestEnableNotPrepared(t *testing.T) {
	f := newFixture(t, Config{})

	err := f.panel.Enable()
	requireTransition(t, err, TransitionEnable)
	assert.ErrorIs(t, err, ErrNotPrepared)
	assert.Equal(t, "panel: enable failed: panel: not prepared", err.Error())
	assert.Equal(t, Unprepared, f.panel.State())
	assert.Empty(t, f.timeline.Events())
}

func TestReenableRefused(t *testing.T) {
	f := newFixture(t, Config{})
	require.NoError(t, f.panel.Prepare())
	require.NoError(t, f.panel.Enable())
	require.NoError(t, f.panel.Disable())
	f.timeline.Reset()

	err := f.panel.Enable()
	requireTransition(t, err, TransitionEnable)
	assert.ErrorIs(t, err, ErrReenable)
	assert.Equal(t, Disabled, f.panel.State())
	assert.Empty(t, f.timeline.Events())
}

func TestEnableFailureHoldsReset(t *testing.T) {
	f := newFixture(t, Config{Table: tenEntries})
	f.transport.fail = failData("14 04", RetryBudget)
	require.NoError(t, f.panel.Prepare())
	f.timeline.Reset()

	err := f.panel.Enable()
	requireTransition(t, err, TransitionEnable)
	var cerr *CommandWriteError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, 5, cerr.Index)
	assert.Equal(t, Prepared, f.panel.State())

	events := f.timeline.Events()
	assert.Equal(t, "reset=Low", events[len(events)-1], "reset is held after a failed enable")
	assert.Zero(t, count(events, "dcs 15 05"))
	assert.Zero(t, count(events, "dcs 11"))

	// The next enable releases reset and replays from the start.
	f.timeline.Reset()
	require.NoError(t, f.panel.Enable())
	assert.Equal(t, Enabled, f.panel.State())
	events = f.timeline.Events()
	assert.Equal(t, []string{
		"reset=High",
		"delay 120ms",
		"dcs ff 98 81 01",
		"dcs 10 00",
	}, events[:4])
	assert.Equal(t, 1, count(events, "dcs 14 04"))
}

func TestReplayOnPrepare(t *testing.T) {
	f := newFixture(t, Config{Table: tenEntries, ReplayOnPrepare: true})

	require.NoError(t, f.panel.Prepare())
	events := f.timeline.Events()
	assert.Equal(t, powerUpEvents, events[:len(powerUpEvents)])
	assert.Equal(t, "dcs ff 98 81 01", events[len(powerUpEvents)])
	assert.Len(t, events, len(powerUpEvents)+tenEntries.Len())

	f.timeline.Reset()
	require.NoError(t, f.panel.Enable())
	events = f.timeline.Events()
	assert.Zero(t, count(events, "dcs 10 00"), "the table was replayed on prepare")
	assert.Equal(t, []string{"dcs 11", "delay 120ms", "dcs 29", "delay 5ms", "dcs 51 ff 00"}, events)
}

func TestReplayOnPrepareFailure(t *testing.T) {
	f := newFixture(t, Config{Table: tenEntries, ReplayOnPrepare: true})
	f.transport.fail = failData("13 03", RetryBudget)

	err := f.panel.Prepare()
	requireTransition(t, err, TransitionPrepare)
	var cerr *CommandWriteError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, 4, cerr.Index)
	assert.Equal(t, Unprepared, f.panel.State())

	events := f.timeline.Events()
	assert.Equal(t, powerDownEvents, events[len(events)-len(powerDownEvents):])
}

func TestDisableFailure(t *testing.T) {
	f := newFixture(t, Config{})
	require.NoError(t, f.panel.Prepare())
	require.NoError(t, f.panel.Enable())
	f.transport.fail = failData("28", 1)
	f.timeline.Reset()

	err := f.panel.Disable()
	requireTransition(t, err, TransitionDisable)
	assert.ErrorIs(t, err, errBus)
	assert.Equal(t, Enabled, f.panel.State())
	assert.False(t, f.panel.bl.on, "backlight stays off")
	assert.Zero(t, count(f.timeline.Events(), "dcs 10"), "steps after the failure are skipped")

	f.timeline.Reset()
	require.NoError(t, f.panel.Unprepare())
	assert.Equal(t, concat([]string{"dcs 10"}, powerDownEvents), f.timeline.Events())
}

func TestUnprepareFromEnabled(t *testing.T) {
	f := newFixture(t, Config{})
	require.NoError(t, f.panel.Prepare())
	require.NoError(t, f.panel.Enable())
	f.timeline.Reset()

	require.NoError(t, f.panel.Unprepare())
	assert.Equal(t, Unprepared, f.panel.State())
	assert.Equal(t, concat([]string{"dcs 51 00 00", "dcs 10"}, powerDownEvents), f.timeline.Events())
}

func TestUnprepareFromPrepared(t *testing.T) {
	f := newFixture(t, Config{})
	require.NoError(t, f.panel.Prepare())
	f.timeline.Reset()

	require.NoError(t, f.panel.Unprepare())
	assert.Equal(t, powerDownEvents, f.timeline.Events(), "the controller never left sleep")
}

func TestUnprepareAlwaysPowersDown(t *testing.T) {
	f := newFixture(t, Config{})
	require.NoError(t, f.panel.Prepare())
	require.NoError(t, f.panel.Enable())
	f.transport.fail = func(int, []byte) error { return errBus }
	f.timeline.Reset()

	err := f.panel.Unprepare()
	requireTransition(t, err, TransitionUnprepare)
	assert.ErrorIs(t, err, errBus)
	var terr *TransportError
	assert.ErrorAs(t, err, &terr)
	assert.Equal(t, Unprepared, f.panel.State())
	assert.Equal(t, concat([]string{"dcs 51 00 00 failed", "dcs 10 failed"}, powerDownEvents), f.timeline.Events())
	assert.Equal(t, gpio.Low, f.power.L)
}

func TestUnprepareGpioFailure(t *testing.T) {
	f := newFixture(t, Config{})
	require.NoError(t, f.panel.Prepare())
	f.reset.fail = errBus

	err := f.panel.Unprepare()
	requireTransition(t, err, TransitionUnprepare)
	assert.Equal(t, Unprepared, f.panel.State())
	assert.Equal(t, gpio.Low, f.power.L)
}

func TestMissingGpioLineBlocksPrepare(t *testing.T) {
	f := newFixture(t, Config{Reset: gpio.INVALID})

	err := f.panel.Prepare()
	requireTransition(t, err, TransitionPrepare)
	assert.ErrorIs(t, err, ErrMissingGpioLine)
	assert.Equal(t, Unprepared, f.panel.State())
	assert.Empty(t, f.timeline.Events())

	assert.ErrorIs(t, f.panel.Enable(), ErrNotPrepared)
	assert.NoError(t, f.panel.Unprepare())
}

func TestPrepareFromDisabled(t *testing.T) {
	f := newFixture(t, Config{Table: tenEntries})
	require.NoError(t, f.panel.Prepare())
	require.NoError(t, f.panel.Enable())
	require.NoError(t, f.panel.Disable())
	f.timeline.Reset()

	require.NoError(t, f.panel.Prepare())
	assert.Equal(t, Prepared, f.panel.State())
	assert.Equal(t, concat(powerDownEvents, powerUpEvents), f.timeline.Events())

	f.timeline.Reset()
	require.NoError(t, f.panel.Enable())
	assert.Equal(t, 1, count(f.timeline.Events(), "dcs 10 00"), "the table is replayed after a power cycle")
}

func TestPrepareFailure(t *testing.T) {
	f := newFixture(t, Config{})
	f.power.fail = errBus

	err := f.panel.Prepare()
	requireTransition(t, err, TransitionPrepare)
	assert.ErrorIs(t, err, errBus)
	assert.Equal(t, Unprepared, f.panel.State())
}

func TestClose(t *testing.T) {
	f := newFixture(t, Config{})
	require.NoError(t, f.panel.Prepare())
	require.NoError(t, f.panel.Enable())

	f.timeline.Reset()
	require.NoError(t, f.panel.Close())
	assert.True(t, f.transport.closed)
	assert.Equal(t, Unprepared, f.panel.State())
	assert.Equal(t, concat(disableEvents, powerDownEvents), f.timeline.Events())

	f.transport.closeErr = errors.New("close")
	assert.Error(t, f.panel.Close())
}

func TestCloseDisableFailure(t *testing.T) {
	f := newFixture(t, Config{})
	require.NoError(t, f.panel.Prepare())
	require.NoError(t, f.panel.Enable())
	f.timeline.Reset()
	f.transport.fail = failData("28", RetryBudget)

	err := f.panel.Close()
	requireTransition(t, err, TransitionDisable)
	assert.ErrorIs(t, err, errBus)
	assert.True(t, f.transport.closed)
	assert.Equal(t, Unprepared, f.panel.State())
	assert.Equal(t, concat(
		[]string{"dcs 51 00 00", "delay 10ms", "dcs 28 failed", "dcs 10"},
		powerDownEvents,
	), f.timeline.Events())
}

func TestClosePrepared(t *testing.T) {
	f := newFixture(t, Config{})
	require.NoError(t, f.panel.Prepare())
	f.timeline.Reset()

	require.NoError(t, f.panel.Close())
	assert.Equal(t, powerDownEvents, f.timeline.Events())
	assert.Equal(t, Unprepared, f.panel.State())
}

func TestModelExitSleepDelay(t *testing.T) {
	f := newFixture(t, Config{Model: "zhunyi-gh8555bl", Table: emptyTable})
	require.NoError(t, f.panel.Prepare())
	f.timeline.Reset()

	require.NoError(t, f.panel.Enable())
	assert.Equal(t, []string{"dcs ff 98 81 00", "dcs 11", "delay 200ms"}, f.timeline.Events()[:3])
}

func TestModelDisplayOnDelay(t *testing.T) {
	f := newFixture(t, Config{Model: "zhunyi-gh8555bl", Table: emptyTable})
	require.NoError(t, f.panel.Prepare())
	f.timeline.Reset()

	require.NoError(t, f.panel.Enable())
	assert.Equal(t, []string{
		"dcs ff 98 81 00",
		"dcs 11",
		"delay 200ms",
		"dcs 29",
		"delay 100ms",
		"dcs 51 ff 00",
	}, f.timeline.Events())
}

// All public methods share one lock, run with -race.
func TestConcurrentUse(t *testing.T) {
	f := newFixture(t, Config{})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for n := 0; n < 50; n++ {
				_ = f.panel.Prepare()
				_ = f.panel.Enable()
				_ = f.panel.SetBrightness(uint16(i + n))
				_, _ = f.panel.Brightness()
				_ = f.panel.State()
				_ = f.panel.Disable()
				_ = f.panel.Unprepare()
			}
		}(i)
	}
	wg.Wait()

	require.NoError(t, f.panel.Unprepare())
	assert.Equal(t, Unprepared, f.panel.State())
	assert.Equal(t, gpio.Low, f.power.L)
}

func TestModes(t *testing.T) {
	f := newFixture(t, Config{Model: "yeebo-ili9881c"})

	modes := f.panel.Modes()
	require.Len(t, modes, 1)
	assert.Equal(t, "800x1280@60", modes[0].String())
	assert.Equal(t, 68587, modes[0].Clock)
	assert.Equal(t, 120, modes[0].WidthMM)

	// Callers can not modify the model.
	modes[0].BusFormats[0] = 0
	assert.Equal(t, BusFormatRGB888, f.panel.Modes()[0].BusFormats[0])

	assert.Nil(t, newFixture(t, Config{}).panel.Modes())
}

func TestNew(t *testing.T) {
	tr := &fakeTransport{timeline: new(timeline)}

	_, err := New(tr, &Config{Model: "nope"})
	assert.ErrorIs(t, err, ErrUnknownModel)

	_, err = New(tr, &Config{})
	assert.ErrorIs(t, err, ErrUnknownModel)

	_, err = New(nil, &Config{Table: emptyTable})
	assert.Error(t, err)

	_, err = New(tr, nil)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnknownModel)

	_, err = New(tr, &Config{Table: emptyTable, MaxBrightness: 100, Brightness: brightness(101)})
	assert.ErrorIs(t, err, ErrBrightnessRange)

	p, err := New(tr, &Config{Model: "bananapi,lhr050h41"})
	require.NoError(t, err)
	assert.Equal(t, "bananapi-lhr050h41 panel on fake", p.String())
	assert.Equal(t, uint16(DefaultMaxBrightness), p.MaxBrightness())
	assert.ErrorIs(t, p.Prepare(), ErrMissingGpioLine)
}

func count(events []string, event string) (n int) {
	for _, e := range events {
		if e == event {
			n++
		}
	}
	return
}
