package panel

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
)

var errBus = errors.New("bus error")

// timeline records GPIO changes, delays and transport writes in order.
type timeline struct {
	mu     sync.Mutex
	events []string
}

func (tl *timeline) add(format string, args ...interface{}) {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	tl.events = append(tl.events, fmt.Sprintf(format, args...))
}

func (tl *timeline) delay(d time.Duration) {
	tl.add("delay %s", d)
}

func (tl *timeline) Events() []string {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	return append([]string(nil), tl.events...)
}

func (tl *timeline) Reset() {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	tl.events = nil
}

// recordingPin is a fake GPIO line that logs every change to a timeline.
type recordingPin struct {
	gpiotest.Pin
	timeline *timeline
	fail     error
}

func newPin(tl *timeline, name string, number int) *recordingPin {
	return &recordingPin{
		Pin:      gpiotest.Pin{N: name, Num: number, Fn: "Out/Low"},
		timeline: tl,
	}
}

func (p *recordingPin) Out(l gpio.Level) error {
	if p.fail != nil {
		p.timeline.add("%s=%s failed", p.N, l)
		return p.fail
	}
	p.timeline.add("%s=%s", p.N, l)
	return p.Pin.Out(l)
}

// fakeTransport records writes to a timeline and fails on demand.
type fakeTransport struct {
	timeline *timeline
	attempts int

	// fail is consulted for every write, attempt counts from 0.
	fail func(attempt int, data []byte) error

	readData []byte
	readErr  error
	reads    []byte

	closed   bool
	closeErr error
}

func (f *fakeTransport) String() string { return "fake" }

func (f *fakeTransport) Close() error {
	f.closed = true
	return f.closeErr
}

func (f *fakeTransport) Write(mode WriteMode, data []byte) error {
	attempt := f.attempts
	f.attempts++
	if f.fail != nil {
		if err := f.fail(attempt, data); err != nil {
			f.timeline.add("%s % x failed", mode, data)
			return err
		}
	}
	f.timeline.add("%s % x", mode, data)
	return nil
}

func (f *fakeTransport) Read(cmd byte, buf []byte) error {
	f.reads = append(f.reads, cmd)
	if f.readErr != nil {
		return f.readErr
	}
	copy(buf, f.readData)
	f.timeline.add("read %02x", cmd)
	return nil
}

// failData fails the first n writes of data.
func failData(data string, n int) func(int, []byte) error {
	var seen int
	return func(_ int, b []byte) error {
		if fmt.Sprintf("% x", b) == data {
			seen++
			if seen <= n {
				return errBus
			}
		}
		return nil
	}
}

type fixture struct {
	timeline  *timeline
	transport *fakeTransport
	power     *recordingPin
	reset     *recordingPin
	backlight *recordingPin
	panel     *sequencer
}

var emptyTable = MustCommandTable(DCSWrite, nil)

func brightness(level uint16) *uint16 {
	return &level
}

func newFixture(t *testing.T, config Config) *fixture {
	t.Helper()

	tl := new(timeline)
	f := &fixture{
		timeline:  tl,
		transport: &fakeTransport{timeline: tl},
		power:     newPin(tl, "power", 1),
		reset:     newPin(tl, "reset", 2),
		backlight: newPin(tl, "backlight", 3),
	}
	if config.Power == nil {
		config.Power = f.power
	}
	if config.Reset == nil {
		config.Reset = f.reset
	}
	if config.Model == "" && config.Table == nil {
		config.Table = emptyTable
	}
	config.Delay = tl.delay
	logger := zerolog.Nop()
	config.Logger = &logger

	p, err := New(f.transport, &config)
	require.NoError(t, err)
	f.panel = p.(*sequencer)
	return f
}

// Expected GPIO patterns with an active low reset line.
var (
	powerUpEvents = []string{
		"power=High",
		"delay 20ms",
		"reset=Low",
		"delay 20ms",
		"reset=High",
		"delay 120ms",
	}
	powerDownEvents = []string{
		"reset=Low",
		"delay 20ms",
		"power=Low",
		"delay 2ms",
	}
)

func concat(parts ...[]string) []string {
	var all []string
	for _, part := range parts {
		all = append(all, part...)
	}
	return all
}
