package panel

import (
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegisters(table *CommandTable) (*registers, *fakeTransport, *timeline) {
	tl := new(timeline)
	tr := &fakeTransport{timeline: tl}
	return newRegisters(tr, table, zerolog.Nop()), tr, tl
}

func TestSwitchPage(t *testing.T) {
	r, _, tl := newTestRegisters(emptyTable)

	_, known := r.page.Page()
	assert.False(t, known, "page is unknown before the first switch")

	require.NoError(t, r.switchPage(1))
	page, known := r.page.Page()
	assert.True(t, known)
	assert.Equal(t, uint8(1), page)
	assert.Equal(t, "page 1", r.page.String())

	// Redundant switches are not elided.
	require.NoError(t, r.switchPage(1))
	assert.Equal(t, []string{
		"dcs ff 98 81 01",
		"dcs ff 98 81 01",
	}, tl.Events())
}

func TestSwitchPageSelector(t *testing.T) {
	r, _, tl := newTestRegisters(MustCommandTable(GenericWrite, JD9365PageSelector))

	require.NoError(t, r.switchPage(4))
	assert.Equal(t, []string{"generic e0 04"}, tl.Events())
}

func TestSwitchPageFailure(t *testing.T) {
	r, tr, _ := newTestRegisters(emptyTable)

	require.NoError(t, r.switchPage(2))
	tr.fail = func(int, []byte) error { return errBus }

	err := r.switchPage(3)
	var terr *TransportError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, "switch page", terr.Op)
	assert.Equal(t, []byte{0xff, 0x98, 0x81, 0x03}, terr.Data)
	assert.True(t, errors.Is(err, errBus))

	_, known := r.page.Page()
	assert.False(t, known, "a failed switch leaves the page unknown")
	assert.Equal(t, "unknown", r.page.String())
}

func TestWriteRegister(t *testing.T) {
	for n := 0; n <= MaxParams; n++ {
		r, _, tl := newTestRegisters(emptyTable)
		values := make([]byte, n)
		for i := range values {
			values[i] = byte(0xa0 + i)
		}

		require.NoError(t, r.writeRegister(0x42, values...))

		want := fmt.Sprintf("dcs % x", append([]byte{0x42}, values...))
		assert.Equal(t, []string{want}, tl.Events(), "%d parameters", n)
		_, known := r.page.Page()
		assert.False(t, known, "register writes never switch pages")
	}
}

func TestWriteRegisterFailure(t *testing.T) {
	r, tr, _ := newTestRegisters(emptyTable)
	tr.fail = func(int, []byte) error { return errBus }

	err := r.writeRegister(0x10, 0x01)
	var terr *TransportError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, []byte{0x10, 0x01}, terr.Data)
	assert.Equal(t, "panel: write register 10 01: bus error", err.Error())
}

func TestEnsurePage(t *testing.T) {
	r, tr, tl := newTestRegisters(emptyTable)

	require.NoError(t, r.ensurePage(0))
	require.NoError(t, r.ensurePage(0))
	require.NoError(t, r.ensurePage(1))
	assert.Equal(t, 2, tr.attempts)

	r.invalidate()
	require.NoError(t, r.ensurePage(1))
	assert.Equal(t, []string{
		"dcs ff 98 81 00",
		"dcs ff 98 81 01",
		"dcs ff 98 81 01",
	}, tl.Events())
}

func TestDCSUsesPageZero(t *testing.T) {
	r, _, tl := newTestRegisters(MustCommandTable(GenericWrite, nil))

	require.NoError(t, r.switchPage(5))
	require.NoError(t, r.exitSleep())
	require.NoError(t, r.displayOn())
	assert.Equal(t, []string{
		"generic ff 98 81 05",
		"generic ff 98 81 00",
		"dcs 11",
		"dcs 29",
	}, tl.Events())
}
