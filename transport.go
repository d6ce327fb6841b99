package panel

import (
	"fmt"
	"io"

	pconn "periph.io/x/conn/v3"

	"github.com/BeatGlow/panel/conn"
	"github.com/BeatGlow/panel/dsi"
)

// WriteMode selects the packet framing of register writes.
type WriteMode uint8

// Write modes.
const (
	DCSWrite WriteMode = iota
	GenericWrite
)

func (m WriteMode) String() string {
	switch m {
	case DCSWrite:
		return "dcs"
	case GenericWrite:
		return "generic"
	default:
		return fmt.Sprintf("mode(%d)", m)
	}
}

// Transport moves register writes and reads to the panel controller. Calls
// block until the transfer completed.
type Transport interface {
	String() string

	// Close the transport.
	Close() error

	// Write sends data in a single transfer, data[0] is the command or
	// register address.
	Write(mode WriteMode, data []byte) error

	// Read fills buf with the response to the DCS command cmd.
	Read(cmd byte, buf []byte) error
}

// I2CConfig describes the I²C bus configuration of the DSI bridge.
type I2CConfig struct {
	// Device is the I²C device, use -1 to use the first available device.
	Device int

	// Addr is the I²C address.
	Addr uint8

	// Channel is the DSI virtual channel of the panel.
	Channel uint8
}

// DefaultI2CConfig are the default configuration values.
var DefaultI2CConfig = I2CConfig{
	Device: -1,
	Addr:   0x0f,
}

// OpenI2C opens a transport to a DSI bridge on an I²C bus.
func OpenI2C(config *I2CConfig) (Transport, error) {
	if config == nil {
		config = new(I2CConfig)
		*config = DefaultI2CConfig
	}

	c, err := conn.OpenI2C(config.Device, config.Addr)
	if err != nil {
		return nil, err
	}

	return NewTransport(c, config.Channel), nil
}

// SPIConfig describes the SPI bus configuration of the DSI bridge.
type SPIConfig struct {
	Bus     int
	Device  int
	Mode    uint8
	SpeedHz uint32
	Channel uint8
}

// DefaultSPIConfig are the default configuration values.
var DefaultSPIConfig = SPIConfig{
	Bus:     0,
	Device:  0,
	Mode:    0,
	SpeedHz: 8_000_000,
}

// ValidSPISpeeds are common valid SPI bus speeds.
var ValidSPISpeeds = []uint32{
	500_000,
	1_000_000,
	2_000_000,
	4_000_000,
	8_000_000,
	16_000_000,
	20_000_000,
	24_000_000,
	28_000_000,
	32_000_000,
	36_000_000,
	40_000_000,
	48_000_000,
	50_000_000,
	52_000_000,
}

// ValidSPISpeed checks if hz is one of the ValidSPISpeeds.
func ValidSPISpeed(hz uint32) bool {
	for _, speed := range ValidSPISpeeds {
		if speed == hz {
			return true
		}
	}
	return false
}

// OpenSPI opens a transport to a DSI bridge on a SPI bus.
func OpenSPI(config *SPIConfig) (Transport, error) {
	if config == nil {
		config = new(SPIConfig)
		*config = DefaultSPIConfig
	}

	if config.SpeedHz == 0 {
		config.SpeedHz = DefaultSPIConfig.SpeedHz
	}
	if !ValidSPISpeed(config.SpeedHz) {
		return nil, fmt.Errorf("panel: invalid SPI speed %dHz", config.SpeedHz)
	}

	c, err := conn.OpenSPI(config.Bus, config.Device, conn.SPIMode(config.Mode), config.SpeedHz)
	if err != nil {
		return nil, err
	}

	return NewTransport(c, config.Channel), nil
}

type dsiTransport struct {
	link *dsi.Link
	c    pconn.Conn
}

// NewTransport returns a Transport that frames writes as DSI packets on the
// virtual channel and sends them over c. Close closes c if it is an io.Closer.
func NewTransport(c pconn.Conn, channel uint8) Transport {
	return &dsiTransport{
		link: dsi.NewLink(c, channel),
		c:    c,
	}
}

func (t *dsiTransport) String() string {
	return t.link.String()
}

func (t *dsiTransport) Close() error {
	if closer, ok := t.c.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

func (t *dsiTransport) Write(mode WriteMode, data []byte) error {
	switch mode {
	case DCSWrite:
		return t.link.DCSWrite(data)
	case GenericWrite:
		return t.link.GenericWrite(data)
	default:
		return fmt.Errorf("panel: unsupported write mode %s", mode)
	}
}

func (t *dsiTransport) Read(cmd byte, buf []byte) error {
	return t.link.DCSRead(cmd, buf)
}
