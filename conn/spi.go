package conn

import (
	"fmt"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
)

// SPIMode is the clock polarity and phase.
type SPIMode uint8

// SPI modes.
const (
	SPIMode0 SPIMode = iota
	SPIMode1
	SPIMode2
	SPIMode3
)

// SPI is a device on a SPI port. It implements conn.Conn.
type SPI struct {
	port    spi.PortCloser
	conn    spi.Conn
	mode    SPIMode
	speedHz uint32
}

// OpenSPI opens the numbered spi bus with the numbered device. The device often corresponds to the CS pin for that bus.
// Use a negative bus to open the first available port.
func OpenSPI(bus, device int, mode SPIMode, speedHz uint32) (*SPI, error) {
	name := ""
	if bus >= 0 {
		name = fmt.Sprintf("SPI%d.%d", bus, device)
	}

	port, err := spireg.Open(name)
	if err != nil {
		return nil, err
	}

	c, err := port.Connect(physic.Frequency(speedHz)*physic.Hertz, spi.Mode(mode&0x03), 8)
	if err != nil {
		_ = port.Close()
		return nil, err
	}

	return &SPI{
		port:    port,
		conn:    c,
		mode:    mode & 0x03,
		speedHz: speedHz,
	}, nil
}

// Close the port.
func (c *SPI) Close() error {
	return c.port.Close()
}

func (c *SPI) String() string {
	return fmt.Sprintf("SPI %s mode=%d max speed=%dHz", c.port, c.mode, c.speedHz)
}

// Mode is the configured SPI mode.
func (c *SPI) Mode() SPIMode {
	return c.mode
}

// MaxSpeed is the configured clock speed.
func (c *SPI) MaxSpeed() int {
	return int(c.speedHz)
}

// Tx writes w while reading into r.
func (c *SPI) Tx(w, r []byte) error {
	return c.conn.Tx(w, r)
}

// Duplex implements conn.Conn.
func (c *SPI) Duplex() conn.Duplex {
	return c.conn.Duplex()
}

var _ conn.Conn = (*SPI)(nil)
