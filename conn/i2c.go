package conn

import (
	"fmt"
	"strconv"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
)

// I2C is a device on an I²C bus. It implements conn.Conn.
type I2C struct {
	bus  i2c.BusCloser
	dev  *i2c.Dev
	addr uint8
}

// OpenI2C opens the numbered I²C bus, use -1 to open the first available bus.
func OpenI2C(device int, addr uint8) (*I2C, error) {
	var (
		bus i2c.BusCloser
		err error
	)
	if device < 0 {
		bus, err = i2creg.Open("")
	} else {
		bus, err = i2creg.Open(strconv.FormatInt(int64(device), 10))
	}
	if err != nil {
		return nil, err
	}

	return &I2C{
		bus:  bus,
		dev:  &i2c.Dev{Bus: bus, Addr: uint16(addr)},
		addr: addr,
	}, nil
}

func (c *I2C) String() string {
	return fmt.Sprintf("I²C bus %s addr %#02x", c.bus, c.addr)
}

// Close the bus.
func (c *I2C) Close() error {
	return c.bus.Close()
}

// Tx writes w and then reads into r in a single transaction.
func (c *I2C) Tx(w, r []byte) error {
	return c.dev.Tx(w, r)
}

// Duplex implements conn.Conn.
func (c *I2C) Duplex() conn.Duplex {
	return conn.Half
}

var _ conn.Conn = (*I2C)(nil)
