package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"

	pconn "periph.io/x/conn/v3"
	"periph.io/x/host/v3"

	"github.com/BeatGlow/panel/conn"
	"github.com/BeatGlow/panel/dsi"
)

func main() {
	busFlag := flag.String("bus", "i2c", "Bridge bus (i2c or spi)")
	deviceFlag := flag.Int("device", -1, "I²C device or SPI chip select")
	addrFlag := flag.Uint("addr", 0x0f, "I²C address")
	spiBusFlag := flag.Int("spi-bus", 0, "SPI bus")
	channelFlag := flag.Uint("channel", 0, "DSI virtual channel")
	flag.Parse()

	if _, err := host.Init(); err != nil {
		log.Fatalln("host init failed:", err)
	}

	var (
		c   pconn.Conn
		err error
	)
	switch *busFlag {
	case "i2c":
		c, err = conn.OpenI2C(*deviceFlag, uint8(*addrFlag))
	case "spi":
		device := *deviceFlag
		if device < 0 {
			device = 0
		}
		c, err = conn.OpenSPI(*spiBusFlag, device, conn.SPIMode0, 8_000_000)
	default:
		err = fmt.Errorf("unsupported bus type %q", *busFlag)
	}
	if err != nil {
		log.Fatalln("open failed:", err)
	}
	defer c.(io.Closer).Close()

	link := dsi.NewLink(c, uint8(*channelFlag))
	fmt.Println("connected using", link)

	id := make([]byte, 3)
	if err = link.DCSRead(dsi.DCSGetDisplayID, id); err != nil {
		var ack *dsi.AckError
		if errors.As(err, &ack) {
			log.Fatalln("peripheral rejected the read:", ack)
		}
		log.Fatalln("read display ID failed:", err)
	}
	fmt.Printf("display ID: % x\n", id)

	mode := make([]byte, 1)
	if err = link.DCSRead(dsi.DCSGetPowerMode, mode); err != nil {
		log.Fatalln("read power mode failed:", err)
	}
	fmt.Printf("power mode: %#02x (sleep out: %t, display on: %t)\n", mode[0], mode[0]&0x10 != 0, mode[0]&0x04 != 0)
}
