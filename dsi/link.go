package dsi

import (
	"encoding/binary"
	"fmt"

	"periph.io/x/conn/v3"
)

// Link sends DSI command packets on one virtual channel through a bridge
// reachable over c. Every packet is a single transaction on c.
type Link struct {
	c       conn.Conn
	channel uint8
}

// NewLink returns a link on the virtual channel over c.
func NewLink(c conn.Conn, channel uint8) *Link {
	return &Link{
		c:       c,
		channel: channel & 0x03,
	}
}

func (l *Link) String() string {
	return fmt.Sprintf("DSI vc%d via %s", l.channel, l.c)
}

// Channel is the virtual channel.
func (l *Link) Channel() uint8 {
	return l.channel
}

// DCSWrite sends a DCS command with its parameters, data[0] is the command.
// The short packet types are used for up to one parameter.
func (l *Link) DCSWrite(data []byte) error {
	var p Packet
	switch len(data) {
	case 0:
		return ErrEmptyCommand
	case 1:
		p = ShortPacket(l.channel, DCSShortWrite0, data[0], 0)
	case 2:
		p = ShortPacket(l.channel, DCSShortWrite1, data[0], data[1])
	default:
		p = LongPacket(l.channel, DCSLongWrite, data)
	}
	return l.Send(p)
}

// GenericWrite sends data as a generic write.
func (l *Link) GenericWrite(data []byte) error {
	var p Packet
	switch len(data) {
	case 0:
		p = ShortPacket(l.channel, GenericShortWrite0, 0, 0)
	case 1:
		p = ShortPacket(l.channel, GenericShortWrite1, data[0], 0)
	case 2:
		p = ShortPacket(l.channel, GenericShortWrite2, data[0], data[1])
	default:
		p = LongPacket(l.channel, GenericLongWrite, data)
	}
	return l.Send(p)
}

// SetMaxReturnPacketSize limits the size of the peripheral's read responses.
func (l *Link) SetMaxReturnPacketSize(size uint16) error {
	return l.Send(ShortPacket(l.channel, SetMaxReturnPacketSize, byte(size), byte(size>>8)))
}

// DCSRead reads len(buf) bytes returned by the DCS command cmd.
func (l *Link) DCSRead(cmd byte, buf []byte) error {
	if len(buf) == 0 {
		return nil
	}
	if len(buf) > MaxPayload {
		return ErrPayloadSize
	}
	if err := l.SetMaxReturnPacketSize(uint16(len(buf))); err != nil {
		return err
	}

	// Short responses carry up to two bytes, longer ones come as a long packet.
	size := 4
	if len(buf) > 2 {
		size = 4 + len(buf) + 2
	}
	r := make([]byte, size)
	w, err := ShortPacket(l.channel, DCSRead, cmd, 0).Marshal()
	if err != nil {
		return err
	}
	if err = l.c.Tx(w, r); err != nil {
		return err
	}

	p, _, err := Unmarshal(r)
	if err != nil {
		return err
	}

	var data []byte
	switch p.Type {
	case AckErrorReport:
		return &AckError{Report: binary.LittleEndian.Uint16(p.Data[:])}
	case DCSShortReadResponse1:
		data = p.Data[:1]
	case DCSShortReadResponse2:
		data = p.Data[:2]
	case DCSLongReadResponse:
		data = p.Payload
	default:
		return fmt.Errorf("%w: %s", ErrUnexpected, p.Type)
	}
	if len(data) < len(buf) {
		return fmt.Errorf("%w: got %d of %d bytes", ErrResponseShort, len(data), len(buf))
	}
	copy(buf, data)
	return nil
}

// Send encodes and transmits a packet that expects no response.
func (l *Link) Send(p Packet) error {
	b, err := p.Marshal()
	if err != nil {
		return err
	}
	return l.c.Tx(b, nil)
}
