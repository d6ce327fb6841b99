// Package dsi encodes and decodes MIPI DSI command mode packets.
//
// Packets are framed for a DSI bridge that forwards them unchanged onto the
// link: a short packet is the data identifier, two data bytes and the header
// ECC; a long packet is the data identifier, the little endian word count, the
// header ECC, the payload and a CRC-16 checksum.
package dsi

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Errors
var (
	ErrShortPacket   = errors.New("dsi: packet too short")
	ErrECC           = errors.New("dsi: header ECC mismatch")
	ErrChecksum      = errors.New("dsi: payload checksum mismatch")
	ErrPayloadSize   = errors.New("dsi: payload too large")
	ErrEmptyCommand  = errors.New("dsi: empty command")
	ErrUnexpected    = errors.New("dsi: unexpected response")
	ErrResponseShort = errors.New("dsi: short read response")
)

// DataType is the data type field of a packet's data identifier.
type DataType uint8

// Data types used for command mode.
const (
	GenericShortWrite0     DataType = 0x03
	GenericShortWrite1     DataType = 0x13
	GenericShortWrite2     DataType = 0x23
	GenericRead0           DataType = 0x04
	GenericRead1           DataType = 0x14
	GenericRead2           DataType = 0x24
	DCSShortWrite0         DataType = 0x05
	DCSShortWrite1         DataType = 0x15
	DCSRead                DataType = 0x06
	EndOfTransmission      DataType = 0x08
	NullPacket             DataType = 0x09
	SetMaxReturnPacketSize DataType = 0x37
	GenericLongWrite       DataType = 0x29
	DCSLongWrite           DataType = 0x39

	// Peripheral to host.
	AckErrorReport            DataType = 0x02
	EndOfTransmissionResponse DataType = 0x08
	GenericShortReadResponse1 DataType = 0x11
	GenericShortReadResponse2 DataType = 0x12
	GenericLongReadResponse   DataType = 0x1a
	DCSLongReadResponse       DataType = 0x1c
	DCSShortReadResponse1     DataType = 0x21
	DCSShortReadResponse2     DataType = 0x22
)

// IsLong reports if packets of this type carry a word count and payload.
func (t DataType) IsLong() bool {
	switch t {
	case NullPacket, 0x19, GenericLongWrite, DCSLongWrite, GenericLongReadResponse, DCSLongReadResponse,
		0x0c, 0x0e, 0x1e, 0x2e, 0x3e:
		return true
	default:
		return false
	}
}

func (t DataType) String() string {
	switch t {
	case GenericShortWrite0, GenericShortWrite1, GenericShortWrite2:
		return fmt.Sprintf("generic short write (%#02x)", uint8(t))
	case GenericRead0, GenericRead1, GenericRead2:
		return fmt.Sprintf("generic read (%#02x)", uint8(t))
	case DCSShortWrite0, DCSShortWrite1:
		return fmt.Sprintf("DCS short write (%#02x)", uint8(t))
	case DCSRead:
		return "DCS read"
	case SetMaxReturnPacketSize:
		return "set maximum return packet size"
	case GenericLongWrite:
		return "generic long write"
	case DCSLongWrite:
		return "DCS long write"
	case AckErrorReport:
		return "acknowledge and error report"
	case GenericShortReadResponse1, GenericShortReadResponse2:
		return "generic short read response"
	case GenericLongReadResponse:
		return "generic long read response"
	case DCSLongReadResponse:
		return "DCS long read response"
	case DCSShortReadResponse1, DCSShortReadResponse2:
		return "DCS short read response"
	default:
		return fmt.Sprintf("data type %#02x", uint8(t))
	}
}

// DCS commands.
const (
	DCSNop               = 0x00
	DCSSoftReset         = 0x01
	DCSGetDisplayID      = 0x04
	DCSGetPowerMode      = 0x0a
	DCSEnterSleepMode    = 0x10
	DCSExitSleepMode     = 0x11
	DCSSetDisplayOff     = 0x28
	DCSSetDisplayOn      = 0x29
	DCSSetBrightness     = 0x51
	DCSGetBrightness     = 0x52
	DCSWriteControl      = 0x53
	DCSGetControlDisplay = 0x54
)

// MaxPayload is the largest payload a long packet's word count can describe.
const MaxPayload = 0xffff

// Packet is a single DSI packet.
type Packet struct {
	// Channel is the virtual channel (0-3).
	Channel uint8

	// Type is the data type.
	Type DataType

	// Data holds the two data bytes of a short packet.
	Data [2]byte

	// Payload of a long packet.
	Payload []byte
}

// ShortPacket returns a short packet carrying d0 and d1.
func ShortPacket(channel uint8, t DataType, d0, d1 byte) Packet {
	return Packet{Channel: channel & 0x03, Type: t, Data: [2]byte{d0, d1}}
}

// LongPacket returns a long packet carrying payload.
func LongPacket(channel uint8, t DataType, payload []byte) Packet {
	return Packet{Channel: channel & 0x03, Type: t, Payload: payload}
}

// ID is the data identifier byte.
func (p Packet) ID() byte {
	return p.Channel<<6 | uint8(p.Type)&0x3f
}

// Len is the encoded size.
func (p Packet) Len() int {
	if p.Type.IsLong() {
		return 4 + len(p.Payload) + 2
	}
	return 4
}

// Marshal encodes the packet.
func (p Packet) Marshal() ([]byte, error) {
	if len(p.Payload) > MaxPayload {
		return nil, ErrPayloadSize
	}

	b := make([]byte, p.Len())
	b[0] = p.ID()
	if p.Type.IsLong() {
		binary.LittleEndian.PutUint16(b[1:], uint16(len(p.Payload)))
		copy(b[4:], p.Payload)
		binary.LittleEndian.PutUint16(b[4+len(p.Payload):], Checksum(p.Payload))
	} else {
		b[1], b[2] = p.Data[0], p.Data[1]
	}
	b[3] = ECC(header(b))
	return b, nil
}

func (p Packet) String() string {
	if p.Type.IsLong() {
		return fmt.Sprintf("vc%d %s [% x]", p.Channel, p.Type, p.Payload)
	}
	return fmt.Sprintf("vc%d %s %02x %02x", p.Channel, p.Type, p.Data[0], p.Data[1])
}

// Unmarshal decodes a packet from b. Trailing bytes after the packet are
// ignored, the packet's length is returned.
func Unmarshal(b []byte) (Packet, int, error) {
	if len(b) < 4 {
		return Packet{}, 0, ErrShortPacket
	}
	if ECC(header(b)) != b[3]&0x3f {
		return Packet{}, 0, fmt.Errorf("%w: header % x", ErrECC, b[:4])
	}

	p := Packet{
		Channel: b[0] >> 6,
		Type:    DataType(b[0] & 0x3f),
	}
	if !p.Type.IsLong() {
		p.Data = [2]byte{b[1], b[2]}
		return p, 4, nil
	}

	size := int(binary.LittleEndian.Uint16(b[1:]))
	if len(b) < 4+size+2 {
		return Packet{}, 0, fmt.Errorf("%w: word count %d, have %d bytes", ErrShortPacket, size, len(b)-4)
	}
	p.Payload = append([]byte(nil), b[4:4+size]...)
	if sum := binary.LittleEndian.Uint16(b[4+size:]); sum != Checksum(p.Payload) {
		return Packet{}, 0, fmt.Errorf("%w: got %#04x, want %#04x", ErrChecksum, sum, Checksum(p.Payload))
	}
	return p, 4 + size + 2, nil
}

func header(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16
}

// Parity masks over the 24 header bits, D0 is the LSB of the data identifier.
var eccMasks = [6]uint32{
	0xf12cb7,
	0xf2555b,
	0x749a6d,
	0xb8e38e,
	0xdf03f0,
	0xeffc00,
}

// ECC computes the 6-bit Hamming code of a 24-bit packet header.
func ECC(h uint32) byte {
	var ecc byte
	for i, mask := range eccMasks {
		ecc |= byte(parity(h&mask)) << i
	}
	return ecc
}

func parity(v uint32) uint32 {
	v ^= v >> 16
	v ^= v >> 8
	v ^= v >> 4
	v ^= v >> 2
	v ^= v >> 1
	return v & 1
}

// Checksum is the CRC-16 of a long packet payload: reflected polynomial
// x^16+x^12+x^5+1, seeded with 0xffff and no final inversion.
func Checksum(data []byte) uint16 {
	crc := uint16(0xffff)
	for _, b := range data {
		crc ^= uint16(b)
		for i := 0; i < 8; i++ {
			if crc&1 == 1 {
				crc = crc>>1 ^ 0x8408
			} else {
				crc >>= 1
			}
		}
	}
	return crc
}

// AckError is an acknowledge and error report sent by the peripheral.
type AckError struct {
	Report uint16
}

var ackErrorBits = [16]string{
	"SoT error",
	"SoT sync error",
	"EoT sync error",
	"escape mode entry command error",
	"low-power transmit sync error",
	"peripheral timeout error",
	"false control error",
	"contention detected",
	"ECC error, single-bit",
	"ECC error, multi-bit",
	"checksum error",
	"DSI data type not recognized",
	"DSI VC ID invalid",
	"invalid transmission length",
	"reserved",
	"DSI protocol violation",
}

func (e *AckError) Error() string {
	var s string
	for i, name := range ackErrorBits {
		if e.Report&(1<<i) != 0 {
			if s != "" {
				s += ", "
			}
			s += name
		}
	}
	if s == "" {
		s = "no error bits set"
	}
	return fmt.Sprintf("dsi: peripheral reported %#04x (%s)", e.Report, s)
}
