// Package framebuffer draws on a Linux frame buffer device (fbdev), the
// scan-out memory the display host exposes for an enabled panel.
package framebuffer

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/color"
)

// ErrFormat is returned for pixel layouts that can not be drawn on.
var ErrFormat = errors.New("framebuffer: unsupported pixel format")

// Field is the position of one color channel in a pixel.
type Field struct {
	Offset uint32
	Length uint32
}

// Format describes the pixel layout.
type Format struct {
	BitsPerPixel int
	Red          Field
	Green        Field
	Blue         Field
}

func (f Format) String() string {
	return fmt.Sprintf("%dbpp r%d:%d g%d:%d b%d:%d", f.BitsPerPixel,
		f.Red.Offset, f.Red.Length,
		f.Green.Offset, f.Green.Length,
		f.Blue.Offset, f.Blue.Length)
}

func (f Format) valid() bool {
	switch f.BitsPerPixel {
	case 16, 24, 32:
	default:
		return false
	}
	for _, c := range []Field{f.Red, f.Green, f.Blue} {
		if c.Length == 0 || c.Length > 8 || c.Offset+c.Length > uint32(f.BitsPerPixel) {
			return false
		}
	}
	return true
}

// Buffer is a frame buffer mapped in memory. It implements draw.Image.
type Buffer struct {
	Pix    []byte
	Stride int
	Rect   image.Rectangle
	Format Format
	close  func() error
}

// New wraps pix in a Buffer.
func New(pix []byte, width, height, stride int, format Format) (*Buffer, error) {
	if !format.valid() {
		return nil, fmt.Errorf("%w: %s", ErrFormat, format)
	}
	if stride < width*format.BitsPerPixel/8 || len(pix) < stride*height {
		return nil, fmt.Errorf("framebuffer: %d bytes too small for %dx%d (stride %d)", len(pix), width, height, stride)
	}
	return &Buffer{
		Pix:    pix,
		Stride: stride,
		Rect:   image.Rect(0, 0, width, height),
		Format: format,
	}, nil
}

func (b *Buffer) String() string {
	return fmt.Sprintf("frame buffer %s %s", b.Rect.Size(), b.Format)
}

// ColorModel returns the RGBA model.
func (b *Buffer) ColorModel() color.Model {
	return color.RGBAModel
}

// Bounds of the visible area.
func (b *Buffer) Bounds() image.Rectangle {
	return b.Rect
}

func (b *Buffer) offset(x, y int) int {
	return y*b.Stride + x*b.Format.BitsPerPixel/8
}

// At returns the color at (x, y).
func (b *Buffer) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}.In(b.Rect)) {
		return color.RGBA{}
	}
	v := b.load(b.offset(x, y))
	return color.RGBA{
		R: b.Format.Red.decode(v),
		G: b.Format.Green.decode(v),
		B: b.Format.Blue.decode(v),
		A: 0xff,
	}
}

// Set the color at (x, y).
func (b *Buffer) Set(x, y int, c color.Color) {
	if !(image.Point{X: x, Y: y}.In(b.Rect)) {
		return
	}
	r, g, bl, _ := c.RGBA()
	v := b.Format.Red.encode(r) | b.Format.Green.encode(g) | b.Format.Blue.encode(bl)
	b.store(b.offset(x, y), v)
}

// Fill the visible area with a single color.
func (b *Buffer) Fill(c color.Color) {
	for y := b.Rect.Min.Y; y < b.Rect.Max.Y; y++ {
		for x := b.Rect.Min.X; x < b.Rect.Max.X; x++ {
			b.Set(x, y, c)
		}
	}
}

// Close unmaps the buffer and closes the device.
func (b *Buffer) Close() error {
	if b.close == nil {
		return nil
	}
	return b.close()
}

func (b *Buffer) load(i int) uint32 {
	switch b.Format.BitsPerPixel {
	case 16:
		return uint32(binary.LittleEndian.Uint16(b.Pix[i:]))
	case 24:
		return uint32(b.Pix[i]) | uint32(b.Pix[i+1])<<8 | uint32(b.Pix[i+2])<<16
	default:
		return binary.LittleEndian.Uint32(b.Pix[i:])
	}
}

func (b *Buffer) store(i int, v uint32) {
	switch b.Format.BitsPerPixel {
	case 16:
		binary.LittleEndian.PutUint16(b.Pix[i:], uint16(v))
	case 24:
		b.Pix[i], b.Pix[i+1], b.Pix[i+2] = byte(v), byte(v>>8), byte(v>>16)
	default:
		binary.LittleEndian.PutUint32(b.Pix[i:], v)
	}
}

func (f Field) encode(c uint32) uint32 {
	return (c >> (16 - f.Length)) << f.Offset
}

func (f Field) decode(v uint32) uint8 {
	c := (v >> f.Offset) & (1<<f.Length - 1)
	// Replicate the top bits so full scale maps to 0xff.
	c <<= 8 - f.Length
	return uint8(c | c>>f.Length)
}
