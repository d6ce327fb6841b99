package framebuffer

import (
	"os"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/BeatGlow/panel/internal/ioctl"
)

// From <linux/fb.h>
const (
	fbioGetVScreenInfo ioctl.Command = 0x4600
	fbioGetFScreenInfo ioctl.Command = 0x4602
)

// Open a Linux frame buffer device by name, typically /dev/fb[0..x].
func Open(name string) (*Buffer, error) {
	f, err := os.OpenFile(name, os.O_RDWR, os.ModeDevice)
	if err != nil {
		return nil, err
	}

	var (
		fix fixScreenInfo
		v   varScreenInfo
	)
	if err = ioctl.Do(f.Fd(), fbioGetFScreenInfo, unsafe.Pointer(&fix)); err != nil {
		_ = f.Close()
		return nil, err
	}
	if err = ioctl.Do(f.Fd(), fbioGetVScreenInfo, unsafe.Pointer(&v)); err != nil {
		_ = f.Close()
		return nil, err
	}

	pix, err := unix.Mmap(int(f.Fd()), 0, int(fix.SmemLen), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	// Skip to the visible area of a panned buffer.
	start := int(v.Yoffset)*int(fix.LineLength) + int(v.Xoffset)*int(v.BitsPerPixel)/8
	if start > len(pix) {
		start = len(pix)
	}
	b, err := New(pix[start:], int(v.Xres), int(v.Yres), int(fix.LineLength), Format{
		BitsPerPixel: int(v.BitsPerPixel),
		Red:          Field{Offset: v.Red.Offset, Length: v.Red.Length},
		Green:        Field{Offset: v.Green.Offset, Length: v.Green.Length},
		Blue:         Field{Offset: v.Blue.Offset, Length: v.Blue.Length},
	})
	if err != nil {
		_ = unix.Munmap(pix)
		_ = f.Close()
		return nil, err
	}
	b.close = func() error {
		if err := unix.Munmap(pix); err != nil {
			_ = f.Close()
			return err
		}
		return f.Close()
	}
	return b, nil
}

type fixScreenInfo struct {
	ID         [16]byte  // Identification string eg "TT Builtin"
	SmemStart  uintptr   // Start of frame buffer mem
	SmemLen    uint32    // Length of frame buffer mem
	Type       uint32    // FB_TYPE_
	TypeAux    uint32    // Interleave for interleaved Planes
	Visual     uint32    // FB_VISUAL_
	Xpanstep   uint16    // Zero if no hardware panning
	Ypanstep   uint16    // Zero if no hardware panning
	Ywrapstep  uint16    // Zero if no hardware ywrap
	LineLength uint32    // Length of a line in bytes
	MmioStart  uintptr   // Start of Memory Mapped I/O (physical address)
	MmioLen    uint32    // Length of Memory Mapped I/O
	Accel      uint32    // Type of acceleration available
	Capability uint16    // FB_CAP_
	Reserved   [2]uint16 // Reserved for future compatibility
}

type bitField struct {
	Offset   uint32 // Beginning of bitfield
	Length   uint32 // Length of bitfield
	MsbRight uint32 // != 0 : Most significant bit is right
}

type varScreenInfo struct {
	Xres                    uint32
	Yres                    uint32
	XresVirtual             uint32
	YresVirtual             uint32
	Xoffset                 uint32
	Yoffset                 uint32
	BitsPerPixel            uint32
	Grayscale               uint32
	Red, Green, Blue, Alpha bitField
	Nonstd                  uint32
	Activate                uint32
	Height                  uint32
	Width                   uint32
	AccelFlags              uint32
	Pixclock                uint32
	LeftMargin              uint32
	RightMargin             uint32
	UpperMargin             uint32
	LowerMargin             uint32
	HsyncLen                uint32
	VsyncLen                uint32
	Sync                    uint32
	Vmode                   uint32
	Rotate                  uint32
	Colorspace              uint32
	Reserved                [4]uint32
}
