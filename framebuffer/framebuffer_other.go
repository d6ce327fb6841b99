//go:build !linux

package framebuffer

import "errors"

// ErrNotSupported is returned on platforms without fbdev.
var ErrNotSupported = errors.New("framebuffer: not supported")

// Open is not supported on this platform.
func Open(_ string) (*Buffer, error) {
	return nil, ErrNotSupported
}
