package main

import (
	"image/color"
	"image/draw"

	"github.com/BeatGlow/panel/framebuffer"
)

// DefaultFrameBuffer is the fbdev of the display host.
const DefaultFrameBuffer = "/dev/fb0"

// drawPattern draws a box around the edge and a gradient inside it.
func drawPattern(im draw.Image, offset int) {
	r := im.Bounds()
	if r.Empty() {
		return
	}

	for x := r.Min.X; x < r.Max.X; x++ {
		im.Set(x, r.Min.Y, color.White)
		im.Set(x, r.Max.Y-1, color.White)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		im.Set(r.Min.X, y, color.White)
		im.Set(r.Max.X-1, y, color.White)
	}

	for y := r.Min.Y + 1; y < r.Max.Y-1; y++ {
		for x := r.Min.X + 1; x < r.Max.X-1; x++ {
			im.Set(x, y, color.RGBA{
				R: uint8(x + y + offset),
				G: uint8(x - y + offset),
				B: uint8(x + y - offset),
				A: 0xff,
			})
		}
	}
}

// showPattern draws the test pattern on the named frame buffer device.
func showPattern(name string) (string, error) {
	fb, err := framebuffer.Open(name)
	if err != nil {
		return "", err
	}
	defer fb.Close()

	drawPattern(fb, 0)
	return fb.String(), nil
}
