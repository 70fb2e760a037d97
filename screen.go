package main

import (
	"github.com/retroenv/retrogolib/log"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/mlvzk/chip8/chip8"
)

// windowScale is how many window pixels one CHIP-8 pixel occupies.
const windowScale = 10

var (
	// Screen is the render target for the CHIP-8 display buffer.
	Screen *sdl.Texture
)

// InitScreen creates the render target for the CHIP-8 display.
func InitScreen(logger *log.Logger) {
	var err error

	Screen, err = Renderer.CreateTexture(
		sdl.PIXELFORMAT_RGB888, sdl.TEXTUREACCESS_TARGET,
		chip8.DisplayWidth, chip8.DisplayHeight)
	if err != nil {
		logger.Fatal("Creating screen texture failed", log.Err(err))
	}
}

// Refresh redraws the display buffer and presents the frame.
func Refresh() {
	if err := Renderer.SetRenderTarget(Screen); err != nil {
		return
	}

	// background
	Renderer.SetDrawColor(17, 29, 43, 255)
	Renderer.Clear()

	// lit pixels
	Renderer.SetDrawColor(143, 145, 133, 255)

	display := Machine.Display()
	for p, on := range display {
		if on {
			Renderer.DrawPoint(int32(p%chip8.DisplayWidth), int32(p/chip8.DisplayWidth))
		}
	}

	// restore the render target and stretch the screen to the window
	Renderer.SetRenderTarget(nil)
	Renderer.Copy(Screen, nil, nil)
	Renderer.Present()
}
