package main

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/mlvzk/chip8/chip8"
)

var (
	// KeyMap maps a modern keyboard to the 4x4 CHIP-8 keypad:
	//
	//	1 2 3 C        1 2 3 4
	//	4 5 6 D   <-   Q W E R
	//	7 8 9 E        A S D F
	//	A 0 B F        Z X C V
	KeyMap = map[sdl.Scancode]int{
		sdl.SCANCODE_X: 0x0,
		sdl.SCANCODE_1: 0x1,
		sdl.SCANCODE_2: 0x2,
		sdl.SCANCODE_3: 0x3,
		sdl.SCANCODE_Q: 0x4,
		sdl.SCANCODE_W: 0x5,
		sdl.SCANCODE_E: 0x6,
		sdl.SCANCODE_A: 0x7,
		sdl.SCANCODE_S: 0x8,
		sdl.SCANCODE_D: 0x9,
		sdl.SCANCODE_Z: 0xA,
		sdl.SCANCODE_C: 0xB,
		sdl.SCANCODE_4: 0xC,
		sdl.SCANCODE_R: 0xD,
		sdl.SCANCODE_F: 0xE,
		sdl.SCANCODE_V: 0xF,
	}

	// Keypad is the key snapshot pushed into the machine before each Tick.
	Keypad [chip8.NumKeys]bool
)

// ProcessEvents drains the SDL event queue, updating the keypad snapshot and
// handling the control keys. Returns false when the emulator should quit.
func ProcessEvents() bool {
	for e := sdl.PollEvent(); e != nil; e = sdl.PollEvent() {
		switch ev := e.(type) {
		case *sdl.QuitEvent:
			return false

		case *sdl.KeyboardEvent:
			if key, ok := KeyMap[ev.Keysym.Scancode]; ok {
				Keypad[key] = ev.Type == sdl.KEYDOWN
				continue
			}

			if ev.Type != sdl.KEYDOWN {
				continue
			}

			switch ev.Keysym.Scancode {
			case sdl.SCANCODE_ESCAPE:
				return false
			case sdl.SCANCODE_SPACE, sdl.SCANCODE_F5:
				Paused = !Paused
			case sdl.SCANCODE_BACKSPACE:
				Interp.Reset()
				Keypad = [chip8.NumKeys]bool{}
			}
		}
	}

	return true
}
