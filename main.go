package main

import (
	"flag"
	"runtime"
	"time"

	"github.com/retroenv/retrogolib/log"
	"github.com/sqweek/dialog"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/mlvzk/chip8/chip8"
	"github.com/mlvzk/chip8/romloader"
)

var (
	// Machine and Interp are the CHIP-8 virtual machine.
	Machine *chip8.Machine
	Interp  *chip8.Interpreter

	// The SDL window and renderer.
	Window   *sdl.Window
	Renderer *sdl.Renderer

	// Paused stops instruction execution; timers and rendering go on.
	Paused bool
)

func init() {
	runtime.LockOSThread()
}

func main() {
	clock := flag.Int("clock", 700, "instructions executed per second")
	debug := flag.Bool("debug", false, "log debug output")
	quiet := flag.Bool("quiet", false, "only log errors")
	flag.Parse()

	logger := createLogger(*debug, *quiet)

	// pick a ROM if none was given on the command line
	path := flag.Arg(0)
	if path == "" {
		var err error
		path, err = dialog.File().
			Title("Open CHIP-8 ROM").
			Filter("CHIP-8 ROMs", "ch8", "c8", "rom", "zip", "gz", "7z", "rar").
			Load()
		if err != nil {
			logger.Fatal("No ROM selected", log.Err(err))
		}
	}

	program, name, err := romloader.Load(path)
	if err != nil {
		logger.Fatal("Loading ROM failed", log.String("file", path), log.Err(err))
	}

	// create the virtual machine and load the program
	Machine = chip8.NewMachine()
	Interp = chip8.NewInterpreter(Machine)

	if err := Interp.LoadProgram(program); err != nil {
		logger.Fatal("Loading program failed", log.String("file", path), log.Err(err))
	}

	logger.Info("ROM loaded",
		log.String("name", name),
		log.Int("bytes", len(program)),
		log.Int("clock", *clock))

	// initialize SDL
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_AUDIO); err != nil {
		logger.Fatal("SDL init failed", log.Err(err))
	}
	defer sdl.Quit()

	// create the main window and renderer
	Window, Renderer, err = sdl.CreateWindowAndRenderer(
		chip8.DisplayWidth*windowScale, chip8.DisplayHeight*windowScale, sdl.WINDOW_SHOWN)
	if err != nil {
		logger.Fatal("Creating window failed", log.Err(err))
	}
	defer Window.Destroy()
	defer Renderer.Destroy()

	Window.SetTitle("CHIP-8 - " + name)

	// initialize subsystems
	InitScreen(logger)
	InitAudio(logger)

	// instruction rate and 60Hz timer/refresh rate
	cpu := time.NewTicker(time.Second / time.Duration(*clock))
	frame := time.NewTicker(time.Second / 60)
	defer cpu.Stop()
	defer frame.Stop()

	// loop until the window is closed or the user quits
	for ProcessEvents() {
		select {
		case <-frame.C:
			Interp.DecrementTimers()
			PumpAudio(Machine.SoundActive())
			Refresh()
		case <-cpu.C:
			if Paused {
				continue
			}

			Machine.SetKeys(Keypad)
			if err := Interp.Tick(); err != nil {
				logger.Fatal("Emulation halted", log.Err(err))
			}
		}
	}
}

// createLogger creates a logger with appropriate settings.
func createLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}
