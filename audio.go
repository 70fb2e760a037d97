package main

import (
	"github.com/retroenv/retrogolib/log"
	"github.com/veandco/go-sdl2/sdl"
)

const (
	sampleHz = 48000
	toneHz   = 440
)

var (
	// AudioDevice plays the beep while the sound timer runs. Zero means
	// audio is unavailable and PumpAudio is a no-op.
	AudioDevice sdl.AudioDeviceID

	// tonePhase tracks the square wave position across frames.
	tonePhase int
)

// InitAudio opens an audio device for the CHIP-8 tone. Failure is not
// fatal; the emulator just runs silent.
func InitAudio(logger *log.Logger) {
	spec := &sdl.AudioSpec{
		Freq:     sampleHz,
		Format:   sdl.AUDIO_U8,
		Channels: 1,
		Samples:  1024,
	}

	dev, err := sdl.OpenAudioDevice("", false, spec, nil, 0)
	if err != nil {
		logger.Error("Opening audio device failed", log.Err(err))
		return
	}

	AudioDevice = dev
	sdl.PauseAudioDevice(dev, false)
}

// PumpAudio keeps the tone queue fed while the sound timer is active and
// silences it otherwise. Called once per 60Hz frame.
func PumpAudio(active bool) {
	if AudioDevice == 0 {
		return
	}

	if !active {
		sdl.ClearQueuedAudio(AudioDevice)
		tonePhase = 0
		return
	}

	// keep roughly two frames of samples queued
	if sdl.GetQueuedAudioSize(AudioDevice) > sampleHz/30 {
		return
	}

	const halfPeriod = sampleHz / toneHz / 2

	buf := make([]byte, sampleHz/60)
	for i := range buf {
		if (tonePhase/halfPeriod)%2 == 0 {
			buf[i] = 0x40
		} else {
			buf[i] = 0x00
		}
		tonePhase++
	}

	sdl.QueueAudio(AudioDevice, buf)
}
