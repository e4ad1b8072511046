// Package sdlfront provides the SDL2 frontend: it implements the
// display framebuffer capability, feeds keyboard events to the keypad
// and plays the sound timer beep.
package sdlfront

import (
	"encoding/binary"
	"math"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/tuboc/chip8vm/internal/display"
	"github.com/tuboc/chip8vm/internal/keypad"
	"github.com/tuboc/chip8vm/internal/machine"
)

const audioSamples = 64

// scancode2Key maps the physical keyboard onto the hex keypad, with
// 4-5-6-7 as the top row.
var scancode2Key = map[sdl.Scancode]keypad.Key{
	sdl.SCANCODE_4: keypad.Key1,
	sdl.SCANCODE_5: keypad.Key2,
	sdl.SCANCODE_6: keypad.Key3,
	sdl.SCANCODE_7: keypad.KeyC,
	sdl.SCANCODE_R: keypad.Key4,
	sdl.SCANCODE_T: keypad.Key5,
	sdl.SCANCODE_Y: keypad.Key6,
	sdl.SCANCODE_U: keypad.KeyD,
	sdl.SCANCODE_F: keypad.Key7,
	sdl.SCANCODE_G: keypad.Key8,
	sdl.SCANCODE_H: keypad.Key9,
	sdl.SCANCODE_J: keypad.KeyE,
	sdl.SCANCODE_V: keypad.KeyA,
	sdl.SCANCODE_B: keypad.Key0,
	sdl.SCANCODE_N: keypad.KeyB,
	sdl.SCANCODE_M: keypad.KeyF,
}

// Frontend owns the SDL window, renderer and audio device. It holds
// the device-space pixel grid that the display projects onto and
// renders it once per vblank.
type Frontend struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	audio    sdl.AudioDeviceID

	width  int
	height int
	pixels []bool

	stepMode bool
	focus    bool
}

// New initializes SDL and opens a window sized for the scaled display.
// The caller must run on a locked OS thread.
func New(scale int, stepMode bool) (*Frontend, error) {
	if scale < 1 {
		scale = display.DefaultScale
	}
	width := display.Width * scale
	height := display.Height * scale

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_AUDIO | sdl.INIT_EVENTS); err != nil {
		return nil, err
	}

	window, err := sdl.CreateWindow("chip8vm",
		sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		int32(width), int32(height), sdl.WINDOW_SHOWN)
	if err != nil {
		return nil, err
	}

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_PRESENTVSYNC)
	if err != nil {
		return nil, err
	}

	audio, err := openAudio()
	if err != nil {
		return nil, err
	}

	return &Frontend{
		window:   window,
		renderer: renderer,
		audio:    audio,
		width:    width,
		height:   height,
		pixels:   make([]bool, width*height),
		stepMode: stepMode,
		focus:    true,
	}, nil
}

// Close releases the SDL resources.
func (f *Frontend) Close() {
	sdl.CloseAudioDevice(f.audio)
	if f.renderer != nil {
		_ = f.renderer.Destroy()
	}
	if f.window != nil {
		_ = f.window.Destroy()
	}
	sdl.Quit()
}

// SetPixel implements display.Framebuffer in device space.
func (f *Frontend) SetPixel(x, y int, on bool) {
	if x < 0 || x >= f.width || y < 0 || y >= f.height {
		return
	}
	f.pixels[y*f.width+x] = on
}

// Pixel implements display.Framebuffer in device space.
func (f *Frontend) Pixel(x, y int) bool {
	if x < 0 || x >= f.width || y < 0 || y >= f.height {
		return false
	}
	return f.pixels[y*f.width+x]
}

// VBlank runs once per timer tick: it pumps input events, syncs the
// pause state, plays the beep and presents the frame. Closing the
// window stops the machine via machine.ErrShutdown.
func (f *Frontend) VBlank(m *machine.Machine) error {
	if err := f.pollEvents(m); err != nil {
		return err
	}
	m.SetPaused(f.stepMode || !f.focus)

	if !m.Paused() && m.SoundActive() {
		f.queueBeep()
	}
	f.present()
	return nil
}

func (f *Frontend) pollEvents(m *machine.Machine) error {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch ev := event.(type) {
		case *sdl.QuitEvent:
			return machine.ErrShutdown

		case *sdl.KeyboardEvent:
			switch ev.Type {
			case sdl.KEYDOWN:
				if key, ok := scancode2Key[ev.Keysym.Scancode]; ok {
					m.Keypad().Press(key)
				} else if err := f.handleControlKey(m, ev.Keysym.Scancode); err != nil {
					return err
				}
			case sdl.KEYUP:
				if key, ok := scancode2Key[ev.Keysym.Scancode]; ok {
					m.Keypad().Release(key)
				}
			}

		case *sdl.WindowEvent:
			switch ev.Event {
			case sdl.WINDOWEVENT_FOCUS_LOST:
				f.focus = false
			case sdl.WINDOWEVENT_FOCUS_GAINED:
				f.focus = true
			}
		}
	}
	return nil
}

// handleControlKey implements the emulator control keys: space enters
// step mode and single-steps while in it, return resumes and Z resets
// the machine.
func (f *Frontend) handleControlKey(m *machine.Machine, sc sdl.Scancode) error {
	switch sc {
	case sdl.SCANCODE_SPACE:
		if f.stepMode {
			return m.StepOne()
		}
		f.stepMode = true
	case sdl.SCANCODE_RETURN:
		f.stepMode = false
	case sdl.SCANCODE_Z:
		m.Reset()
	}
	return nil
}

func (f *Frontend) present() {
	_ = f.renderer.SetDrawColor(0, 0, 0, 255)
	_ = f.renderer.Clear()

	_ = f.renderer.SetDrawColor(0, 255, 0, 255)
	for y := 0; y < f.height; y++ {
		for x := 0; x < f.width; x++ {
			if f.pixels[y*f.width+x] {
				_ = f.renderer.DrawPoint(int32(x), int32(y))
			}
		}
	}

	f.renderer.Present()
}

func openAudio() (sdl.AudioDeviceID, error) {
	want := &sdl.AudioSpec{
		Freq:     audioSamples * machine.TimerFrequency,
		Format:   sdl.AUDIO_F32LSB,
		Channels: 1,
		Samples:  audioSamples,
	}
	have := &sdl.AudioSpec{}
	audio, err := sdl.OpenAudioDevice("", false, want, have, sdl.AUDIO_ALLOW_ANY_CHANGE)
	if err != nil {
		return 0, err
	}
	sdl.PauseAudioDevice(audio, false)
	return audio, nil
}

// queueBeep queues one vblank worth of a sine tone.
func (f *Frontend) queueBeep() {
	samples := make([]byte, 4*audioSamples)
	for i := 0; i < len(samples); i += 4 {
		v := math.Sin(2.0 * math.Pi / 180.0 * float64(360*i/audioSamples))
		binary.LittleEndian.PutUint32(samples[i:], math.Float32bits(float32(v)))
	}
	_ = sdl.QueueAudio(f.audio, samples)
}
