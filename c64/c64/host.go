package c64

import (
	"time"
	"unsafe"

	"github.com/newhook/c64/c64/keyboard"
	"github.com/veandco/go-sdl2/sdl"
)

const (
	screenWidth  = 320
	screenHeight = 200
)

// Host is the SDL surface around the machine: a streamed texture of
// the framebuffer and keyboard event decoding into the matrix.
type Host struct {
	machine *C64

	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture
	pixels   []byte
	running  bool
}

func NewHost(machine *C64, scale int32) (*Host, error) {
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return nil, err
	}

	window, err := sdl.CreateWindow("Commodore 64",
		sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		screenWidth*scale, screenHeight*scale,
		sdl.WINDOW_SHOWN|sdl.WINDOW_RESIZABLE)
	if err != nil {
		sdl.Quit()
		return nil, err
	}

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED|sdl.RENDERER_PRESENTVSYNC)
	if err != nil {
		window.Destroy()
		sdl.Quit()
		return nil, err
	}

	texture, err := renderer.CreateTexture(
		uint32(sdl.PIXELFORMAT_ABGR8888),
		sdl.TEXTUREACCESS_STREAMING,
		screenWidth, screenHeight)
	if err != nil {
		renderer.Destroy()
		window.Destroy()
		sdl.Quit()
		return nil, err
	}

	return &Host{
		machine:  machine,
		window:   window,
		renderer: renderer,
		texture:  texture,
		pixels:   make([]byte, screenWidth*screenHeight*4),
	}, nil
}

// Run drives the machine against the wall clock until the window
// closes or the emulation fails.
func (h *Host) Run() error {
	h.running = true
	start := time.Now()
	for h.running {
		h.pollEvents()
		if err := h.machine.Step(time.Since(start)); err != nil {
			return err
		}
		if err := h.renderFrame(h.machine.VIC.Frame()); err != nil {
			return err
		}
	}
	return nil
}

func (h *Host) pollEvents() {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			h.running = false
		case *sdl.KeyboardEvent:
			if e.Keysym.Sym == sdl.K_ESCAPE {
				h.running = false
				continue
			}
			if e.Repeat != 0 {
				continue
			}
			if key, ok := decodeKey(e.Keysym.Sym); ok {
				h.machine.SetKey(key, e.Type == sdl.KEYDOWN)
			}
		}
	}
}

func (h *Host) renderFrame(buffer []uint8) error {
	for i := 0; i < len(buffer); i++ {
		color := C64Colors[buffer[i]&0x0F]

		pixelOffset := i * 4
		h.pixels[pixelOffset+0] = byte(color >> 16) // R
		h.pixels[pixelOffset+1] = byte(color >> 8)  // G
		h.pixels[pixelOffset+2] = byte(color)       // B
		h.pixels[pixelOffset+3] = 0xFF              // A
	}

	if err := h.texture.Update(nil, unsafe.Pointer(&h.pixels[0]), screenWidth*4); err != nil {
		return err
	}
	if err := h.renderer.Clear(); err != nil {
		return err
	}
	if err := h.renderer.Copy(h.texture, nil, nil); err != nil {
		return err
	}
	h.renderer.Present()
	return nil
}

func (h *Host) Cleanup() {
	if h.texture != nil {
		h.texture.Destroy()
	}
	if h.renderer != nil {
		h.renderer.Destroy()
	}
	if h.window != nil {
		h.window.Destroy()
	}
	sdl.Quit()
}

var keymap = map[sdl.Keycode]keyboard.Key{
	sdl.K_a: keyboard.KeyA,
	sdl.K_b: keyboard.KeyB,
	sdl.K_c: keyboard.KeyC,
	sdl.K_d: keyboard.KeyD,
	sdl.K_e: keyboard.KeyE,
	sdl.K_f: keyboard.KeyF,
	sdl.K_g: keyboard.KeyG,
	sdl.K_h: keyboard.KeyH,
	sdl.K_i: keyboard.KeyI,
	sdl.K_j: keyboard.KeyJ,
	sdl.K_k: keyboard.KeyK,
	sdl.K_l: keyboard.KeyL,
	sdl.K_m: keyboard.KeyM,
	sdl.K_n: keyboard.KeyN,
	sdl.K_o: keyboard.KeyO,
	sdl.K_p: keyboard.KeyP,
	sdl.K_q: keyboard.KeyQ,
	sdl.K_r: keyboard.KeyR,
	sdl.K_s: keyboard.KeyS,
	sdl.K_t: keyboard.KeyT,
	sdl.K_u: keyboard.KeyU,
	sdl.K_v: keyboard.KeyV,
	sdl.K_w: keyboard.KeyW,
	sdl.K_x: keyboard.KeyX,
	sdl.K_y: keyboard.KeyY,
	sdl.K_z: keyboard.KeyZ,

	sdl.K_0: keyboard.Key0,
	sdl.K_1: keyboard.Key1,
	sdl.K_2: keyboard.Key2,
	sdl.K_3: keyboard.Key3,
	sdl.K_4: keyboard.Key4,
	sdl.K_5: keyboard.Key5,
	sdl.K_6: keyboard.Key6,
	sdl.K_7: keyboard.Key7,
	sdl.K_8: keyboard.Key8,
	sdl.K_9: keyboard.Key9,

	sdl.K_RETURN:    keyboard.KeyReturn,
	sdl.K_SPACE:     keyboard.KeySpace,
	sdl.K_BACKSPACE: keyboard.KeyInsertDelete,
	sdl.K_LSHIFT:    keyboard.KeyLeftShift,
	sdl.K_RSHIFT:    keyboard.KeyRightShift,
	sdl.K_LCTRL:     keyboard.KeyControl,
	sdl.K_TAB:       keyboard.KeyCommodore,
	sdl.K_HOME:      keyboard.KeyClearHome,
	sdl.K_END:       keyboard.KeyRunStop,
	sdl.K_PAGEUP:    keyboard.KeyRestore,

	sdl.K_DOWN:  keyboard.KeyCursorUpDown,
	sdl.K_RIGHT: keyboard.KeyCursorLeftRight,

	sdl.K_COMMA:     keyboard.KeyComma,
	sdl.K_PERIOD:    keyboard.KeyPeriod,
	sdl.K_SLASH:     keyboard.KeySlash,
	sdl.K_SEMICOLON: keyboard.KeySemicolon,
	sdl.K_EQUALS:    keyboard.KeyEqual,
	sdl.K_MINUS:     keyboard.KeyMinus,
	sdl.K_PLUS:      keyboard.KeyPlus,
	sdl.K_ASTERISK:  keyboard.KeyAsterisk,
	sdl.K_AT:        keyboard.KeyAt,
	sdl.K_COLON:     keyboard.KeyColon,

	sdl.K_F1: keyboard.KeyF1,
	sdl.K_F3: keyboard.KeyF3,
	sdl.K_F5: keyboard.KeyF5,
	sdl.K_F7: keyboard.KeyF7,
}

func decodeKey(code sdl.Keycode) (keyboard.Key, bool) {
	key, ok := keymap[code]
	return key, ok
}
