package c64

import (
	"time"

	"github.com/newhook/c64/c64/cia"
	"github.com/newhook/c64/c64/keyboard"
	"github.com/newhook/c64/c64/memory"
	"github.com/newhook/c64/c64/vic"
	"github.com/newhook/c64/cpu"
)

const (
	// Clock frequencies
	PAL_CLOCK_HZ  = 985248  // PAL C64 clock frequency
	NTSC_CLOCK_HZ = 1022727 // NTSC C64 clock frequency

	nanosPerSecond = 1_000_000_000
)

// C64 owns every component and advances them in lock-step from a
// single master clock. Within one system cycle the order is fixed:
// keyboard scan, raster, Timer A, CPU sub-cycle.
type C64 struct {
	CPU      *cpu.CPU
	Memory   *memory.Manager
	VIC      *vic.VIC
	TimerA   *cia.TimerA
	Keyboard *keyboard.Keyboard

	tickCount uint64
}

func NewC64() *C64 {
	mem := memory.NewManager()
	return &C64{
		CPU:      cpu.NewCPU(mem),
		Memory:   mem,
		VIC:      vic.NewVIC(mem, mem.VIC(), mem.CIA2()),
		TimerA:   cia.NewTimerA(),
		Keyboard: keyboard.NewKeyboard(),
	}
}

// Reset loads the program counter from the reset vector through the
// banked map; with the stock KERNAL in place it lands in the reset
// routine.
func (c *C64) Reset() {
	c.CPU.PC = c.Memory.ResetVectorTarget()
}

// TickCount returns the number of system cycles executed so far.
func (c *C64) TickCount() uint64 {
	return c.tickCount
}

// SetKey stages a host key event; it is observed by the next cycle's
// keyboard scan.
func (c *C64) SetKey(key keyboard.Key, pressed bool) {
	c.Keyboard.ChangeKeyState(key, pressed)
}

// Step advances the machine to the tick count implied by the elapsed
// wall-clock time at the PAL clock rate. CPU errors halt the loop and
// propagate.
func (c *C64) Step(elapsed time.Duration) error {
	want := targetTicks(elapsed)
	for c.tickCount < want {
		if err := c.tick(); err != nil {
			return err
		}
	}
	return nil
}

// StepInstruction advances whole system cycles until the CPU retires
// one instruction; used by the monitor.
func (c *C64) StepInstruction() error {
	for {
		if err := c.tick(); err != nil {
			return err
		}
		if c.CPU.InstructionBoundary() {
			return nil
		}
	}
}

func (c *C64) tick() error {
	c.Keyboard.Scan(c.Memory.CIA1())
	c.VIC.Tick()
	c.TimerA.Tick(c.CPU, c.Memory.CIA1())
	if err := c.CPU.Tick(); err != nil {
		return err
	}
	c.tickCount++
	return nil
}

// targetTicks converts elapsed wall-clock time to a cycle budget at
// the PAL clock. Split to whole and fractional seconds so the multiply
// cannot overflow for any realistic runtime.
func targetTicks(elapsed time.Duration) uint64 {
	ns := uint64(elapsed.Nanoseconds())
	return ns/nanosPerSecond*PAL_CLOCK_HZ + ns%nanosPerSecond*PAL_CLOCK_HZ/nanosPerSecond
}

// C64Colors represents the standard C64 palette
var C64Colors = []uint32{
	0x000000, // Black
	0xFFFFFF, // White
	0x880000, // Red
	0xAAFFEE, // Cyan
	0xCC44CC, // Purple
	0x00CC55, // Green
	0x0000AA, // Blue
	0xEEEE77, // Yellow
	0xDD8855, // Orange
	0x664400, // Brown
	0xFF7777, // Light red
	0x333333, // Dark grey
	0x777777, // Medium grey
	0xAAFF66, // Light green
	0x0088FF, // Light blue
	0xBBBBBB, // Light grey
}
