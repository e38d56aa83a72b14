package vic

import "github.com/newhook/c64/c64/cia"

// Screen dimensions of the simplified character-mode display: the
// 40×25 text matrix with no borders.
const (
	VisibleWidth  = 320
	VisibleLines  = 200
	CharColumns   = 40
	CharRows      = 25
	PixelsPerCell = 8
)

// VIC register offsets within $D000-$D3FF (the decode mirrors the
// register file every 64 bytes).
const (
	RegMemPointers = 0x18 // $D018
	RegBorderColor = 0x20 // $D020
	RegBgColor     = 0x21 // $D021
)

// Registers is the VIC register file; only the memory-control and
// color registers are modeled. Unknown registers read as zero and
// swallow writes — the KERNAL pokes several during reset.
type Registers struct {
	memoryControl   uint8
	borderColor     uint8
	backgroundColor uint8
}

func NewRegisters() *Registers {
	return &Registers{}
}

// Read returns a register by its offset within the 64-byte file.
func (r *Registers) Read(reg uint8) uint8 {
	switch reg {
	case RegMemPointers:
		return r.memoryControl
	case RegBorderColor:
		return r.borderColor
	case RegBgColor:
		return r.backgroundColor
	}
	return 0
}

func (r *Registers) Write(reg uint8, value uint8) {
	switch reg {
	case RegMemPointers:
		r.memoryControl = value
	case RegBorderColor:
		r.borderColor = value
	case RegBgColor:
		r.backgroundColor = value
	}
}

// VideoMatrixBase returns the screen-matrix offset within the VIC
// bank, from bits 4-7 of the memory control register.
func (r *Registers) VideoMatrixBase() uint16 {
	return (uint16(r.memoryControl) << 6) & 0x3C00
}

// CharGenBase returns the character-generator offset within the VIC
// bank, from bits 1-3 of the memory control register.
func (r *Registers) CharGenBase() uint16 {
	return (uint16(r.memoryControl) << 10) & 0x3800
}

func (r *Registers) BorderColor() uint8 {
	return r.borderColor
}

func (r *Registers) BackgroundColor() uint8 {
	return r.backgroundColor
}

// Memory is the raster engine's view of the machine: VIC-side reads
// that ignore CPU banking, plus the color RAM.
type Memory interface {
	ReadVIC(address uint16) uint8
	ReadColor(index uint16) uint8
}

// VIC is the per-cycle raster engine. Each system cycle renders the
// eight pixels of one character cell slice; forty cycles cover a line,
// two hundred lines cover a frame.
type VIC struct {
	mem  Memory
	regs *Registers
	cia2 *cia.CIA2

	rasterLine uint16 // [0, VisibleLines)
	xPos       uint16 // [0, CharColumns)
	frameCount uint64

	frame [VisibleWidth * VisibleLines]uint8
}

func NewVIC(mem Memory, regs *Registers, cia2 *cia.CIA2) *VIC {
	return &VIC{
		mem:  mem,
		regs: regs,
		cia2: cia2,
	}
}

// Registers exposes the register file driving this engine.
func (v *VIC) Registers() *Registers {
	return v.regs
}

// Frame returns the current framebuffer: VisibleWidth×VisibleLines
// palette indices in row-major order. The buffer is owned by the VIC
// and redrawn in place.
func (v *VIC) Frame() []uint8 {
	return v.frame[:]
}

func (v *VIC) FrameCount() uint64 {
	return v.frameCount
}

// Tick renders one character-cell slice and advances the beam.
// Returns true when the frame wrapped.
func (v *VIC) Tick() bool {
	bank := v.cia2.VICBankBase()
	matrixAddr := v.regs.VideoMatrixBase() | bank
	charAddr := v.regs.CharGenBase() | bank

	cell := (v.rasterLine>>3)*CharColumns + v.xPos
	color := v.mem.ReadColor(cell) & 0x0F
	ch := v.mem.ReadVIC(matrixAddr + cell)
	slice := v.mem.ReadVIC(charAddr + uint16(ch)*8 + (v.rasterLine & 7))
	background := v.regs.BackgroundColor() & 0x0F

	base := int(v.rasterLine)*VisibleWidth + int(v.xPos)*PixelsPerCell
	for bit := 0; bit < 8; bit++ {
		if slice&(1<<bit) != 0 {
			v.frame[base+7-bit] = color
		} else {
			v.frame[base+7-bit] = background
		}
	}

	v.xPos++
	if v.xPos == CharColumns {
		v.xPos = 0
		v.rasterLine++
		if v.rasterLine == VisibleLines {
			v.rasterLine = 0
			v.frameCount++
			return true
		}
	}
	return false
}
