package mon

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/newhook/c64/c64/c64"
	"github.com/newhook/c64/c64/memory"
	"github.com/newhook/c64/cpu"
	"github.com/newhook/c64/dis"
)

// CPUState holds a snapshot of CPU state for change detection between
// steps.
type CPUState struct {
	A  uint8
	X  uint8
	Y  uint8
	PC uint16
	SP uint8
	P  uint8
}

type stepTick struct{}

func doStep() tea.Cmd {
	return tea.Tick(50*time.Millisecond, func(t time.Time) tea.Msg {
		return stepTick{}
	})
}

// debugMemory views the machine's memory without device side effects;
// walking the I/O window with live reads would clear interrupt latches.
type debugMemory struct {
	mem *memory.Manager
}

func (d debugMemory) Read(address uint16) uint8 {
	return d.mem.ReadDebug(address)
}

// Monitor is the machine-language monitor UI. Stepping advances the
// whole machine at instruction granularity, so the raster and timer
// stay in lock-step with the CPU.
type Monitor struct {
	machine *c64.C64
	mem     debugMemory

	paused           bool
	width            int
	height           int
	locations        []dis.Location
	locationIndex    int
	selectedLocation int

	lastState  CPUState
	lastMemory [64]uint8 // Only track visible memory (8 rows * 8 bytes)

	memoryAddress uint16
	activePane    string // "disasm", "memory"
	gotoInput     textinput.Model
	showingGoto   bool

	breakpoints map[uint16]bool

	err error
}

var (
	subtle    = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}
	highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	special   = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	changed   = lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF6B6B"}

	titleStyle = lipgloss.NewStyle().
			Foreground(subtle).
			Padding(0, 1)

	infoStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(highlight).
			Padding(1).
			Width(32)

	changedStyle = lipgloss.NewStyle().
			Foreground(changed).
			Bold(true)

	stackStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(special).
			Padding(1).
			Width(32)

	disasmStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(highlight).
			Padding(1).
			Width(40)

	currentLineStyle = lipgloss.NewStyle().
				Background(highlight).
				Foreground(lipgloss.Color("#ffffff"))

	selectedLineStyle = lipgloss.NewStyle().
				Foreground(highlight)

	memoryStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(special).
			Padding(1).
			Width(50)

	breakpointStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true).
			Padding(0, 1)
)

// NewMonitor creates a monitor over the machine. The machine should
// already have its ROMs loaded and the reset vector applied.
func NewMonitor(machine *c64.C64) *Monitor {
	ti := textinput.New()
	ti.Placeholder = "Enter hex address (e.g. FF00)"
	ti.CharLimit = 4
	ti.Width = 6

	m := &Monitor{
		machine:       machine,
		mem:           debugMemory{mem: machine.Memory},
		paused:        true,
		locations:     dis.DisassembleInstructions(debugMemory{mem: machine.Memory}),
		memoryAddress: 0,
		activePane:    "disasm",
		gotoInput:     ti,
		breakpoints:   make(map[uint16]bool),
	}
	m.relocate()
	m.captureMemoryState()
	return m
}

func (m *Monitor) captureState() {
	c := m.machine.CPU
	m.lastState = CPUState{A: c.A, X: c.X, Y: c.Y, PC: c.PC, SP: c.SP, P: c.P}
	m.captureMemoryState()
}

func (m *Monitor) captureMemoryState() {
	addr := m.memoryAddress
	for i := 0; i < 64; i++ {
		m.lastMemory[i] = m.mem.Read(addr + uint16(i))
	}
}

func (m *Monitor) step() {
	if err := m.machine.StepInstruction(); err != nil {
		m.err = err
		m.paused = true
	}
	m.relocate()
}

func (m *Monitor) relocate() {
	index := 0
	for i, l := range m.locations {
		if l.PC == m.machine.CPU.PC {
			index = i
		}
	}
	m.locationIndex = index
	m.selectedLocation = index
}

// Init implements tea.Model.
func (m *Monitor) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Monitor) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stepTick:
		if m.paused || m.breakpoints[m.machine.CPU.PC] {
			m.paused = true
			return m, nil
		}
		m.captureState()
		m.step()
		return m, doStep()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		if m.showingGoto {
			switch msg.Type {
			case tea.KeyEnter:
				if addr, err := strconv.ParseUint(m.gotoInput.Value(), 16, 16); err == nil {
					m.memoryAddress = uint16(addr)
					m.captureMemoryState()
				}
				m.showingGoto = false
				return m, nil
			case tea.KeyEsc:
				m.showingGoto = false
				return m, nil
			}
			var cmd tea.Cmd
			m.gotoInput, cmd = m.gotoInput.Update(msg)
			return m, cmd
		}

		switch msg.String() {
		case "g":
			m.showingGoto = true
			m.gotoInput.Focus()
			return m, textinput.Blink
		case "q", "ctrl+c":
			return m, tea.Quit
		case "s":
			if m.paused && m.err == nil {
				m.captureState()
				m.step()
			}
		case "b":
			addr := m.locations[m.selectedLocation].PC
			if m.breakpoints[addr] {
				delete(m.breakpoints, addr)
			} else {
				m.breakpoints[addr] = true
			}
		case "n":
			if m.paused && m.err == nil && len(m.breakpoints) > 0 {
				m.paused = false
				return m, doStep()
			}
		case "p":
			if m.err == nil {
				m.paused = !m.paused
				if !m.paused {
					return m, doStep()
				}
			}
		case "tab":
			if m.activePane == "disasm" {
				m.activePane = "memory"
			} else {
				m.activePane = "disasm"
			}
		case "up":
			if m.activePane == "disasm" {
				if m.selectedLocation > 0 {
					m.selectedLocation--
				}
			} else if m.memoryAddress >= 8 {
				m.memoryAddress -= 8
				m.captureMemoryState()
			}
		case "down":
			if m.activePane == "disasm" {
				if m.selectedLocation < len(m.locations)-20 {
					m.selectedLocation++
				}
			} else if m.memoryAddress <= 0xFFF8 {
				m.memoryAddress += 8
				m.captureMemoryState()
			}
		case "pgup":
			if m.activePane == "disasm" {
				m.selectedLocation -= 20
				if m.selectedLocation < 0 {
					m.selectedLocation = 0
				}
			} else {
				if m.memoryAddress >= 64 {
					m.memoryAddress -= 64
				} else {
					m.memoryAddress = 0
				}
				m.captureMemoryState()
			}
		case "pgdown":
			if m.activePane == "disasm" {
				m.selectedLocation += 20
				if m.selectedLocation > len(m.locations)-20 {
					m.selectedLocation = len(m.locations) - 20
				}
			} else {
				if m.memoryAddress <= 0xFFC0 {
					m.memoryAddress += 64
				} else {
					m.memoryAddress = 0xFFC0
				}
				m.captureMemoryState()
			}
		}
	}
	return m, nil
}

func (m *Monitor) formatMemory() string {
	var result strings.Builder
	addr := m.memoryAddress

	for row := 0; row < 8; row++ {
		result.WriteString(fmt.Sprintf("$%04X: ", addr))

		for col := 0; col < 8; col++ {
			offset := row*8 + col
			value := m.mem.Read(addr + uint16(col))
			lastValue := m.lastMemory[offset]

			if value != lastValue {
				result.WriteString(changedStyle.Render(fmt.Sprintf("%02X ", value)))
			} else {
				result.WriteString(fmt.Sprintf("%02X ", value))
			}
		}

		result.WriteString(" | ")
		for col := 0; col < 8; col++ {
			offset := row*8 + col
			value := m.mem.Read(addr + uint16(col))
			lastValue := m.lastMemory[offset]

			ch := "."
			if value >= 32 && value <= 126 {
				ch = string(rune(value))
			}
			if value != lastValue {
				result.WriteString(changedStyle.Render(ch))
			} else {
				result.WriteString(ch)
			}
		}

		result.WriteString("\n")
		addr += 8
	}

	return result.String()
}

func (m *Monitor) formatReg8(name string, current, last uint8) string {
	value := fmt.Sprintf("%s: $%02X", name, current)
	if current != last {
		return changedStyle.Render(value)
	}
	return value
}

func (m *Monitor) formatReg16(name string, current, last uint16) string {
	value := fmt.Sprintf("%s: $%04X", name, current)
	if current != last {
		return changedStyle.Render(value)
	}
	return value
}

func (m *Monitor) formatFlags() string {
	flags := []struct {
		name string
		flag uint8
	}{
		{"N", cpu.FlagN},
		{"V", cpu.FlagV},
		{"B", cpu.FlagB},
		{"D", cpu.FlagD},
		{"I", cpu.FlagI},
		{"Z", cpu.FlagZ},
		{"C", cpu.FlagC},
	}

	var result strings.Builder
	for _, f := range flags {
		current := m.machine.CPU.P&f.flag != 0
		last := m.lastState.P&f.flag != 0

		if current {
			if current != last {
				result.WriteString(changedStyle.Render(f.name + " "))
			} else {
				result.WriteString(f.name + " ")
			}
		} else {
			result.WriteString("- ")
		}
	}
	return result.String()
}

func (m *Monitor) disassemble() string {
	var result strings.Builder

	for i := 0; i < 20; i++ {
		offset := m.selectedLocation + i
		if offset >= len(m.locations) {
			break
		}
		l := m.locations[offset]
		line := l.String()
		if m.breakpoints[l.PC] {
			if l.PC == m.machine.CPU.PC {
				line = currentLineStyle.Render("● " + line)
			} else {
				line = breakpointStyle.Render("● " + line)
			}
		} else if l.PC == m.machine.CPU.PC {
			line = currentLineStyle.Render(line)
		} else if offset == m.selectedLocation {
			line = selectedLineStyle.Render(line)
		}

		result.WriteString(line)
		result.WriteString("\n")
	}

	return result.String()
}

func (m *Monitor) formatStack() string {
	var result strings.Builder
	sp := m.machine.CPU.SP
	for i := uint16(0xFF); i > uint16(sp) && i > uint16(sp)-8; i-- {
		result.WriteString(fmt.Sprintf("$%02X: %02X\n", i, m.machine.Memory.ReadStack(uint8(i))))
	}
	return result.String()
}

// View implements tea.Model.
func (m *Monitor) View() string {
	disasm := disasmStyle.Render(fmt.Sprintf(
		"Disassembly\n\n%s",
		m.disassemble(),
	))

	cpuState := infoStyle.Render(fmt.Sprintf(
		"CPU State\n\n%s    %s    %s\n%s  %s\n\nFlags: %s\nCycle: %d",
		m.formatReg8("A", m.machine.CPU.A, m.lastState.A),
		m.formatReg8("X", m.machine.CPU.X, m.lastState.X),
		m.formatReg8("Y", m.machine.CPU.Y, m.lastState.Y),
		m.formatReg16("PC", m.machine.CPU.PC, m.lastState.PC),
		m.formatReg8("SP", m.machine.CPU.SP, m.lastState.SP),
		m.formatFlags(),
		m.machine.TickCount(),
	))

	stack := stackStyle.Render(fmt.Sprintf(
		"Stack\n\n%s",
		m.formatStack(),
	))

	memoryPane := memoryStyle.Render(fmt.Sprintf(
		"Memory (↑↓ to scroll)\n\n%s",
		m.formatMemory(),
	))

	right := lipgloss.JoinVertical(
		lipgloss.Left,
		cpuState,
		stack,
		memoryPane,
	)

	var help string
	if m.err != nil {
		help = errorStyle.Render(fmt.Sprintf("halted: %v • q: quit", m.err))
	} else if !m.paused {
		help = titleStyle.Render(
			"p: pause • q: quit",
		)
	} else {
		help = titleStyle.Render(
			"s: step • n: run to break • p: pause/resume • b: toggle break • " +
				"↑↓: scroll • pgup/pgdn: page • tab: switch pane • g: goto • q: quit",
		)
	}

	content := lipgloss.JoinHorizontal(
		lipgloss.Top,
		disasm,
		lipgloss.PlaceHorizontal(3, lipgloss.Left, right),
	)

	if m.showingGoto {
		dialog := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(1).
			Width(30).
			Render(
				"Go to address:\n\n" +
					m.gotoInput.View(),
			)

		return lipgloss.JoinVertical(
			lipgloss.Center,
			content,
			help,
			dialog,
		)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		content,
		help,
	)
}
