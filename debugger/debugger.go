// Package debugger is a text-mode step/inspect front-end over a
// model.Model, generalized from the teacher's ARM register/disassembly
// debugger (debugger/{debugger,tui,breakpoints,watchpoints,history}.go) to
// RV32's xrf/frf/CSR register set and trace.Buffer (SPEC_FULL.md §10).
package debugger

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/relaysilicon/rv32core/memory"
	"github.com/relaysilicon/rv32core/model"
	"github.com/relaysilicon/rv32core/trace"
)

// Machine bundles the Model being debugged with the reference memory
// backing it. The core engine keeps these separate (a MemoryCallbacks
// collaborator is supplied fresh to every Step call); the debugger needs
// both together to drive a session and to inspect memory out of band.
type Machine struct {
	Model  *model.Model
	Memory *memory.Memory
}

// StepMode is the debugger's current execution-control mode.
type StepMode int

const (
	StepNone   StepMode = iota // not stepping
	StepSingle                 // execute exactly one instruction
	StepOver                   // reserved: step over a jal/jalr call
)

// Debugger holds one interactive debugging session over a Machine.
type Debugger struct {
	Machine *Machine

	Breakpoints *BreakpointManager
	Watchpoints *WatchpointManager
	History     *CommandHistory

	Running  bool
	StepMode StepMode

	Symbols   map[string]uint32
	SourceMap map[uint32]string

	LastCommand string
	Output      strings.Builder
}

// NewDebugger creates a new debugger session over machine.
func NewDebugger(machine *Machine) *Debugger {
	return &Debugger{
		Machine:     machine,
		Breakpoints: NewBreakpointManager(),
		Watchpoints: NewWatchpointManager(),
		History:     NewCommandHistory(),
		Running:     false,
		StepMode:    StepNone,
		Symbols:     make(map[string]uint32),
		SourceMap:   make(map[uint32]string),
	}
}

// LoadSymbols loads the symbol table used to resolve label names to
// addresses in break/watch commands.
func (d *Debugger) LoadSymbols(symbols map[string]uint32) {
	d.Symbols = symbols
}

// LoadSourceMap loads the address -> source-line mapping shown alongside
// the disassembly-free trace view (this engine has no disassembler; the
// source map is supplied by whatever produced the program image).
func (d *Debugger) LoadSourceMap(sourceMap map[uint32]string) {
	d.SourceMap = sourceMap
}

// ResolveAddress resolves a label, "pc", or a numeric literal (hex with
// "0x", else decimal) to an address.
func (d *Debugger) ResolveAddress(addrStr string) (uint32, error) {
	if addr, exists := d.Symbols[addrStr]; exists {
		return addr, nil
	}
	if addrStr == "pc" {
		return uint32(d.Machine.Model.PC()), nil
	}

	if strings.HasPrefix(addrStr, "0x") || strings.HasPrefix(addrStr, "0X") {
		v, err := strconv.ParseUint(addrStr[2:], 16, 32)
		if err != nil {
			return 0, fmt.Errorf("invalid address: %s", addrStr)
		}
		return uint32(v), nil
	}

	v, err := strconv.ParseInt(addrStr, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid address: %s", addrStr)
	}
	return uint32(v), nil
}

// resolveRegister parses "x<N>"/"f<N>" or a bare register index. This
// engine has no ABI register name table (spec.md describes only raw xrf
// indices), so "a0"/"sp"/"ra"-style aliases are intentionally not accepted.
func resolveRegister(tok string) (idx int, isFloat bool, ok bool) {
	tok = strings.ToLower(tok)
	switch {
	case strings.HasPrefix(tok, "x"):
		n, err := strconv.Atoi(tok[1:])
		if err != nil || n < 0 || n > 31 {
			return 0, false, false
		}
		return n, false, true
	case strings.HasPrefix(tok, "f"):
		n, err := strconv.Atoi(tok[1:])
		if err != nil || n < 0 || n > 31 {
			return 0, false, false
		}
		return n, true, true
	default:
		n, err := strconv.Atoi(tok)
		if err != nil || n < 0 || n > 31 {
			return 0, false, false
		}
		return n, false, true
	}
}

// ExecuteCommand parses and runs a single debugger command line, writing
// any output to d.Output. An empty line repeats the last command.
func (d *Debugger) ExecuteCommand(cmdLine string) error {
	cmdLine = strings.TrimSpace(cmdLine)
	if cmdLine == "" {
		cmdLine = d.LastCommand
	}
	if cmdLine != "" {
		d.History.Add(cmdLine)
		d.LastCommand = cmdLine
	}

	fields := strings.Fields(cmdLine)
	if len(fields) == 0 {
		return nil
	}

	switch fields[0] {
	case "step", "s":
		return d.cmdStep()
	case "continue", "c":
		return d.cmdContinue()
	case "break", "b":
		return d.cmdBreak(fields[1:])
	case "delete", "d":
		return d.cmdDelete(fields[1:])
	case "watch", "w":
		return d.cmdWatch(fields[1:])
	case "regs", "r":
		d.cmdRegs()
		return nil
	case "csr":
		return d.cmdCSR(fields[1:])
	case "trace", "t":
		d.cmdTrace()
		return nil
	case "help", "h":
		d.cmdHelp()
		return nil
	default:
		return fmt.Errorf("unknown command: %s", fields[0])
	}
}

func (d *Debugger) cmdStep() error {
	res := d.Machine.Model.Step(d.Machine.Memory)
	d.reportStep(res)
	return nil
}

func (d *Debugger) cmdContinue() error {
	d.Running = true
	defer func() { d.Running = false }()

	for d.Running {
		pc := uint32(d.Machine.Model.PC())
		if bp := d.Breakpoints.GetBreakpoint(pc); bp != nil && bp.Enabled && bp.Matches(d.Machine) {
			hit := d.Breakpoints.ProcessHit(pc)
			fmt.Fprintf(&d.Output, "Breakpoint %d hit at 0x%08x\n", hit.ID, pc)
			return nil
		}

		res := d.Machine.Model.Step(d.Machine.Memory)
		if res.Trap != nil {
			d.reportStep(res)
			return nil
		}

		if wp, triggered := d.Watchpoints.CheckWatchpoints(d.Machine); triggered {
			fmt.Fprintf(&d.Output, "Watchpoint %d triggered (%s = 0x%08x)\n", wp.ID, wp.Expression, wp.LastValue)
			return nil
		}
	}
	return nil
}

func (d *Debugger) reportStep(res model.StepResult) {
	pc := uint32(d.Machine.Model.PC())
	if res.Trap != nil {
		fmt.Fprintf(&d.Output, "trap: cause=%d payload=0x%08x pc=0x%08x\n", res.Trap.Cause, res.Trap.Payload, pc)
		return
	}
	fmt.Fprintf(&d.Output, "pc=0x%08x\n", pc)
}

func (d *Debugger) cmdBreak(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: break <addr> [xN==value|fN==value]")
	}
	addr, err := d.ResolveAddress(args[0])
	if err != nil {
		return err
	}
	condition := ""
	if len(args) > 1 {
		condition = strings.Join(args[1:], " ")
	}
	bp := d.Breakpoints.AddBreakpoint(addr, false, condition)
	if condition != "" {
		fmt.Fprintf(&d.Output, "Breakpoint %d set at 0x%08x when %s\n", bp.ID, addr, condition)
	} else {
		fmt.Fprintf(&d.Output, "Breakpoint %d set at 0x%08x\n", bp.ID, addr)
	}
	return nil
}

func (d *Debugger) cmdDelete(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: delete <id>")
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid breakpoint id: %s", args[0])
	}
	return d.Breakpoints.DeleteBreakpoint(id)
}

func (d *Debugger) cmdWatch(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: watch <reg>|[addr]")
	}
	expr := args[0]
	if strings.HasPrefix(expr, "[") && strings.HasSuffix(expr, "]") {
		addr, err := d.ResolveAddress(expr[1 : len(expr)-1])
		if err != nil {
			return err
		}
		wp := d.Watchpoints.AddWatchpoint(WatchReadWrite, expr, addr, false, 0)
		_ = d.Watchpoints.InitializeWatchpoint(wp.ID, d.Machine)
		fmt.Fprintf(&d.Output, "Watchpoint %d set at 0x%08x\n", wp.ID, addr)
		return nil
	}

	idx, isFloat, ok := resolveRegister(expr)
	if !ok {
		return fmt.Errorf("invalid register: %s", expr)
	}
	wp := d.Watchpoints.AddWatchpoint(WatchReadWrite, expr, 0, true, idx)
	wp.IsFloat = isFloat
	_ = d.Watchpoints.InitializeWatchpoint(wp.ID, d.Machine)
	fmt.Fprintf(&d.Output, "Watchpoint %d set on %s\n", wp.ID, expr)
	return nil
}

func (d *Debugger) cmdRegs() {
	m := d.Machine.Model
	fmt.Fprintf(&d.Output, "pc  = 0x%08x\n", uint32(m.PC()))
	for i := 0; i < 32; i++ {
		fmt.Fprintf(&d.Output, "x%-2d = 0x%08x", i, uint32(m.XReg(i)))
		if i%4 == 3 {
			d.Output.WriteByte('\n')
		} else {
			d.Output.WriteByte(' ')
		}
	}
}

func (d *Debugger) cmdCSR(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: csr <hex-index>")
	}
	v, err := strconv.ParseUint(strings.TrimPrefix(args[0], "0x"), 16, 16)
	if err != nil {
		return fmt.Errorf("invalid csr index: %s", args[0])
	}
	fmt.Fprintf(&d.Output, "csr[0x%03x] = 0x%08x\n", v, uint32(d.Machine.Model.CSR(uint16(v))))
	return nil
}

func (d *Debugger) cmdTrace() {
	tr := d.Machine.Model.Trace()
	fmt.Fprintf(&d.Output, "valid=%v pc=0x%08x inst=0x%08x status=%v xmask=0x%08x fmask=0x%08x csrs=%v\n",
		tr.Valid, tr.PC, tr.Inst, statusString(tr.StepStatus), tr.XRegMask, tr.FRegMask, tr.CSRIndices[:tr.CSRCount])
}

func statusString(s trace.StepStatus) string {
	if s == trace.StepFetchException {
		return "trap"
	}
	return "commit"
}

func (d *Debugger) cmdHelp() {
	fmt.Fprint(&d.Output, `commands: step|s, continue|c, break|b <addr> [xN==value|fN==value], delete|d <id>,
watch|w <xN|fN|[addr]>, regs|r, csr <hex>, trace|t, help|h
`)
}
