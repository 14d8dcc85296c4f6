package debugger

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// TUI is the text user interface for a Debugger session, grounded on the
// teacher's tview/tcell layout (debugger/tui.go) but scaled to what this
// engine exposes: no disassembler or stack view (spec.md has neither), so
// the panels are registers (pc and x0-x31), the last commit trace, and
// free-form command output. CSRs are read with the "csr" command.
type TUI struct {
	Debugger *Debugger
	App      *tview.Application

	RegisterView *tview.TextView
	TraceView    *tview.TextView
	OutputView   *tview.TextView
	CommandInput *tview.InputField
}

// NewTUI creates a new text user interface over debugger.
func NewTUI(debugger *Debugger) *TUI {
	t := &TUI{
		Debugger: debugger,
		App:      tview.NewApplication(),
	}

	t.initializeViews()
	t.buildLayout()
	t.refresh()

	return t
}

func (t *TUI) initializeViews() {
	t.RegisterView = tview.NewTextView().SetDynamicColors(true)
	t.RegisterView.SetBorder(true).SetTitle(" Registers ")

	t.TraceView = tview.NewTextView().SetDynamicColors(true)
	t.TraceView.SetBorder(true).SetTitle(" Last commit ")

	t.OutputView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true)
	t.OutputView.SetBorder(true).SetTitle(" Output ")

	t.CommandInput = tview.NewInputField().SetLabel("(rv32core) ")
	t.CommandInput.SetBorder(true)
	t.CommandInput.SetDoneFunc(func(key tcell.Key) {
		if key != tcell.KeyEnter {
			return
		}
		cmd := t.CommandInput.GetText()
		t.CommandInput.SetText("")
		if cmd == "quit" || cmd == "q" {
			t.App.Stop()
			return
		}
		if err := t.Debugger.ExecuteCommand(cmd); err != nil {
			fmt.Fprintf(&t.Debugger.Output, "error: %v\n", err)
		}
		t.refresh()
	})
}

func (t *TUI) buildLayout() {
	top := tview.NewFlex().
		AddItem(t.RegisterView, 0, 2, false).
		AddItem(t.TraceView, 0, 1, false)

	root := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(top, 0, 2, false).
		AddItem(t.OutputView, 0, 2, false).
		AddItem(t.CommandInput, 3, 0, true)

	t.App.SetRoot(root, true).SetFocus(t.CommandInput)
}

// refresh repaints every panel from the current Debugger/Machine state.
func (t *TUI) refresh() {
	m := t.Debugger.Machine.Model

	regs := fmt.Sprintf("pc  = 0x%08x\n", uint32(m.PC()))
	for i := 0; i < 32; i++ {
		regs += fmt.Sprintf("x%-2d = 0x%08x  ", i, uint32(m.XReg(i)))
		if i%2 == 1 {
			regs += "\n"
		}
	}
	t.RegisterView.SetText(regs)

	tr := m.Trace()
	t.TraceView.SetText(fmt.Sprintf(
		"valid = %v\npc    = 0x%08x\ninst  = 0x%08x\nxmask = 0x%08x\nfmask = 0x%08x\ncsrs  = %d",
		tr.Valid, tr.PC, tr.Inst, tr.XRegMask, tr.FRegMask, tr.CSRCount))

	t.OutputView.SetText(t.Debugger.Output.String())
	t.OutputView.ScrollToEnd()
}

// Run starts the TUI event loop until the user quits.
func (t *TUI) Run() error {
	return t.App.Run()
}

// RunTUI is the package-level entry point main.go drives, mirroring the
// teacher's debugger.RunTUI(dbg) shape.
func RunTUI(d *Debugger) error {
	return NewTUI(d).Run()
}

// RunCLI is a minimal, non-TUI read-eval-print loop over stdin, used when
// a host wants the debugger without taking over the terminal (mirroring
// the teacher's debugger.RunCLI(dbg)).
func RunCLI(d *Debugger) error {
	fmt.Println("rv32core debugger - type 'help' for commands, 'quit' to exit")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("(rv32core) ")
		if !scanner.Scan() {
			return nil
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "quit" || line == "q" {
			return nil
		}
		if err := d.ExecuteCommand(line); err != nil {
			fmt.Printf("error: %v\n", err)
			continue
		}
		fmt.Print(d.Output.String())
		d.Output.Reset()
	}
}
