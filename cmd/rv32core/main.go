// Command rv32core loads a program image into a simulated hart and either
// runs it to completion, drops into the interactive debugger, or serves the
// session API (SPEC_FULL.md §§9-11), mirroring the teacher's single
// flag-driven entry point (main.go) scaled to this engine's surface.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/relaysilicon/rv32core/api"
	"github.com/relaysilicon/rv32core/config"
	"github.com/relaysilicon/rv32core/debugger"
	"github.com/relaysilicon/rv32core/loader"
	"github.com/relaysilicon/rv32core/memory"
	"github.com/relaysilicon/rv32core/model"
)

func main() {
	var (
		debugMode  = flag.Bool("debug", false, "Start in debugger mode")
		tuiMode    = flag.Bool("tui", false, "Use the text UI debugger (implies -debug)")
		apiServer  = flag.Bool("api-server", false, "Start the HTTP session API server")
		configPath = flag.String("config", "", "Path to a TOML config file (default: per-platform config dir)")
		hexFormat  = flag.Bool("hex", false, "Treat the program file as newline-delimited 0xHEXWORD text instead of a flat binary")
		loadAddr   = flag.Uint64("load-addr", uint64(memory.CodeSegmentStart), "Address to load the program image at")
		entry      = flag.String("entry", "", "Entry pc (hex with 0x prefix or decimal); default: the config's reset_vector, or the load address if that is unset or zero")
		showHelp   = flag.Bool("help", false, "Show help information")
	)
	flag.Parse()

	if *showHelp {
		flag.Usage()
		return
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	if *apiServer {
		runAPIServer(cfg)
		return
	}

	args := flag.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "usage: rv32core [flags] <program-image>")
		os.Exit(1)
	}

	mem := memory.New()
	base := uint32(*loadAddr)
	var resolvedEntry uint32
	if *hexFormat {
		if _, err := loader.LoadHexWordsFile(mem, base, args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "load: %v\n", err)
			os.Exit(1)
		}
		resolvedEntry = base
	} else {
		if err := loader.LoadFlatBinaryFile(mem, base, args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "load: %v\n", err)
			os.Exit(1)
		}
		resolvedEntry = base
	}

	if *entry != "" {
		resolvedEntry = loader.ResolveEntryPoint(parseEntry(*entry), nil, base)
	} else if cfg.Execution.ResetVector != "" {
		resolvedEntry = config.ResetVectorValue(cfg)
		if resolvedEntry == 0 {
			resolvedEntry = base
		}
	}

	m := model.New(model.DefaultConfig())
	m.Reset(resolvedEntry)
	machine := &debugger.Machine{Model: m, Memory: mem}

	switch {
	case *tuiMode:
		dbg := debugger.NewDebugger(machine)
		if err := debugger.RunTUI(dbg); err != nil {
			fmt.Fprintf(os.Stderr, "debugger: %v\n", err)
			os.Exit(1)
		}
	case *debugMode:
		dbg := debugger.NewDebugger(machine)
		if err := debugger.RunCLI(dbg); err != nil {
			fmt.Fprintf(os.Stderr, "debugger: %v\n", err)
			os.Exit(1)
		}
	default:
		runToHalt(m, mem, cfg)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}

func parseEntry(s string) uint32 {
	v, err := parseUintAuto(s)
	if err != nil {
		return 0
	}
	return uint32(v)
}

func parseUintAuto(s string) (uint64, error) {
	if len(s) > 2 && (s[:2] == "0x" || s[:2] == "0X") {
		var v uint64
		_, err := fmt.Sscanf(s[2:], "%x", &v)
		return v, err
	}
	var v uint64
	_, err := fmt.Sscanf(s, "%d", &v)
	return v, err
}

// runToHalt steps the model until a trap occurs or cfg's step budget is
// exhausted, printing the final pc and any trap taken.
func runToHalt(m *model.Model, mem *memory.Memory, cfg *config.Config) {
	max := cfg.Execution.MaxSteps
	if max == 0 {
		max = 1_000_000
	}
	for i := uint64(0); i < max; i++ {
		res := m.Step(mem)
		if res.Trap != nil {
			fmt.Printf("trap: cause=%d payload=0x%08x pc=0x%08x (after %d steps)\n",
				res.Trap.Cause, res.Trap.Payload, uint32(m.PC()), i+1)
			return
		}
	}
	fmt.Printf("step budget exhausted at pc=0x%08x\n", uint32(m.PC()))
}

// runAPIServer starts the HTTP session API and blocks until SIGINT/SIGTERM.
func runAPIServer(cfg *config.Config) {
	srv := api.NewServer(cfg.API.Port)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		if err != nil {
			fmt.Fprintf(os.Stderr, "api server: %v\n", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}
}
