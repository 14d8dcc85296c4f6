// Package loader populates a memory.Memory with a program image and
// resolves its entry point, the way the teacher's loader/loader.go
// populates a vm.VM from a parsed assembly program — except this engine
// has no assembler of its own (spec.md describes only the execution
// engine), so the image here is either a flat binary or the simple
// "0xHEXWORD per line" text format bassosimone-risc32's
// vm.LoadBytecode convention uses in the retrieval pack.
package loader

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/relaysilicon/rv32core/memory"
)

// Well-known entry symbol names, tried in this order, matching the
// teacher's FindEntryPoint convention.
var entrySymbolOrder = []string{"_start", "main", "__start", "start"}

// LoadFlatBinary copies a raw byte image into mem at base, word-aligning
// base first is the caller's responsibility (the code segment's Start is
// already aligned in the default memory.New layout).
func LoadFlatBinary(mem *memory.Memory, base uint32, image []byte) error {
	if err := mem.LoadBytes(base, image); err != nil {
		return fmt.Errorf("loading flat binary at 0x%08x: %w", base, err)
	}
	return nil
}

// LoadFlatBinaryFile reads path and loads it as a flat binary at base.
func LoadFlatBinaryFile(mem *memory.Memory, base uint32, path string) error {
	data, err := os.ReadFile(path) // #nosec G304 -- caller-specified program image path
	if err != nil {
		return fmt.Errorf("reading program image %s: %w", path, err)
	}
	return LoadFlatBinary(mem, base, data)
}

// LoadHexWords reads a text image, one "0xHHHHHHHH" (or bare decimal)
// 32-bit word per non-blank, non-comment line, and writes each word
// sequentially starting at base. A line beginning with '#' or ';' is a
// comment; blank lines are skipped. This is the per-line hex-word
// convention bassosimone-risc32's loader uses for tiny hand-assembled
// RV32 test programs that don't warrant a flat-binary toolchain step.
func LoadHexWords(mem *memory.Memory, base uint32, r io.Reader) (uint32, error) {
	scanner := bufio.NewScanner(r)
	addr := base
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";") {
			continue
		}
		if idx := strings.IndexAny(line, "#;"); idx >= 0 {
			line = strings.TrimSpace(line[:idx])
			if line == "" {
				continue
			}
		}
		var word uint64
		var err error
		if strings.HasPrefix(line, "0x") || strings.HasPrefix(line, "0X") {
			word, err = strconv.ParseUint(line[2:], 16, 32)
		} else {
			word, err = strconv.ParseUint(line, 10, 32)
		}
		if err != nil {
			return 0, fmt.Errorf("invalid instruction word %q: %w", line, err)
		}
		if err := mem.Write32(addr, uint32(word)); err != nil {
			return 0, fmt.Errorf("writing word at 0x%08x: %w", addr, err)
		}
		addr += 4
	}
	if err := scanner.Err(); err != nil {
		return 0, fmt.Errorf("reading hex-word image: %w", err)
	}
	return addr, nil
}

// LoadHexWordsFile reads path and loads it with LoadHexWords.
func LoadHexWordsFile(mem *memory.Memory, base uint32, path string) (uint32, error) {
	f, err := os.Open(path) // #nosec G304 -- caller-specified program image path
	if err != nil {
		return 0, fmt.Errorf("opening program image %s: %w", path, err)
	}
	defer f.Close()
	return LoadHexWords(mem, base, f)
}

// ResolveEntryPoint picks the entry pc: an explicit override if nonzero,
// else the first well-known symbol found in symbols, else base.
func ResolveEntryPoint(explicit uint32, symbols map[string]uint32, base uint32) uint32 {
	if explicit != 0 {
		return explicit
	}
	for _, name := range entrySymbolOrder {
		if addr, ok := symbols[name]; ok {
			return addr
		}
	}
	return base
}
