package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"gochip8/pkg/asm"
	"gochip8/pkg/peripherals"
)

const testSource = `LD V0, 10
loop:
ADD V0, $FF
SE V0, 0
JP loop
`

func main() {
	src := testSource
	if len(os.Args) > 1 {
		data, err := os.ReadFile(os.Args[1])
		if err != nil {
			fmt.Fprintln(os.Stderr, "read error:", err)
			os.Exit(1)
		}
		src = string(data)
	}

	if err := dump(os.Stdout, src); err != nil {
		fmt.Fprintln(os.Stderr, "assembly error:", err)
		os.Exit(1)
	}
}

// dump assembles src and prints every stage: the label table, the source
// lines behind each address and the disassembly of the result.
func dump(w io.Writer, src string) error {
	a := asm.NewAssembler()
	code, sourceMap, err := a.Assemble(src)
	if err != nil {
		return err
	}

	labels := a.Labels()
	names := make([]string, 0, len(labels))
	for name := range labels {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return labels[names[i]] < labels[names[j]]
	})

	fmt.Fprintf(w, "Labels (%d)\n", len(names))
	for _, name := range names {
		fmt.Fprintf(w, "  %03X %s\n", labels[name], name)
	}
	fmt.Fprintln(w)

	lines := strings.Split(src, "\n")
	addrs := make([]uint16, 0, len(sourceMap))
	for addr := range sourceMap {
		addrs = append(addrs, addr)
	}
	sort.Slice(addrs, func(i, j int) bool { return addrs[i] < addrs[j] })

	fmt.Fprintln(w, "Source map")
	for _, addr := range addrs {
		lineNo := sourceMap[addr]
		text := ""
		if lineNo >= 1 && lineNo <= len(lines) {
			text = strings.TrimSpace(lines[lineNo-1])
		}
		fmt.Fprintf(w, "  %03X line %-4d %s\n", addr, lineNo, text)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Disassembly (%d bytes)\n", len(code))
	return asm.WriteListing(w, asm.Disassemble(code, peripherals.ProgramStart))
}
