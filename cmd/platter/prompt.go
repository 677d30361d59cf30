package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// consolePrompter settles metadata conflicts on the terminal. Away
// from a terminal it picks the catalog value so unattended runs never
// block on stdin.
type consolePrompter struct {
	in  *os.File
	out *os.File
}

func newConsolePrompter() *consolePrompter {
	return &consolePrompter{in: os.Stdin, out: os.Stdout}
}

func (p *consolePrompter) interactive() bool {
	return isatty.IsTerminal(p.in.Fd()) && isatty.IsTerminal(p.out.Fd())
}

// ChooseArtist asks which artist name to keep.
func (p *consolePrompter) ChooseArtist(ripped, catalog string) (string, error) {
	if !p.interactive() {
		return catalog, nil
	}

	fmt.Fprintf(p.out, "Artist name conflict:\n")
	fmt.Fprintf(p.out, "  1) %s (entered at rip time)\n", ripped)
	fmt.Fprintf(p.out, "  2) %s (catalog)\n", catalog)
	fmt.Fprintf(p.out, "Keep which? [2]: ")

	reader := bufio.NewReader(p.in)
	line, err := reader.ReadString('\n')
	if err != nil {
		return catalog, nil
	}
	switch strings.TrimSpace(line) {
	case "1":
		return ripped, nil
	default:
		return catalog, nil
	}
}

// promptLine reads one answer, returning fallback away from a terminal
// or on empty input.
func (p *consolePrompter) promptLine(question, fallback string) string {
	if !p.interactive() {
		return fallback
	}
	if fallback != "" {
		fmt.Fprintf(p.out, "%s [%s]: ", question, fallback)
	} else {
		fmt.Fprintf(p.out, "%s: ", question)
	}
	reader := bufio.NewReader(p.in)
	line, err := reader.ReadString('\n')
	if err != nil {
		return fallback
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return fallback
	}
	return line
}
