package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
)

// printMarkdown renders md on a terminal, and prints it as is otherwise.
func printMarkdown(md string) {
	if info, err := os.Stdout.Stat(); err != nil || info.Mode()&os.ModeCharDevice == 0 {
		fmt.Print(md)
		return
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(120),
	)
	if err != nil {
		fmt.Print(md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}
