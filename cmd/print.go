package cmd

import (
	"fmt"

	"github.com/charmbracelet/glamour"
)

// printMarkdown renders markdown to the terminal. On any rendering trouble
// it falls back to printing the raw markdown.
func printMarkdown(md string) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(0))
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
