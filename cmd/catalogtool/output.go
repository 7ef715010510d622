package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

// statusLineFormat truncates and right-pads printed content to a fixed
// width so each update fully overwrites the previous one, matching
// cmd/output_posix.go from the teacher.
const statusLineFormat = "\r%-80.80s"

// statusLinePrinter prints a dynamically updating single line of console
// output, grounded on cmd/output.go's StatusLinePrinter.
type statusLinePrinter struct {
	nonEmpty bool
}

// print overwrites the status line with message.
func (p *statusLinePrinter) print(message string) {
	fmt.Fprintf(color.Output, statusLineFormat, message)
	p.nonEmpty = true
}

// clear blanks the status line and returns the cursor to its start.
func (p *statusLinePrinter) clear() {
	p.print("")
	fmt.Fprint(os.Stdout, "\r")
	p.nonEmpty = false
}

// breakIfNonEmpty starts a new line if the status line currently holds
// content, so a following Println doesn't overwrite it.
func (p *statusLinePrinter) breakIfNonEmpty() {
	if p.nonEmpty {
		fmt.Println()
		p.nonEmpty = false
	}
}
