package display

import (
	"fmt"
	"io"
	"strings"
)

// RenderBoard prints the server's ASCII diagram with colored pieces. Squares
// named in targets are marked: '*' when empty, the piece in green when taken.
func RenderBoard(w io.Writer, asciiBoard string, targets ...string) {
	marked := make(map[string]bool, len(targets))
	for _, t := range targets {
		marked[t] = true
	}

	for _, line := range strings.Split(asciiBoard, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if trimmed[0] < '0' || trimmed[0] > '9' {
			// File letters
			fmt.Fprintf(w, "%s%s%s\n", Cyan, line, Reset)
			continue
		}
		renderRank(w, line, marked)
	}
}

// renderRank colors one "<rank> cells... <rank>" line
func renderRank(w io.Writer, line string, marked map[string]bool) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		fmt.Fprintln(w, line)
		return
	}
	rank := fields[0]
	pad := len(line) - len(strings.TrimLeft(line, " "))

	fmt.Fprintf(w, "%s%s%s%s ", strings.Repeat(" ", pad), Cyan, rank, Reset)
	for i, cell := range fields[1 : len(fields)-1] {
		sq := fmt.Sprintf("%c%s", 'a'+i, rank)
		ch := cell[0]
		switch {
		case marked[sq] && ch == '.':
			fmt.Fprintf(w, "%s*%s ", Green, Reset)
		case marked[sq]:
			fmt.Fprintf(w, "%s%c%s ", Green, ch, Reset)
		case ch >= 'A' && ch <= 'Z':
			fmt.Fprintf(w, "%s%c%s ", Blue, ch, Reset)
		case ch >= 'a' && ch <= 'z':
			fmt.Fprintf(w, "%s%c%s ", Red, ch, Reset)
		default:
			fmt.Fprintf(w, "%c ", ch)
		}
	}
	fmt.Fprintf(w, "%s%s%s\n", Cyan, rank, Reset)
}
