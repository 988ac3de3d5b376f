// Package output renders walker lines and delivers the resulting snapshot.
package output

import (
	"iter"
	"strings"

	"github.com/temirov/dirsnap/internal/types"
)

const lineSeparator = "\n"

// Render joins the render lines with newline separators into a single snapshot.
func Render(lines iter.Seq[types.RenderLine]) string {
	var builder strings.Builder
	firstLine := true
	for line := range lines {
		if !firstLine {
			builder.WriteString(lineSeparator)
		}
		firstLine = false
		builder.WriteString(line.Prefix)
		builder.WriteString(line.Connector)
		builder.WriteString(line.Text)
	}
	return builder.String()
}
