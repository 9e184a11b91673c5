package common

import (
	"strings"
	"unicode"

	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/truncate"
)

// IsStringInSlice returns true if string `str` is found in `slice`.
func IsStringInSlice(str string, slice []string) bool {
	for _, s := range slice {
		if str == s {
			return true
		}
	}
	return false
}

// IsStringInSliceFold is IsStringInSlice with case-insensitive comparison.
func IsStringInSliceFold(str string, slice []string) bool {
	for _, s := range slice {
		if strings.EqualFold(str, s) {
			return true
		}
	}
	return false
}

// FillText collapses all whitespace in `text` and wraps it into lines of at most `width` columns. Lines may
// also break after a hyphen inside a word ("well-" / "tailored"), and words longer than `width` are broken.
func FillText(text string, width int) string {
	var lines []string
	var line strings.Builder
	lineWidth := 0
	flush := func() {
		if lineWidth > 0 {
			lines = append(lines, line.String())
		}
		line.Reset()
		lineWidth = 0
	}
	for _, word := range strings.Fields(text) {
		for i, chunk := range splitAfterHyphens(word) {
			sep := ""
			if i == 0 && lineWidth > 0 {
				sep = " "
			}
			chunkWidth := ansi.PrintableRuneWidth(chunk)
			if lineWidth+len(sep)+chunkWidth <= width {
				line.WriteString(sep + chunk)
				lineWidth += len(sep) + chunkWidth
				continue
			}
			if chunkWidth <= width {
				flush()
				line.WriteString(chunk)
				lineWidth = chunkWidth
				continue
			}
			// too long for any line: fill what's left of the current one, then continue on the next lines
			for chunk != "" {
				space := width - lineWidth - len(sep)
				if space <= 0 {
					flush()
					sep = ""
					continue
				}
				piece := truncate.String(chunk, uint(space))
				if piece == "" {
					if lineWidth > 0 {
						flush()
						sep = ""
						continue
					}
					// a single rune wider than the line
					piece = string([]rune(chunk)[:1])
				}
				line.WriteString(sep + piece)
				lineWidth += len(sep) + ansi.PrintableRuneWidth(piece)
				sep = ""
				chunk = chunk[len(piece):]
				if chunk != "" {
					flush()
				}
			}
		}
	}
	flush()
	return strings.Join(lines, "\n")
}

// splitAfterHyphens cuts "bright-red" into "bright-" and "red". Hyphens not surrounded by letters are kept as is.
func splitAfterHyphens(word string) []string {
	runes := []rune(word)
	var chunks []string
	start := 0
	for i := 1; i < len(runes)-1; i++ {
		if runes[i] == '-' && unicode.IsLetter(runes[i-1]) && unicode.IsLetter(runes[i+1]) {
			chunks = append(chunks, string(runes[start:i+1]))
			start = i + 1
		}
	}
	return append(chunks, string(runes[start:]))
}
