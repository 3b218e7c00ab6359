package ggboard

import "strings"

// wrapText splits text into paragraphs on explicit newlines and greedily
// word-wraps each one to maxWidth.
//
// Every paragraph yields at least one line, so a blank line in the input
// still advances the cursor. A single word wider than maxWidth is kept whole
// on its own line.
func wrapText(text string, maxWidth float64, m Measurer) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		lines = append(lines, wrapParagraph(para, maxWidth, m)...)
	}
	return lines
}

// wrapParagraph packs as many words per line as fit within maxWidth,
// breaking before the first word that would overflow.
func wrapParagraph(para string, maxWidth float64, m Measurer) []string {
	words := strings.Fields(para)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	line := words[0]
	for _, word := range words[1:] {
		candidate := line + " " + word
		if m.Measure(candidate) > maxWidth {
			lines = append(lines, line)
			line = word
			continue
		}
		line = candidate
	}
	return append(lines, line)
}
