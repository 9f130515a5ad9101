package mdpreview

import "regexp"

// Line ending normalization.
var crlfOrCR = regexp.MustCompile(`\r\n?`)

// NormalizeLineEndings converts \r\n and \r to \n. This is the only
// source rewrite the renderer performs: anything that adds or removes
// lines would shift the numbering the line map is built on.
func NormalizeLineEndings(content string) string {
	return crlfOrCR.ReplaceAllString(content, "\n")
}
