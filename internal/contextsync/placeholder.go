package contextsync

import "regexp"

// placeholderPattern matches a bracketed span on a single line, such as
// "[One sentence description]". Nested brackets are not considered.
var placeholderPattern = regexp.MustCompile(`\[([^\[\]\n]+)\]`)

// HasPlaceholders reports whether content still contains bracketed
// fill-in-the-blank instructions from the template.
//
// The check is a heuristic and only feeds a warning. Markdown links
// ("[text](url)", "[text][ref]") and checklist boxes ("[ ]", "[x]") are
// not counted; any other bracketed text is.
func HasPlaceholders(content string) bool {
	for _, loc := range placeholderPattern.FindAllStringSubmatchIndex(content, -1) {
		start, end := loc[0], loc[1]
		inner := content[loc[2]:loc[3]]

		if len(inner) == 1 && (inner == " " || inner == "x" || inner == "X") {
			continue
		}
		if end < len(content) && (content[end] == '(' || content[end] == '[') {
			continue
		}
		// Second half of "[text][ref]".
		if start > 0 && content[start-1] == ']' {
			continue
		}
		// Reference-style link targets: "[ref]: https://..."
		if end < len(content) && content[end] == ':' {
			continue
		}
		return true
	}
	return false
}
