// Package marker locates BEGIN/END sentinel pairs inside text documents and
// splices new content between them.
//
// A document with a marker pair is split into three spans:
//
//	preamble   everything up to and including the BEGIN marker's line
//	body       the text between that line break and the END marker
//	postamble  the END marker and everything after it
//
// Only the body is ever rewritten. The BEGIN line, including any annotation
// written after the marker token, and the postamble are preserved byte for
// byte.
package marker

import "strings"

// Span holds the offsets that separate a document into preamble, body and
// postamble.
type Span struct {
	// Begin is the offset of the BEGIN marker.
	Begin int
	// BodyStart is the offset of the line break that ends the BEGIN
	// marker's line, or the document length when there is none.
	BodyStart int
	// End is the offset of the END marker.
	End int
}

// Preamble returns the BEGIN marker's line and everything before it, without
// the line's terminating line break.
func (s Span) Preamble(doc string) string {
	return doc[:s.BodyStart]
}

// Body returns the text currently between the markers.
func (s Span) Body(doc string) string {
	return doc[s.BodyStart:s.End]
}

// Postamble returns the END marker and everything after it.
func (s Span) Postamble(doc string) string {
	return doc[s.End:]
}

// Locate finds the first BEGIN marker and the first END marker after it.
// The BEGIN marker matches as a prefix: its line may carry free-form text
// after the marker token. ok is false when either marker is missing or the
// END marker does not come after the BEGIN marker.
func Locate(doc, begin, end string) (span Span, ok bool) {
	if begin == "" || end == "" {
		return Span{}, false
	}

	b := strings.Index(doc, begin)
	if b < 0 {
		return Span{}, false
	}

	// END must start strictly after BEGIN; an END that appears only
	// before BEGIN leaves the pair out of order.
	e := strings.Index(doc[b+1:], end)
	if e < 0 {
		return Span{}, false
	}
	e += b + 1

	bodyStart := len(doc)
	if nl := strings.IndexByte(doc[b:], '\n'); nl >= 0 {
		bodyStart = b + nl
	}

	// END sits on the BEGIN line itself; there is no body to replace.
	if e < bodyStart {
		return Span{}, false
	}

	return Span{Begin: b, BodyStart: bodyStart, End: e}, true
}

// Splice replaces the body of doc with body and reports whether the
// resulting document differs from doc.
//
// Trailing whitespace and leading blank lines are trimmed from body so that
// exactly one blank line separates it from each marker regardless of how
// the source was formatted. An empty body leaves a single blank line
// between the markers.
//
// Inserted line breaks follow the BEGIN line: when it ends in "\r\n" the
// separators and the body's own line breaks are written as "\r\n".
func Splice(doc string, span Span, body string) (string, bool) {
	preamble := span.Preamble(doc)
	eol := "\n"
	if strings.HasSuffix(preamble, "\r") {
		eol = "\r\n"
	}

	body = strings.ReplaceAll(TrimBody(body), "\r\n", "\n")
	if eol != "\n" {
		body = strings.ReplaceAll(body, "\n", eol)
	}

	var b strings.Builder
	b.Grow(len(doc) + len(body) + 4*len(eol))

	// The preamble stops short of the BEGIN line's "\n"; any "\r" is already in it.
	b.WriteString(preamble)
	b.WriteString("\n")
	b.WriteString(eol)
	if body != "" {
		b.WriteString(body)
		b.WriteString(eol)
		b.WriteString(eol)
	}
	b.WriteString(span.Postamble(doc))

	updated := b.String()
	return updated, updated != doc
}

// TrimBody normalizes body text before it is spliced. Indentation on the
// first line is kept.
func TrimBody(body string) string {
	body = strings.TrimRight(body, " \t\r\n")
	for {
		nl := strings.IndexByte(body, '\n')
		if nl < 0 || strings.TrimSpace(body[:nl]) != "" {
			return body
		}
		body = body[nl+1:]
	}
}

// Replace locates the marker pair in doc and splices body between it.
// found is false when doc has no usable marker pair, in which case doc is
// returned unchanged.
func Replace(doc, begin, end, body string) (updated string, changed, found bool) {
	span, ok := Locate(doc, begin, end)
	if !ok {
		return doc, false, false
	}
	updated, changed = Splice(doc, span, body)
	return updated, changed, true
}
