// Package document implements the text buffer with incremental edit
// application described in spec.md L3, grounded on the positionToOffset/
// ApplyTextEdit pair in internal/sitteradapter/sitteradapter.go but
// generalized to either negotiated encoding via internal/offset.
package document

import "quartz/internal/offset"

// Document is a mutable text buffer.
type Document struct {
	text []byte
	enc  offset.Encoding
}

// New creates a Document with the given initial text.
func New(text string, enc offset.Encoding) *Document {
	return &Document{text: []byte(text), enc: enc}
}

// Text returns the current buffer contents.
func (d *Document) Text() []byte {
	return d.text
}

// Encoding returns the column encoding negotiated for this document.
func (d *Document) Encoding() offset.Encoding {
	return d.enc
}

// Replace splices newText into the byte range spanned by r.
func (d *Document) Replace(r offset.Range, newText string) {
	start := offset.PositionToByte(d.text, r.Start, d.enc)
	end := offset.PositionToByte(d.text, r.End, d.enc)
	if start > end {
		start, end = end, start
	}
	out := make([]byte, 0, len(d.text)-(end-start)+len(newText))
	out = append(out, d.text[:start]...)
	out = append(out, []byte(newText)...)
	out = append(out, d.text[end:]...)
	d.text = out
}

// ReplaceAll discards the current buffer and replaces it wholesale.
func (d *Document) ReplaceAll(newText string) {
	d.text = []byte(newText)
}
