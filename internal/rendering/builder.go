package rendering

import (
	"fmt"
	"strings"
)

// Builder accumulates markup and keeps a stack of open tag names so that
// closing tags are always emitted in reverse order.
type Builder struct {
	buf   strings.Builder
	stack []string
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// OpenDocument writes the document preamble. An empty stylesheet omits the link.
func (b *Builder) OpenDocument(title, stylesheet string) {
	link := ""
	if stylesheet != "" {
		link = fmt.Sprintf(`<link rel="stylesheet" href="%s">`, stylesheet)
	}
	fmt.Fprintf(&b.buf,
		`<!DOCTYPE html><html lang="en"><head><meta charset="UTF-8"><meta name="viewport" content="width=device-width, initial-scale=1.0"><title>%s</title>%s</head><body>`,
		title, link)
}

// CloseDocument writes the document epilogue. It does not check that every
// tag has been closed; use Balanced for that.
func (b *Builder) CloseDocument() {
	b.buf.WriteString("</body></html>")
}

// Open writes "<tag>" and pushes the tag name, which is the first
// whitespace-delimited token of tag, so attributes may be passed inline.
func (b *Builder) Open(tag string) {
	name := tag
	if fields := strings.Fields(tag); len(fields) > 0 {
		name = fields[0]
	}
	b.stack = append(b.stack, name)
	b.buf.WriteString("<")
	b.buf.WriteString(tag)
	b.buf.WriteString(">")
}

// Close pops the innermost open tag and writes its closing tag.
func (b *Builder) Close() error {
	if len(b.stack) == 0 {
		return &StackUnderflowError{Offset: b.buf.Len()}
	}
	name := b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]
	b.buf.WriteString("</")
	b.buf.WriteString(name)
	b.buf.WriteString(">")
	return nil
}

// CloseAll closes every open tag.
func (b *Builder) CloseAll() {
	for len(b.stack) > 0 {
		_ = b.Close()
	}
}

// Text appends s verbatim. No escaping is applied.
func (b *Builder) Text(s string) {
	b.buf.WriteString(s)
}

// Element writes a complete "<tag>content</tag>" pair.
func (b *Builder) Element(tag, content string) {
	b.Open(tag)
	b.Text(content)
	_ = b.Close()
}

// Depth is the number of currently open tags.
func (b *Builder) Depth() int {
	return len(b.stack)
}

// Balanced reports whether every opened tag has been closed.
func (b *Builder) Balanced() bool {
	return len(b.stack) == 0
}

func (b *Builder) String() string {
	return b.buf.String()
}
