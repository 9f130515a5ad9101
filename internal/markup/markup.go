// Package markup provides the structured output nodes rendering rules
// produce. Attributes are attached to nodes before serialization, so no
// stage ever has to splice text into already-rendered markup.
package markup

import (
	"html"
	"strings"
)

// Node is one piece of renderable output.
type Node interface {
	write(b *strings.Builder)
}

// Element is a markup tag with ordered attributes and child nodes.
type Element struct {
	Tag      string
	Attrs    []Attr
	Children []Node

	// SelfClose renders the element as <tag ... /> with no children.
	SelfClose bool
}

// Attr is one serialized attribute. Values are escaped on render.
type Attr struct {
	Key   string
	Value string
}

// Text is character data, escaped at serialization time.
type Text string

// Raw is pre-rendered markup emitted verbatim. Only trusted producers
// (the syntax highlighter) may create Raw nodes.
type Raw string

// NewElement returns an element with the given tag and children.
func NewElement(tag string, children ...Node) *Element {
	return &Element{Tag: tag, Children: children}
}

// SetAttr sets key to value, replacing an existing entry in place.
func (e *Element) SetAttr(key, value string) *Element {
	for i := range e.Attrs {
		if e.Attrs[i].Key == key {
			e.Attrs[i].Value = value
			return e
		}
	}
	e.Attrs = append(e.Attrs, Attr{Key: key, Value: value})
	return e
}

// Attr returns the value for key and whether it is present.
func (e *Element) Attr(key string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

// Append adds children to the element.
func (e *Element) Append(children ...Node) *Element {
	e.Children = append(e.Children, children...)
	return e
}

func (e *Element) write(b *strings.Builder) {
	b.WriteByte('<')
	b.WriteString(e.Tag)
	for _, a := range e.Attrs {
		b.WriteByte(' ')
		b.WriteString(a.Key)
		b.WriteString(`="`)
		b.WriteString(html.EscapeString(a.Value))
		b.WriteByte('"')
	}
	if e.SelfClose {
		b.WriteString(" />")
		return
	}
	b.WriteByte('>')
	for _, c := range e.Children {
		c.write(b)
	}
	b.WriteString("</")
	b.WriteString(e.Tag)
	b.WriteByte('>')
}

func (t Text) write(b *strings.Builder) {
	b.WriteString(html.EscapeString(string(t)))
}

func (r Raw) write(b *strings.Builder) {
	b.WriteString(string(r))
}

// Render serializes nodes to a markup string.
func Render(nodes ...Node) string {
	var b strings.Builder
	for _, n := range nodes {
		n.write(&b)
	}
	return b.String()
}
