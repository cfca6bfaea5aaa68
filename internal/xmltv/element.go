// SPDX-License-Identifier: GPL-3.0-or-later

package xmltv

import "encoding/xml"

// Element is a tagged representation of an optional XML element. An
// element is either text content, a presence flag, or a list of child
// elements; absent values emit nothing. One recursive emitter consumes
// the variant, so deeply optional structures need no per-field
// branching.
type Element struct {
	name     string
	attrs    []Attr
	kind     elementKind
	text     string
	flag     bool
	children []Element
}

// Attr is a single XML attribute. Attribute order is preserved.
type Attr struct {
	Name  string
	Value string
}

type elementKind uint8

const (
	kindText elementKind = iota
	kindFlag
	kindNested
)

// Text returns an element with character-data content. It is absent when
// value is empty.
func Text(name, value string, attrs ...Attr) Element {
	return Element{name: name, attrs: attrs, kind: kindText, text: value}
}

// Flag returns an empty element that is present only when set is true.
func Flag(name string, set bool, attrs ...Attr) Element {
	return Element{name: name, attrs: attrs, kind: kindFlag, flag: set}
}

// Nested returns an element containing child elements. It is absent when
// every child is absent.
func Nested(name string, children []Element, attrs ...Attr) Element {
	return Element{name: name, attrs: attrs, kind: kindNested, children: children}
}

func (e Element) present() bool {
	switch e.kind {
	case kindText:
		return e.text != ""
	case kindFlag:
		return e.flag
	case kindNested:
		for _, c := range e.children {
			if c.present() {
				return true
			}
		}
	}
	return false
}

// Emit writes the element and its children as tokens, escaping handled
// by the encoder. Absent elements produce no output.
func (e Element) Emit(enc *xml.Encoder) error {
	if !e.present() {
		return nil
	}
	start := xml.StartElement{Name: xml.Name{Local: e.name}}
	for _, a := range e.attrs {
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: a.Name}, Value: a.Value})
	}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	switch e.kind {
	case kindText:
		if err := enc.EncodeToken(xml.CharData(e.text)); err != nil {
			return err
		}
	case kindNested:
		for _, c := range e.children {
			if err := c.Emit(enc); err != nil {
				return err
			}
		}
	}
	return enc.EncodeToken(start.End())
}
