// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package dom models the UI element tree the audit engine inspects.
//
// # Description
//
// The package owns the collaborator boundary between the compliance engine
// and the page layer: a tree of elements with class/style/attribute
// accessors, a document-order walk, a computed-style resolver, and a
// mutation-subscription hub that decouples live re-validation from any
// host change-notification mechanism. Documents can be built
// programmatically or parsed from HTML.
//
// # Thread Safety
//
// A Document and its elements belong to a single logical thread of
// control. Mutation callbacks run synchronously; there is no internal
// locking.
package dom

import "strings"

// Element is one node of the UI tree. The audit engine holds non-owning
// references to elements; the tree is owned by the caller.
type Element struct {
	// Tag is the lowercased element name ("div", "button", "style").
	Tag string

	// Text is the concatenated text content directly under this element.
	Text string

	attrs    map[string]string
	children []*Element
	parent   *Element
	doc      *Document
}

// NewElement creates a detached element with the given tag and
// attribute pairs ("class", "p-4", "style", "color: red", ...).
// Attach it to a tree with Document.AppendChild.
func NewElement(tag string, attrPairs ...string) *Element {
	el := &Element{
		Tag:   strings.ToLower(tag),
		attrs: make(map[string]string),
	}
	for i := 0; i+1 < len(attrPairs); i += 2 {
		el.attrs[strings.ToLower(attrPairs[i])] = attrPairs[i+1]
	}
	return el
}

// Attr returns the value of the named attribute and whether it is set.
func (e *Element) Attr(name string) (string, bool) {
	v, ok := e.attrs[strings.ToLower(name)]
	return v, ok
}

// Attrs returns a copy of the attribute map.
func (e *Element) Attrs() map[string]string {
	out := make(map[string]string, len(e.attrs))
	for k, v := range e.attrs {
		out[k] = v
	}
	return out
}

// SetAttr sets an attribute. If the element is attached to a document,
// subscribers receive an AttributeChanged mutation carrying the old value.
func (e *Element) SetAttr(name, value string) {
	name = strings.ToLower(name)
	old := e.attrs[name]
	e.attrs[name] = value
	if e.doc != nil {
		e.doc.record(Mutation{Kind: AttributeChanged, Target: e, Attr: name, OldValue: old})
	}
}

// RemoveAttr deletes an attribute. A no-op when the attribute is absent.
func (e *Element) RemoveAttr(name string) {
	name = strings.ToLower(name)
	old, ok := e.attrs[name]
	if !ok {
		return
	}
	delete(e.attrs, name)
	if e.doc != nil {
		e.doc.record(Mutation{Kind: AttributeChanged, Target: e, Attr: name, OldValue: old})
	}
}

// ClassList returns the whitespace-split class tokens, or nil when the
// class attribute is absent.
func (e *Element) ClassList() []string {
	raw, ok := e.Attr("class")
	if !ok {
		return nil
	}
	return strings.Fields(raw)
}

// HasClass reports whether the class list contains the given token.
func (e *Element) HasClass(name string) bool {
	for _, c := range e.ClassList() {
		if c == name {
			return true
		}
	}
	return false
}

// AddClass appends a class token if not already present. Routed through
// SetAttr so subscribers observe the change.
func (e *Element) AddClass(name string) {
	if e.HasClass(name) {
		return
	}
	raw, _ := e.Attr("class")
	if raw == "" {
		e.SetAttr("class", name)
		return
	}
	e.SetAttr("class", raw+" "+name)
}

// RemoveClass drops a class token if present.
func (e *Element) RemoveClass(name string) {
	if !e.HasClass(name) {
		return
	}
	var kept []string
	for _, c := range e.ClassList() {
		if c != name {
			kept = append(kept, c)
		}
	}
	if len(kept) == 0 {
		e.RemoveAttr("class")
		return
	}
	e.SetAttr("class", strings.Join(kept, " "))
}

// InlineStyle returns the raw inline style text and whether the style
// attribute is present.
func (e *Element) InlineStyle() (string, bool) {
	return e.Attr("style")
}

// Parent returns the parent element, or nil for the root or a detached
// element.
func (e *Element) Parent() *Element {
	return e.parent
}

// Children returns the child elements in insertion order. The returned
// slice is the element's own; callers must not mutate it.
func (e *Element) Children() []*Element {
	return e.children
}

// Document returns the owning document, or nil while detached.
func (e *Element) Document() *Document {
	return e.doc
}

// inlineStyleProperty extracts the value of one property from an inline
// style declaration block, or "" when not declared. Matching is textual;
// the engine never interprets CSS beyond this.
func inlineStyleProperty(style, property string) string {
	for _, decl := range strings.Split(style, ";") {
		name, value, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(name), property) {
			return strings.TrimSpace(value)
		}
	}
	return ""
}
