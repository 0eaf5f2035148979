// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package dom

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Document is a caller-owned element tree plus the mutation hub the
// live monitor subscribes to.
type Document struct {
	root *Element

	// DefaultFontFamily is the font the cascade resolver falls back to
	// when no ancestor declares one.
	DefaultFontFamily string

	subscribers map[int]SubscriberFunc
	nextSub     int
	pending     []Mutation
	batchDepth  int
	delivering  bool
}

// NewDocument creates a document with a synthetic root element.
func NewDocument() *Document {
	d := &Document{
		subscribers: make(map[int]SubscriberFunc),
	}
	d.root = &Element{Tag: "root", attrs: make(map[string]string), doc: d}
	return d
}

// Root returns the document's root element.
func (d *Document) Root() *Element {
	return d.root
}

// AppendChild attaches child under parent and notifies subscribers
// with a ChildInserted mutation. Appending a nil or already-attached
// element is an error.
func (d *Document) AppendChild(parent, child *Element) error {
	if parent == nil || child == nil {
		return ErrNilElement
	}
	if parent.doc != d {
		return fmt.Errorf("%w: parent belongs to another document", ErrDetachedElement)
	}
	if child.doc != nil {
		return fmt.Errorf("%w: element %q is already attached", ErrAlreadyAttached, child.Tag)
	}

	child.parent = parent
	parent.children = append(parent.children, child)
	adopt(child, d)

	d.record(Mutation{Kind: ChildInserted, Target: child})
	return nil
}

// RemoveChild detaches el from its parent and notifies subscribers
// with a ChildRemoved mutation. Removing the root is an error.
func (d *Document) RemoveChild(el *Element) error {
	if el == nil {
		return ErrNilElement
	}
	if el == d.root {
		return fmt.Errorf("%w: cannot remove the root", ErrNilElement)
	}
	if el.doc != d || el.parent == nil {
		return fmt.Errorf("%w: element %q", ErrDetachedElement, el.Tag)
	}

	siblings := el.parent.children
	for i, c := range siblings {
		if c == el {
			el.parent.children = append(siblings[:i:i], siblings[i+1:]...)
			break
		}
	}
	el.parent = nil
	adopt(el, nil)

	d.record(Mutation{Kind: ChildRemoved, Target: el})
	return nil
}

// adopt sets the owning document on el and its whole subtree.
func adopt(el *Element, d *Document) {
	el.doc = d
	for _, c := range el.children {
		adopt(c, d)
	}
}

// Walk visits every element under the root in document order
// (pre-order, excluding the synthetic root itself).
func (d *Document) Walk(fn func(*Element)) {
	var visit func(*Element)
	visit = func(el *Element) {
		fn(el)
		for _, c := range el.children {
			visit(c)
		}
	}
	for _, c := range d.root.children {
		visit(c)
	}
}

// Len returns the number of elements in the document, excluding the
// synthetic root.
func (d *Document) Len() int {
	n := 0
	d.Walk(func(*Element) { n++ })
	return n
}

// Parse builds a Document from HTML. Only element nodes are kept;
// text directly under an element is collected into its Text field.
// The synthetic root wraps whatever top-level elements the markup has.
func Parse(r io.Reader) (*Document, error) {
	node, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing html: %w", err)
	}

	d := NewDocument()
	var build func(parent *Element, n *html.Node)
	build = func(parent *Element, n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			switch c.Type {
			case html.ElementNode:
				el := NewElement(c.Data)
				for _, a := range c.Attr {
					el.attrs[strings.ToLower(a.Key)] = a.Val
				}
				el.parent = parent
				el.doc = d
				parent.children = append(parent.children, el)
				build(el, c)
			case html.TextNode:
				if t := strings.TrimSpace(c.Data); t != "" {
					if parent.Text == "" {
						parent.Text = t
					} else {
						parent.Text += " " + t
					}
				}
			}
		}
	}
	build(d.root, node)
	return d, nil
}

// ParseString is Parse over an in-memory HTML string.
func ParseString(markup string) (*Document, error) {
	return Parse(strings.NewReader(markup))
}
