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

// StyleResolver resolves the effective computed style of an element.
// The page layer owns the real cascade; the engine only consumes the
// result. A nil resolver means computed-style checks are skipped.
type StyleResolver interface {
	// ComputedFontFamily returns the element's effective font-family
	// value, or "" when it cannot be resolved.
	ComputedFontFamily(el *Element) string
}

// CascadeResolver is a cascade-lite StyleResolver: it honors the
// nearest inline font-family declaration on the element or its
// ancestors, then falls back to the document default. It approximates
// inheritance, not the full CSS cascade.
type CascadeResolver struct {
	doc *Document
}

// NewCascadeResolver creates a resolver bound to a document.
func NewCascadeResolver(doc *Document) *CascadeResolver {
	return &CascadeResolver{doc: doc}
}

// ComputedFontFamily walks from el to the root looking for an inline
// font-family declaration, then falls back to the document default.
func (r *CascadeResolver) ComputedFontFamily(el *Element) string {
	for cur := el; cur != nil; cur = cur.parent {
		if style, ok := cur.InlineStyle(); ok {
			if ff := inlineStyleProperty(style, "font-family"); ff != "" {
				return ff
			}
		}
	}
	if r.doc != nil {
		return r.doc.DefaultFontFamily
	}
	return ""
}
