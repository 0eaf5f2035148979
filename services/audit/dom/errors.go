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

import "errors"

// Sentinel errors for the dom package.
var (
	// ErrNilElement indicates a nil element was passed to a tree operation.
	ErrNilElement = errors.New("nil element")

	// ErrDetachedElement indicates the element does not belong to this document.
	ErrDetachedElement = errors.New("detached element")

	// ErrAlreadyAttached indicates an element was inserted twice.
	ErrAlreadyAttached = errors.New("element already attached")
)
