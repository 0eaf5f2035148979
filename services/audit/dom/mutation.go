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

// MutationKind identifies the kind of tree change.
type MutationKind string

const (
	// ChildInserted is a structural insertion of a new element.
	ChildInserted MutationKind = "child_inserted"

	// ChildRemoved is a structural removal of an element.
	ChildRemoved MutationKind = "child_removed"

	// AttributeChanged is a set or removal of an attribute.
	AttributeChanged MutationKind = "attribute_changed"
)

// Mutation is one change descriptor delivered to subscribers.
type Mutation struct {
	// Kind is the change kind.
	Kind MutationKind

	// Target is the inserted element or the element whose attribute
	// changed.
	Target *Element

	// Attr is the attribute name for AttributeChanged mutations.
	Attr string

	// OldValue is the attribute value before the change ("" when it
	// was absent).
	OldValue string
}

// SubscriberFunc receives a coalesced batch of mutations. The callback
// runs to completion before the next batch is delivered; mutations it
// performs itself are queued into a follow-up batch rather than
// delivered recursively.
type SubscriberFunc func(batch []Mutation)

// Subscribe registers a mutation subscriber and returns a handle for
// Unsubscribe.
func (d *Document) Subscribe(fn SubscriberFunc) int {
	d.nextSub++
	d.subscribers[d.nextSub] = fn
	return d.nextSub
}

// Unsubscribe removes a previously registered subscriber. Unknown
// handles are ignored.
func (d *Document) Unsubscribe(id int) {
	delete(d.subscribers, id)
}

// Batch groups every mutation performed inside fn into a single
// delivered batch, mirroring how host observers coalesce change
// records.
func (d *Document) Batch(fn func()) {
	d.batchDepth++
	fn()
	d.batchDepth--
	if d.batchDepth == 0 {
		d.deliver()
	}
}

// record queues a mutation and delivers it unless a Batch or an
// in-flight delivery is collecting.
func (d *Document) record(m Mutation) {
	d.pending = append(d.pending, m)
	if d.batchDepth == 0 && !d.delivering {
		d.deliver()
	}
}

// deliver drains pending mutations batch by batch. Mutations performed
// by subscriber callbacks land in pending and are drained by the same
// loop, so delivery never recurses.
func (d *Document) deliver() {
	if d.delivering {
		return
	}
	d.delivering = true
	defer func() { d.delivering = false }()

	for len(d.pending) > 0 {
		batch := d.pending
		d.pending = nil
		for _, fn := range d.subscribers {
			fn(batch)
		}
	}
}
