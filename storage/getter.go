// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"github.com/bitmark-inc/contractdb/fault"
)

// initial capacity of a Fetch result, a page may be far larger than
// the keys actually present
const fetchCapacity = 256

// Item - one key/value returned by a RangeGetter
type Item[V any] struct {
	Key   []byte
	Value V
}

// RangeGetter - one page of the keys sharing a prefix
//
// the cache's own entries are fixed when the getter is created, the
// store beneath is read as the getter advances
type RangeGetter[V any] struct {
	source   cursor[V]
	count    int
	returned int
	current  entry[V]
	lastKey  []byte
	err      error
}

// NewRangeGetter - iterate at most count keys of cache beginning with
// prefix, strictly after startAfter if that is not empty
//
// only a bottom cache (one with no base) can be iterated
func NewRangeGetter[V any](cache *Cache[V], prefix []byte, startAfter []byte, count int) (*RangeGetter[V], error) {
	if nil == cache {
		return nil, fault.ErrInvalidCursor
	}
	if nil != cache.Base() {
		return nil, fault.ErrUnsupportedNestedCache
	}
	if count <= 0 {
		return nil, fault.ErrInvalidCount
	}

	var after []byte
	if len(startAfter) > 0 {
		after = clone(startAfter)
	}

	return &RangeGetter[V]{
		source:  cache.cursor(clone(prefix), after, count),
		count:   count,
		lastKey: after,
	}, nil
}

// Next - advance to the next item, false at the end of the page or
// on error
func (g *RangeGetter[V]) Next() bool {
	if nil != g.err || g.returned >= g.count {
		return false
	}

	e, ok, err := g.source.next()
	if nil != err {
		g.err = err
		return false
	}
	if !ok {
		return false
	}

	g.current = e
	g.lastKey = []byte(e.key)
	g.returned += 1
	return true
}

// Key - key of the current item
func (g *RangeGetter[V]) Key() []byte {
	return []byte(g.current.key)
}

// Value - value of the current item
func (g *RangeGetter[V]) Value() V {
	return g.current.value
}

// LastKey - key of the most recent item, the cursor for the next page
//
// before any item this is the startAfter the getter was created with
func (g *RangeGetter[V]) LastKey() []byte {
	return clone(g.lastKey)
}

// Count - number of items returned so far
func (g *RangeGetter[V]) Count() int {
	return g.returned
}

// Error - the error that stopped iteration, if any
func (g *RangeGetter[V]) Error() error {
	return g.err
}

// Fetch - all remaining items of the page
func (g *RangeGetter[V]) Fetch() ([]Item[V], error) {
	n := g.count - g.returned
	if n > fetchCapacity {
		n = fetchCapacity
	}
	items := make([]Item[V], 0, n)
	for g.Next() {
		items = append(items, Item[V]{
			Key:   g.Key(),
			Value: g.Value(),
		})
	}
	return items, g.err
}
