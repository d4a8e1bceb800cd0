// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"sync"

	"github.com/tidwall/btree"
)

// one locally held key
//
// a clean entry is a memoized read from below and is never flushed
type entry[V any] struct {
	key     string
	value   V
	record  []byte // encoded value, nil for a tombstone
	deleted bool
	dirty   bool
	size    int
}

func entryLess[V any](a, b entry[V]) bool {
	return a.key < b.key
}

// Cache - copy-on-write overlay of one collection
//
// each cache is written by one goroutine, but overlays on other
// goroutines may read through it and flush into it concurrently
//
// locks are always taken overlay first, then base
type Cache[V any] struct {
	lock sync.RWMutex

	name  string
	codec Codec[V]
	base  *Cache[V] // borrowed
	store Store     // only for the bottom cache
	sizer Store     // store at the bottom of the chain, for size estimates
	delta *btree.BTreeG[entry[V]]
	size  int
}

// NewCache - bottom cache of a chain
//
// a nil store gives a self-contained cache with nothing beneath it
func NewCache[V any](name string, codec Codec[V], store Store) *Cache[V] {
	return &Cache[V]{
		name:  name,
		codec: codec,
		store: store,
		sizer: store,
		delta: newDelta[V](),
	}
}

// NewOverlay - cache layered on base
//
// base must outlive the overlay; the overlay never modifies base
// except by Flush
func NewOverlay[V any](base *Cache[V]) *Cache[V] {
	return &Cache[V]{
		name:  base.name,
		codec: base.codec,
		base:  base,
		sizer: base.sizer,
		delta: newDelta[V](),
	}
}

func newDelta[V any]() *btree.BTreeG[entry[V]] {
	return btree.NewBTreeGOptions(entryLess[V], btree.Options{NoLocks: true})
}

// Name - collection name
func (c *Cache[V]) Name() string {
	return c.name
}

// Base - the cache this one is layered on, nil for a bottom cache
func (c *Cache[V]) Base() *Cache[V] {
	return c.base
}

// Len - number of locally held entries, including tombstones
func (c *Cache[V]) Len() int {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return c.delta.Len()
}

// Size - estimated bytes held locally
func (c *Cache[V]) Size() int {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return c.size
}

// Get - read the value visible through this cache
//
// a value read from below is memoized in this cache
func (c *Cache[V]) Get(key []byte) (V, bool, error) {
	var zero V

	k := string(key)
	c.lock.RLock()
	e, ok := c.delta.Get(entry[V]{key: k})
	c.lock.RUnlock()
	if ok {
		if e.deleted {
			return zero, false, nil
		}
		return e.value, true, nil
	}

	e, found, err := c.below(k)
	if nil != err || !found || e.deleted {
		return zero, false, err
	}

	c.lock.Lock()
	defer c.lock.Unlock()

	// an overlay may have flushed this key in meanwhile
	if local, ok := c.delta.Get(entry[V]{key: k}); ok {
		if local.deleted {
			return zero, false, nil
		}
		return local.value, true, nil
	}

	e.dirty = false
	c.put(e)

	return e.value, true, nil
}

// Have - true if Get would find the key
func (c *Cache[V]) Have(key []byte) (bool, error) {
	_, found, err := c.Get(key)
	return found, err
}

// Set - record a value
//
// the value is encoded first, so a rejected value leaves the cache
// unchanged
func (c *Cache[V]) Set(key []byte, value V) error {
	record, err := c.codec.Encode(value)
	if nil != err {
		return err
	}

	c.lock.Lock()
	defer c.lock.Unlock()

	c.put(entry[V]{
		key:    string(key),
		value:  value,
		record: record,
		dirty:  true,
	})
	return nil
}

// Erase - hide a key
//
// a self-contained cache simply drops it, any other records a
// tombstone that shadows the layers below until flushed
func (c *Cache[V]) Erase(key []byte) {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.erase(string(key))
}

func (c *Cache[V]) erase(k string) {
	if c.selfContained() {
		c.remove(k)
		return
	}
	c.put(entry[V]{
		key:     k,
		deleted: true,
		dirty:   true,
	})
}

// Discard - drop every local entry, nothing below is affected
func (c *Cache[V]) Discard() {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.clear()
}

func (c *Cache[V]) clear() {
	c.delta.Clear()
	c.size = 0
}

// AllElements - every visible key/value in the collection
func (c *Cache[V]) AllElements() (map[string]V, error) {
	result := make(map[string]V)

	source := c.cursor(nil, nil, 0)
	for {
		e, ok, err := source.next()
		if nil != err {
			return nil, err
		}
		if !ok {
			return result, nil
		}
		result[e.key] = e.value
	}
}

// Flush - move all dirty entries one level down and clear this cache
//
// a failed store write returns the error and keeps every entry
func (c *Cache[V]) Flush() error {
	c.lock.Lock()
	defer c.lock.Unlock()

	if 0 == c.delta.Len() {
		return nil
	}

	switch {
	case nil != c.base:
		n := c.flushToBase()
		metrics().recordFlush(c.name, targetBase, n, nil)

	case nil != c.store:
		n, err := c.flushToStore()
		metrics().recordFlush(c.name, targetStore, n, err)
		if nil != err {
			return err
		}

	default:
		// self-contained: nothing below to flush into
		return nil
	}

	c.clear()
	return nil
}

func (c *Cache[V]) flushToBase() int {
	base := c.base

	base.lock.Lock()
	defer base.lock.Unlock()

	n := 0
	c.delta.Scan(func(e entry[V]) bool {
		if !e.dirty {
			return true
		}
		if e.deleted {
			base.erase(e.key)
		} else {
			base.put(e)
		}
		n += 1
		return true
	})
	return n
}

func (c *Cache[V]) flushToStore() (int, error) {
	batch := NewBatch()
	c.delta.Scan(func(e entry[V]) bool {
		if !e.dirty {
			return true
		}
		if e.deleted {
			batch.Delete([]byte(e.key))
		} else {
			batch.Put([]byte(e.key), e.record)
		}
		return true
	})

	if 0 == batch.Len() {
		return 0, nil
	}
	return batch.Len(), c.store.Write(batch)
}

// look up a key in the layers below this one
func (c *Cache[V]) below(k string) (entry[V], bool, error) {
	switch {
	case nil != c.base:
		return c.base.lookup(k)

	case nil != c.store:
		record, found, err := c.store.Get([]byte(k))
		if nil != err || !found {
			return entry[V]{}, false, err
		}
		value, err := c.codec.Decode(record)
		if nil != err {
			return entry[V]{}, false, err
		}
		return entry[V]{key: k, value: value, record: record}, true, nil

	default:
		return entry[V]{}, false, nil
	}
}

// read through this cache without memoizing, so that overlays may
// share a base; a found tombstone is returned as deleted
func (c *Cache[V]) lookup(k string) (entry[V], bool, error) {
	c.lock.RLock()
	defer c.lock.RUnlock()

	if e, ok := c.delta.Get(entry[V]{key: k}); ok {
		return e, true, nil
	}
	return c.below(k)
}

func (c *Cache[V]) selfContained() bool {
	return nil == c.base && nil == c.store
}

// store an entry and keep the size total in step
func (c *Cache[V]) put(e entry[V]) {
	e.size = len(e.key)
	if !e.deleted {
		e.size += c.estimate(e.record)
	}
	if previous, replaced := c.delta.Set(e); replaced {
		c.size -= previous.size
	}
	c.size += e.size
}

func (c *Cache[V]) remove(k string) {
	if previous, found := c.delta.Delete(entry[V]{key: k}); found {
		c.size -= previous.size
	}
}

func (c *Cache[V]) estimate(record []byte) int {
	if nil != c.sizer {
		return c.sizer.EstimateSize(record)
	}
	return len(record)
}
