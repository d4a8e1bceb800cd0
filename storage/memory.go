// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"strings"
	"sync"

	"github.com/tidwall/btree"
)

type memoryItem struct {
	key   string
	value []byte
}

func memoryLess(a, b memoryItem) bool {
	return a.key < b.key
}

// Memory - an in-memory store
type Memory struct {
	sync.RWMutex
	tree *btree.BTreeG[memoryItem]
}

// NewMemory - create an empty in-memory store
func NewMemory() *Memory {
	return &Memory{
		tree: btree.NewBTreeGOptions(memoryLess, btree.Options{NoLocks: true}),
	}
}

// Get - read a value for a given key
func (m *Memory) Get(key []byte) ([]byte, bool, error) {
	m.RLock()
	defer m.RUnlock()

	item, found := m.tree.Get(memoryItem{key: string(key)})
	if !found {
		return nil, false, nil
	}
	return clone(item.value), true, nil
}

// Put - store a key/value bytes pair
func (m *Memory) Put(key []byte, value []byte) error {
	m.Lock()
	defer m.Unlock()

	m.tree.Set(memoryItem{key: string(key), value: clone(value)})
	return nil
}

// Delete - remove a key
func (m *Memory) Delete(key []byte) error {
	m.Lock()
	defer m.Unlock()

	m.tree.Delete(memoryItem{key: string(key)})
	return nil
}

// Scan - ordered elements beginning with prefix
func (m *Memory) Scan(prefix []byte, startAfter []byte, limit int) ([]Element, error) {
	m.RLock()
	defer m.RUnlock()

	p := string(prefix)
	after := string(startAfter)
	results := make([]Element, 0)

	m.tree.Ascend(memoryItem{key: string(scanStart(prefix, startAfter))}, func(item memoryItem) bool {
		if !strings.HasPrefix(item.key, p) {
			return false
		}
		if "" != after && item.key == after {
			return true
		}
		results = append(results, Element{
			Key:   []byte(item.key),
			Value: clone(item.value),
		})
		return limit <= 0 || len(results) < limit
	})

	return results, nil
}

// Write - apply all operations under a single lock
func (m *Memory) Write(batch *Batch) error {
	m.Lock()
	defer m.Unlock()

	return batch.Replay(func(key []byte, value []byte, deleted bool) error {
		if deleted {
			m.tree.Delete(memoryItem{key: string(key)})
		} else {
			m.tree.Set(memoryItem{key: string(key), value: clone(value)})
		}
		return nil
	})
}

// EstimateSize - the raw value length
func (m *Memory) EstimateSize(value []byte) int {
	return len(value)
}

// Len - number of stored keys
func (m *Memory) Len() int {
	m.RLock()
	defer m.RUnlock()
	return m.tree.Len()
}

// Close - nothing to release
func (m *Memory) Close() error {
	return nil
}
