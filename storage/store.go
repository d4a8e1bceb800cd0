// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"bytes"
)

// Element - a binary key/value item
type Element struct {
	Key   []byte
	Value []byte
}

//go:generate mockgen -destination=mocks/mock_store.go -package=mocks github.com/bitmark-inc/contractdb/storage Store

// Store - ordered key/value access
//
// Get returns found == false and no error for a missing key.  Scan
// returns the elements whose keys begin with prefix, in ascending key
// order, strictly after startAfter (if not empty), at most limit of
// them (unlimited if limit <= 0).  Write applies the whole batch or
// none of it.
type Store interface {
	Get(key []byte) ([]byte, bool, error)
	Put(key []byte, value []byte) error
	Delete(key []byte) error
	Scan(prefix []byte, startAfter []byte, limit int) ([]Element, error)
	Write(batch *Batch) error
	EstimateSize(value []byte) int
}

// Database - a store that owns an underlying resource
type Database interface {
	Store
	Close() error
}

type batchOperation struct {
	deleted bool
	key     []byte
	value   []byte
}

// Batch - an ordered list of puts and deletes written as a unit
type Batch struct {
	operations []batchOperation
}

// NewBatch - create an empty batch
func NewBatch() *Batch {
	return &Batch{
		operations: make([]batchOperation, 0, 16),
	}
}

// Put - add a put, key and value are copied
func (b *Batch) Put(key []byte, value []byte) {
	b.operations = append(b.operations, batchOperation{
		key:   clone(key),
		value: clone(value),
	})
}

// Delete - add a delete, key is copied
func (b *Batch) Delete(key []byte) {
	b.operations = append(b.operations, batchOperation{
		deleted: true,
		key:     clone(key),
	})
}

// Len - number of operations
func (b *Batch) Len() int {
	if nil == b {
		return 0
	}
	return len(b.operations)
}

// Reset - discard all operations
func (b *Batch) Reset() {
	b.operations = b.operations[:0]
}

// Replay - call f for each operation in the order added
//
// stops at the first error
func (b *Batch) Replay(f func(key []byte, value []byte, deleted bool) error) error {
	for _, op := range b.operations {
		if err := f(op.key, op.value, op.deleted); nil != err {
			return err
		}
	}
	return nil
}

// the first key a scan needs to visit
func scanStart(prefix []byte, startAfter []byte) []byte {
	if len(startAfter) > 0 && bytes.Compare(startAfter, prefix) > 0 {
		return startAfter
	}
	return prefix
}

func clone(b []byte) []byte {
	if nil == b {
		return nil
	}
	c := make([]byte, len(b))
	copy(c, b)
	return c
}
