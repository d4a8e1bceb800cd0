// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"fmt"
	"reflect"

	"github.com/bitmark-inc/contractdb/fault"
)

// prefix reserved for database metadata
const reservedPrefix = 0x00

// Table - one prefix byte region of a store
type Table struct {
	prefix byte
	store  Store
}

// NewTable - view of all keys in store that begin with prefix
func NewTable(store Store, prefix byte) *Table {
	return &Table{
		prefix: prefix,
		store:  store,
	}
}

// Prefix - the table prefix byte
func (t *Table) Prefix() byte {
	return t.prefix
}

// prepend the prefix onto the key
func (t *Table) prefixKey(key []byte) []byte {
	prefixedKey := make([]byte, 1, len(key)+1)
	prefixedKey[0] = t.prefix
	return append(prefixedKey, key...)
}

// Get - read a value for a given key
func (t *Table) Get(key []byte) ([]byte, bool, error) {
	return t.store.Get(t.prefixKey(key))
}

// Put - store a key/value bytes pair
func (t *Table) Put(key []byte, value []byte) error {
	return t.store.Put(t.prefixKey(key), value)
}

// Delete - remove a key
func (t *Table) Delete(key []byte) error {
	return t.store.Delete(t.prefixKey(key))
}

// Scan - elements of this table, keys returned without the prefix
func (t *Table) Scan(prefix []byte, startAfter []byte, limit int) ([]Element, error) {
	var after []byte
	if len(startAfter) > 0 {
		after = t.prefixKey(startAfter)
	}
	elements, err := t.store.Scan(t.prefixKey(prefix), after, limit)
	if nil != err {
		return nil, err
	}
	for i := range elements {
		elements[i].Key = elements[i].Key[1:] // strip the prefix
	}
	return elements, nil
}

// Write - apply a batch with every key prefixed
func (t *Table) Write(batch *Batch) error {
	prefixed := NewBatch()
	err := batch.Replay(func(key []byte, value []byte, deleted bool) error {
		if deleted {
			prefixed.Delete(t.prefixKey(key))
		} else {
			prefixed.Put(t.prefixKey(key), value)
		}
		return nil
	})
	if nil != err {
		return err
	}
	return t.store.Write(prefixed)
}

// EstimateSize - size estimate from the underlying store
func (t *Table) EstimateSize(value []byte) int {
	return t.store.EstimateSize(value)
}

// BindTables - set every field of the struct pointed to by tables to
// a Table of store
//
// each field must be an exported Store and carry a prefix:"X" tag
// with a distinct single byte prefix
func BindTables(store Store, tables interface{}) error {
	if nil == store {
		return fault.ErrDatabaseIsNotSet
	}

	tablesValue := reflect.ValueOf(tables)
	if reflect.Ptr != tablesValue.Kind() || tablesValue.IsNil() || reflect.Struct != tablesValue.Elem().Kind() {
		return fault.ErrInvalidStructPointer
	}

	// get write access by using pointer + Elem()
	structValue := tablesValue.Elem()
	structType := structValue.Type()
	storeType := reflect.TypeOf((*Store)(nil)).Elem()

	seen := make(map[byte]string)

	// scan each field
	for i := 0; i < structType.NumField(); i += 1 {

		fieldInfo := structType.Field(i)

		prefixTag := fieldInfo.Tag.Get("prefix")
		if 1 != len(prefixTag) || reservedPrefix == prefixTag[0] {
			return fault.ErrInvalidPrefix
		}
		if "" != fieldInfo.PkgPath {
			return fmt.Errorf("table: %s is not exported", fieldInfo.Name)
		}
		if storeType != fieldInfo.Type {
			return fmt.Errorf("table: %s has type: %s  expected: %s", fieldInfo.Name, fieldInfo.Type, storeType)
		}

		prefix := prefixTag[0]
		if _, ok := seen[prefix]; ok {
			return fault.ErrDuplicateTablePrefix
		}
		seen[prefix] = fieldInfo.Name
	}

	for i := 0; i < structType.NumField(); i += 1 {
		prefix := structType.Field(i).Tag.Get("prefix")[0]
		structValue.Field(i).Set(reflect.ValueOf(NewTable(store, prefix)))
	}

	return nil
}
