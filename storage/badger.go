// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"bytes"

	"github.com/dgraph-io/badger/v2"

	"github.com/bitmark-inc/contractdb/fault"
	"github.com/bitmark-inc/logger"
)

// Badger - a badger backed store
type Badger struct {
	log *logger.L
	db  *badger.DB
}

// OpenBadger - open or create the database in directory path
func OpenBadger(path string, readOnly bool) (*Badger, error) {
	log := logger.New("storage")
	if nil == log {
		return nil, fault.ErrInvalidLoggerChannel
	}

	opts := badger.DefaultOptions(path).
		WithLogger(nil).
		WithReadOnly(readOnly)
	db, err := badger.Open(opts)
	if nil != err {
		log.Errorf("open: %q  error: %s", path, err)
		return nil, err
	}

	log.Infof("opened: %q  read only: %t", path, readOnly)

	return &Badger{
		log: log,
		db:  db,
	}, nil
}

// Get - read a value for a given key
func (b *Badger) Get(key []byte) ([]byte, bool, error) {
	var value []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if nil != err {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if badger.ErrKeyNotFound == err {
		return nil, false, nil
	} else if nil != err {
		return nil, false, err
	}
	return value, true, nil
}

// Put - store a key/value bytes pair
func (b *Badger) Put(key []byte, value []byte) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(clone(key), clone(value))
	})
}

// Delete - remove a key
func (b *Badger) Delete(key []byte) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(clone(key))
	})
}

// Scan - ordered elements beginning with prefix
func (b *Badger) Scan(prefix []byte, startAfter []byte, limit int) ([]Element, error) {
	results := make([]Element, 0)

	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(scanStart(prefix, startAfter)); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			k := item.KeyCopy(nil)
			if len(startAfter) > 0 && bytes.Equal(k, startAfter) {
				continue
			}
			v, err := item.ValueCopy(nil)
			if nil != err {
				return err
			}
			results = append(results, Element{Key: k, Value: v})
			if limit > 0 && len(results) >= limit {
				break
			}
		}
		return nil
	})
	if nil != err {
		return nil, err
	}
	return results, nil
}

// Write - apply a batch as one badger transaction
func (b *Badger) Write(batch *Batch) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		return batch.Replay(func(key []byte, value []byte, deleted bool) error {
			if deleted {
				return txn.Delete(key)
			}
			return txn.Set(key, value)
		})
	})
	if nil != err {
		b.log.Errorf("write: %d operations  error: %s", batch.Len(), err)
	}
	return err
}

// EstimateSize - the raw value length
func (b *Badger) EstimateSize(value []byte) int {
	return len(value)
}

// Close - close the database
func (b *Badger) Close() error {
	b.log.Info("closed")
	return b.db.Close()
}
