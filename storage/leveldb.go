// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/syndtr/goleveldb/leveldb"
	ldb_opt "github.com/syndtr/goleveldb/leveldb/opt"
	ldb_util "github.com/syndtr/goleveldb/leveldb/util"

	"github.com/bitmark-inc/contractdb/fault"
	"github.com/bitmark-inc/logger"
)

// for database version
var versionKey = []byte{reservedPrefix, 'V', 'E', 'R', 'S', 'I', 'O', 'N'}

const currentDatabaseVersion = 0x100

// pool access modes
const (
	ReadOnly  = true
	ReadWrite = false
)

// LevelDB - a goleveldb backed store
type LevelDB struct {
	sync.RWMutex
	log      *logger.L
	db       *leveldb.DB
	cache    *readCache
	readOnly bool
}

// OpenLevelDB - open or create the database at path
//
// an empty database is tagged with the current version, an existing
// one must already be at that version
func OpenLevelDB(path string, readOnly bool) (*LevelDB, error) {
	log := logger.New("storage")
	if nil == log {
		return nil, fault.ErrInvalidLoggerChannel
	}

	db, version, err := getDB(path, readOnly)
	if nil != err {
		log.Errorf("open: %q  error: %s", path, err)
		return nil, err
	}

	switch {
	case 0 == version && !readOnly:
		// database was empty so tag as current version
		if err := putVersion(db, currentDatabaseVersion); nil != err {
			db.Close()
			return nil, err
		}

	case currentDatabaseVersion != version:
		log.Criticalf("database: %q  version: %d  current version: %d", path, version, currentDatabaseVersion)
		db.Close()
		return nil, fault.ErrIncompatibleDatabaseVersion
	}

	log.Infof("opened: %q  read only: %t", path, readOnly)

	return &LevelDB{
		log:      log,
		db:       db,
		cache:    newReadCache(),
		readOnly: readOnly,
	}, nil
}

// return:
//	database handle
//	version number
func getDB(name string, readOnly bool) (*leveldb.DB, int, error) {
	opt := &ldb_opt.Options{
		ErrorIfExist:   false,
		ErrorIfMissing: readOnly,
		ReadOnly:       readOnly,
	}

	db, err := leveldb.OpenFile(name, opt)
	if nil != err {
		return nil, 0, err
	}

	versionValue, err := db.Get(versionKey, nil)
	if leveldb.ErrNotFound == err {
		return db, 0, nil
	} else if nil != err {
		db.Close()
		return nil, 0, err
	}

	if 4 != len(versionValue) {
		db.Close()
		return nil, 0, fmt.Errorf("incompatible database version length: expected: %d  actual: %d", 4, len(versionValue))
	}

	version := int(binary.BigEndian.Uint32(versionValue))
	return db, version, nil
}

func putVersion(db *leveldb.DB, version int) error {
	currentVersion := make([]byte, 4)
	binary.BigEndian.PutUint32(currentVersion, uint32(version))

	return db.Put(versionKey, currentVersion, nil)
}

// Get - read a value for a given key
func (l *LevelDB) Get(key []byte) ([]byte, bool, error) {
	l.RLock()
	defer l.RUnlock()

	if nil == l.db {
		return nil, false, fault.ErrDatabaseIsNotSet
	}

	if value, found := l.cache.get(key); found {
		return value, true, nil
	}

	value, err := l.db.Get(key, nil)
	if leveldb.ErrNotFound == err {
		return nil, false, nil
	} else if nil != err {
		return nil, false, err
	}

	l.cache.set(key, value)
	return value, true, nil
}

// Put - store a key/value bytes pair
func (l *LevelDB) Put(key []byte, value []byte) error {
	l.Lock()
	defer l.Unlock()

	if nil == l.db {
		return fault.ErrDatabaseIsNotSet
	}
	l.cache.invalidate(key)
	return l.db.Put(key, value, nil)
}

// Delete - remove a key
func (l *LevelDB) Delete(key []byte) error {
	l.Lock()
	defer l.Unlock()

	if nil == l.db {
		return fault.ErrDatabaseIsNotSet
	}
	l.cache.invalidate(key)
	return l.db.Delete(key, nil)
}

// Scan - ordered elements beginning with prefix
func (l *LevelDB) Scan(prefix []byte, startAfter []byte, limit int) ([]Element, error) {
	l.RLock()
	defer l.RUnlock()

	if nil == l.db {
		return nil, fault.ErrDatabaseIsNotSet
	}

	iter := l.db.NewIterator(ldb_util.BytesPrefix(prefix), nil)
	defer iter.Release()

	results := make([]Element, 0)
iterating:
	for ok := iter.Seek(scanStart(prefix, startAfter)); ok; ok = iter.Next() {

		// contents of the returned slice must not be modified, and are
		// only valid until the next call to Next
		key := iter.Key()
		if len(startAfter) > 0 && string(key) == string(startAfter) {
			continue iterating
		}
		if string(key) == string(versionKey) {
			continue iterating
		}

		results = append(results, Element{
			Key:   clone(key),
			Value: clone(iter.Value()),
		})
		if limit > 0 && len(results) >= limit {
			break iterating
		}
	}

	return results, iter.Error()
}

// Write - apply a batch as a single leveldb batch
func (l *LevelDB) Write(batch *Batch) error {
	l.Lock()
	defer l.Unlock()

	if nil == l.db {
		return fault.ErrDatabaseIsNotSet
	}

	trx := new(leveldb.Batch)
	err := batch.Replay(func(key []byte, value []byte, deleted bool) error {
		if deleted {
			trx.Delete(key)
		} else {
			trx.Put(key, value)
		}
		l.cache.invalidate(key)
		return nil
	})
	if nil != err {
		return err
	}

	err = l.db.Write(trx, nil)
	if nil != err {
		l.log.Errorf("write: %d operations  error: %s", batch.Len(), err)
	}
	return err
}

// EstimateSize - the raw value length
func (l *LevelDB) EstimateSize(value []byte) int {
	return len(value)
}

// Close - close the database connection
func (l *LevelDB) Close() error {
	l.Lock()
	defer l.Unlock()

	if nil == l.db {
		return nil
	}
	err := l.db.Close()
	l.db = nil
	l.cache.clear()
	l.log.Info("closed")
	return err
}
