// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"strings"

	"github.com/bitmark-inc/contractdb/fault"
)

// names of the on-disk backends
const (
	BackendLevelDB = "leveldb"
	BackendBadger  = "badger"
)

// ValidBackend - true if name is a known backend
func ValidBackend(name string) bool {
	switch strings.ToLower(name) {
	case BackendLevelDB, BackendBadger:
		return true
	default:
		return false
	}
}

// Open - open a database with the named backend
func Open(backend string, path string, readOnly bool) (Database, error) {
	var db Database
	var err error

	switch strings.ToLower(backend) {
	case BackendLevelDB:
		db, err = OpenLevelDB(path, readOnly)
	case BackendBadger:
		db, err = OpenBadger(path, readOnly)
	default:
		return nil, fault.ErrInvalidBackend
	}

	if nil != err {
		return nil, err
	}
	return db, nil
}
