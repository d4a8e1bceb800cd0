// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"os"
	"testing"

	"github.com/bitmark-inc/logger"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "storage-test")
	if nil != err {
		panic(err)
	}

	logging := logger.Configuration{
		Directory: dir,
		File:      "testing.log",
		Size:      1048576,
		Count:     10,
		Console:   false,
		Levels: map[string]string{
			logger.DefaultTag: "critical",
		},
	}

	// start logging
	if err := logger.Initialise(logging); nil != err {
		panic(err)
	}

	rc := m.Run()

	logger.Finalise()
	os.RemoveAll(dir)
	os.Exit(rc)
}

// string valued codec to keep test tables short
type stringCodec struct{}

func (stringCodec) Encode(value string) ([]byte, error) {
	return []byte(value), nil
}

func (stringCodec) Decode(record []byte) (string, error) {
	return string(record), nil
}

func newTestCache(store Store) *Cache[string] {
	return NewCache[string]("test", stringCodec{}, store)
}

func storeWith(t *testing.T, pairs ...string) *Memory {
	if 0 != len(pairs)%2 {
		t.Fatalf("odd number of key/value strings: %d", len(pairs))
	}
	m := NewMemory()
	for i := 0; i < len(pairs); i += 2 {
		if err := m.Put([]byte(pairs[i]), []byte(pairs[i+1])); nil != err {
			t.Fatalf("put error: %s", err)
		}
	}
	return m
}
