// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"fmt"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmark-inc/contractdb/dbkey"
	"github.com/bitmark-inc/contractdb/fault"
)

func mustKey(t *testing.T, parts ...string) []byte {
	k, err := dbkey.Strings(parts...)
	require.NoError(t, err)
	return k
}

func TestRangeGetterMergesCacheAndStore(t *testing.T) {
	store := NewMemory()
	for _, kv := range [][3]string{
		{"c1", "a", "0"},
		{"c1", "b", "2"},
		{"c1", "c", "3"},
		{"c2", "a", "other"},
	} {
		require.NoError(t, store.Put(mustKey(t, kv[0], kv[1]), []byte(kv[2])))
	}

	c := newTestCache(store)
	require.NoError(t, c.Set(mustKey(t, "c1", "a"), "1"))
	c.Erase(mustKey(t, "c1", "b"))

	prefix, err := dbkey.StringPrefix("c1", "")
	require.NoError(t, err)

	getter, err := NewRangeGetter(c, prefix, nil, 100)
	require.NoError(t, err)

	items, err := getter.Fetch()
	require.NoError(t, err)
	require.Equal(t, 2, len(items), "wrong item count")

	expected := [][2]string{{"a", "1"}, {"c", "3"}}
	for i, item := range items {
		parts, err := dbkey.Decode(item.Key)
		require.NoError(t, err)
		require.Equal(t, 2, len(parts))
		assert.Equal(t, "c1", string(parts[0]), "%d: wrong contract", i)
		assert.Equal(t, expected[i][0], string(parts[1]), "%d: wrong key", i)
		assert.Equal(t, expected[i][1], item.Value, "%d: wrong value", i)
	}
	assert.Equal(t, mustKey(t, "c1", "c"), getter.LastKey(), "wrong last key")
}

func TestRangeGetterRejectsNestedCache(t *testing.T) {
	c := newTestCache(NewMemory())
	overlay := NewOverlay(c)

	_, err := NewRangeGetter(overlay, nil, nil, 10)
	assert.Equal(t, fault.ErrUnsupportedNestedCache, err, "nested cache accepted")

	_, err = NewRangeGetter(c, nil, nil, 0)
	assert.Equal(t, fault.ErrInvalidCount, err, "zero count accepted")

	_, err = NewRangeGetter[string](nil, nil, nil, 10)
	assert.Equal(t, fault.ErrInvalidCursor, err, "nil cache accepted")
}

func TestRangeGetterCursor(t *testing.T) {
	c := newTestCache(storeWith(t, "a1", "1", "a2", "2", "a3", "3", "b1", "x"))

	getter, err := NewRangeGetter(c, []byte("a"), []byte("a1"), 10)
	require.NoError(t, err)
	assert.Equal(t, []byte("a1"), getter.LastKey(), "initial last key is not the cursor")

	items, err := getter.Fetch()
	require.NoError(t, err)
	require.Equal(t, 2, len(items))
	assert.Equal(t, []byte("a2"), items[0].Key, "cursor key was not skipped")
	assert.Equal(t, []byte("a3"), items[1].Key)

	// a cursor before the prefix starts at the prefix
	getter, err = NewRangeGetter(c, []byte("b"), []byte("a9"), 10)
	require.NoError(t, err)
	items, err = getter.Fetch()
	require.NoError(t, err)
	require.Equal(t, 1, len(items))
	assert.Equal(t, []byte("b1"), items[0].Key)

	// a cursor beyond the prefix gives nothing
	getter, err = NewRangeGetter(c, []byte("a"), []byte("a9"), 10)
	require.NoError(t, err)
	assert.False(t, getter.Next(), "item after end of range")
	assert.NoError(t, getter.Error())
}

func TestRangeGetterStopsAtCount(t *testing.T) {
	c := newTestCache(storeWith(t, "k1", "1", "k2", "2", "k3", "3"))

	getter, err := NewRangeGetter(c, []byte("k"), nil, 2)
	require.NoError(t, err)

	assert.True(t, getter.Next())
	assert.Equal(t, []byte("k1"), getter.Key())
	assert.Equal(t, "1", getter.Value())
	assert.True(t, getter.Next())
	assert.False(t, getter.Next(), "more than count items")
	assert.Equal(t, 2, getter.Count())
	assert.Equal(t, []byte("k2"), getter.LastKey())
}

func TestRangeGetterHugeCount(t *testing.T) {
	c := newTestCache(storeWith(t, "k1", "1", "k2", "2"))
	require.NoError(t, c.Set([]byte("k3"), "3"))

	getter, err := NewRangeGetter(c, []byte("k"), nil, math.MaxInt)
	require.NoError(t, err)

	items, err := getter.Fetch()
	require.NoError(t, err)
	assert.Equal(t, 3, len(items), "wrong item count")
	assert.Equal(t, []byte("k3"), getter.LastKey())
}

func TestRangeGetterSnapshot(t *testing.T) {
	c := newTestCache(NewMemory())
	require.NoError(t, c.Set([]byte("k1"), "1"))
	require.NoError(t, c.Set([]byte("k3"), "3"))

	getter, err := NewRangeGetter(c, []byte("k"), nil, 10)
	require.NoError(t, err)

	require.NoError(t, c.Set([]byte("k2"), "2"))
	c.Erase([]byte("k3"))

	items, err := getter.Fetch()
	require.NoError(t, err)
	require.Equal(t, 2, len(items), "getter saw later writes")
	assert.Equal(t, "1", items[0].Value)
	assert.Equal(t, "3", items[1].Value)
}

// successive pages joined must equal one unbounded scan, for any page size
func TestRangeGetterPagination(t *testing.T) {
	r := rand.New(rand.NewSource(11))

	for round := 0; round < 20; round += 1 {
		store := NewMemory()
		for i := 0; i < 40; i += 1 {
			k := fmt.Sprintf("%c%02d", "pq"[r.Intn(2)], r.Intn(50))
			require.NoError(t, store.Put([]byte(k), []byte("s"+k)))
		}

		c := newTestCache(store)
		for i := 0; i < 20; i += 1 {
			k := fmt.Sprintf("%c%02d", "pq"[r.Intn(2)], r.Intn(50))
			if 0 == r.Intn(2) {
				c.Erase([]byte(k))
			} else {
				require.NoError(t, c.Set([]byte(k), "c"+k))
			}
		}

		full, err := NewRangeGetter(c, []byte("p"), nil, 1000)
		require.NoError(t, err)
		expected, err := full.Fetch()
		require.NoError(t, err)

		for pageSize := 1; pageSize <= 7; pageSize += 1 {
			actual := make([]Item[string], 0, len(expected))
			var cursor []byte
			for {
				getter, err := NewRangeGetter(c, []byte("p"), cursor, pageSize)
				require.NoError(t, err)
				page, err := getter.Fetch()
				require.NoError(t, err)
				actual = append(actual, page...)
				if len(page) < pageSize {
					break
				}
				cursor = getter.LastKey()
			}
			assert.Equal(t, expected, actual, "round: %d  page size: %d", round, pageSize)
		}
	}
}
