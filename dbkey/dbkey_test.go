// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package dbkey_test

import (
	"bytes"
	"math/rand"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmark-inc/contractdb/dbkey"
	"github.com/bitmark-inc/contractdb/fault"
)

type pair struct {
	first  []byte
	second []byte
}

// component-wise tuple ordering
func comparePairs(a, b pair) int {
	if c := bytes.Compare(a.first, b.first); 0 != c {
		return c
	}
	return bytes.Compare(a.second, b.second)
}

func randomComponent(r *rand.Rand) []byte {
	// small alphabet including the escape byte so that collisions,
	// shared prefixes and embedded zeros are common
	alphabet := []byte{0x00, 0x01, 0x02, 'a', 'b', 0xfe, 0xff}
	b := make([]byte, r.Intn(5))
	for i := range b {
		b[i] = alphabet[r.Intn(len(alphabet))]
	}
	return b
}

func TestEncodePreservesOrder(t *testing.T) {
	r := rand.New(rand.NewSource(42))

	pairs := make([]pair, 500)
	for i := range pairs {
		pairs[i] = pair{first: randomComponent(r), second: randomComponent(r)}
	}

	for i := 0; i < len(pairs); i += 1 {
		for j := i + 1; j < len(pairs); j += 1 {
			a, err := dbkey.Encode(pairs[i].first, pairs[i].second)
			require.NoError(t, err)
			b, err := dbkey.Encode(pairs[j].first, pairs[j].second)
			require.NoError(t, err)

			expected := comparePairs(pairs[i], pairs[j])
			actual := bytes.Compare(a, b)
			if expected != actual {
				t.Fatalf("order mismatch: %x/%x vs %x/%x: expected: %d  actual: %d",
					pairs[i].first, pairs[i].second, pairs[j].first, pairs[j].second, expected, actual)
			}
		}
	}
}

func TestEncodeIsInjective(t *testing.T) {
	a, err := dbkey.Strings("ab", "c")
	require.NoError(t, err)
	b, err := dbkey.Strings("a", "bc")
	require.NoError(t, err)
	assert.NotEqual(t, a, b, "different tuples share an encoding")

	c, err := dbkey.Encode([]byte{0x00}, nil)
	require.NoError(t, err)
	d, err := dbkey.Encode(nil, []byte{0x00})
	require.NoError(t, err)
	assert.NotEqual(t, c, d, "different tuples share an encoding")
}

func TestDecode(t *testing.T) {
	parts := [][]byte{{0x00, 'x', 0x00}, {}, []byte("data-key")}
	key, err := dbkey.Encode(parts...)
	require.NoError(t, err)

	decoded, err := dbkey.Decode(key)
	require.NoError(t, err)
	assert.Equal(t, parts, decoded, "wrong decoded parts")
}

func TestDecodeMalformed(t *testing.T) {
	malformed := [][]byte{
		{'a', 0x00},
		{'a', 0x00, 0x05},
		{'a', 0x00, 0x01, 'b'},
	}
	for i, m := range malformed {
		_, err := dbkey.Decode(m)
		assert.Equal(t, fault.ErrInvalidKey, err, "%d: malformed key accepted: %x", i, m)
	}
}

func TestPrefixSelectsContiguousRange(t *testing.T) {
	subKeys := []string{"", "a", "a\x00", "a\x00b", "ab", "abc", "b", "ba", "\x00"}
	contracts := []string{"c1", "c1\x00", "c2"}

	all := make([]dbkey.Key, 0)
	for _, c := range contracts {
		for _, s := range subKeys {
			k, err := dbkey.Strings(c, s)
			require.NoError(t, err)
			all = append(all, k)
		}
	}
	sort.Slice(all, func(i, j int) bool { return bytes.Compare(all[i], all[j]) < 0 })

	partials := []string{"", "a", "a\x00", "ab", "z"}
	for _, c := range contracts {
		for _, p := range partials {
			prefix, err := dbkey.StringPrefix(c, p)
			require.NoError(t, err)

			// expected members by tuple semantics
			expected := 0
			for _, s := range subKeys {
				if strings.HasPrefix(s, p) {
					expected += 1
				}
			}

			// members by encoded prefix must be the same count and contiguous
			first, count := -1, 0
			for i, k := range all {
				if k.HasPrefix(prefix) {
					if first < 0 {
						first = i
					}
					assert.Equal(t, first+count, i, "range for %q/%q is not contiguous", c, p)
					count += 1
				}
			}
			assert.Equal(t, expected, count, "wrong member count for %q/%q", c, p)
		}
	}
}

func TestKeyTooLarge(t *testing.T) {
	big := bytes.Repeat([]byte{'k'}, dbkey.MaxKeySize+1)
	limit := bytes.Repeat([]byte{'k'}, dbkey.MaxKeySize)

	_, err := dbkey.Encode([]byte("c1"), big)
	assert.Equal(t, fault.ErrKeyTooLarge, err, "oversized component accepted")

	_, err = dbkey.Prefix([]byte("c1"), big)
	assert.Equal(t, fault.ErrKeyTooLarge, err, "oversized prefix accepted")

	_, err = dbkey.Encode([]byte("c1"), limit)
	assert.NoError(t, err, "maximum size component rejected")
}

func TestEmptyPrefix(t *testing.T) {
	prefix, err := dbkey.Prefix()
	require.NoError(t, err)
	assert.Equal(t, 0, len(prefix), "empty prefix is not empty")
}

func TestKeyString(t *testing.T) {
	k, err := dbkey.Encode([]byte{0x00, 0xab})
	require.NoError(t, err)
	assert.Equal(t, "00ffab0001", k.String(), "wrong hex form")
	assert.Equal(t, "", dbkey.Key(nil).String())
}
