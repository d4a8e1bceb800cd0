// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package dbkey - order preserving encoding of compound keys
//
// A key is a sequence of byte string components.  Each component is
// escaped and terminated:
//
//	0x00           → 0x00 0xff
//	end component  → 0x00 0x01
//
// all other bytes are copied unchanged.  Comparing two encoded keys
// with bytes.Compare gives the same result as comparing the original
// tuples component by component, so a scan in key order visits
// (contract, sub-key) pairs in order.
//
// A prefix leaves its last component unterminated, so every key whose
// last component begins with that partial value sorts immediately
// after the prefix and before any key that does not.
package dbkey

import (
	"bytes"
	"encoding/hex"

	"github.com/bitmark-inc/contractdb/fault"
)

// MaxKeySize - largest raw component accepted
const MaxKeySize = 64

const (
	escapeByte     = 0x00
	escapedZero    = 0xff
	terminatorByte = 0x01
)

// Key - an encoded key
type Key []byte

// String - hex form for logging
func (k Key) String() string {
	return hex.EncodeToString(k)
}

// HasPrefix - true if the key lies within the range selected by prefix
func (k Key) HasPrefix(prefix Key) bool {
	return bytes.HasPrefix(k, prefix)
}

// Encode - encode all parts as complete components
func Encode(parts ...[]byte) (Key, error) {
	if err := check(parts); nil != err {
		return nil, err
	}
	key := make(Key, 0, encodedLength(parts))
	for _, p := range parts {
		key = appendEscaped(key, p)
		key = append(key, escapeByte, terminatorByte)
	}
	return key, nil
}

// Prefix - encode a partial key for a range scan
//
// all parts except the last are complete components; the last is a
// partial component and may be empty
func Prefix(parts ...[]byte) (Key, error) {
	if 0 == len(parts) {
		return Key{}, nil
	}
	if err := check(parts); nil != err {
		return nil, err
	}
	last := len(parts) - 1
	key := make(Key, 0, encodedLength(parts))
	for _, p := range parts[:last] {
		key = appendEscaped(key, p)
		key = append(key, escapeByte, terminatorByte)
	}
	return appendEscaped(key, parts[last]), nil
}

// Strings - convenience form of Encode
func Strings(parts ...string) (Key, error) {
	return Encode(toBytes(parts)...)
}

// StringPrefix - convenience form of Prefix
func StringPrefix(parts ...string) (Key, error) {
	return Prefix(toBytes(parts)...)
}

// Decode - split an encoded key back into its components
func Decode(key []byte) ([][]byte, error) {
	parts := make([][]byte, 0, 2)
	current := make([]byte, 0, len(key))
	for i := 0; i < len(key); i += 1 {
		b := key[i]
		if escapeByte != b {
			current = append(current, b)
			continue
		}
		i += 1
		if i >= len(key) {
			return nil, fault.ErrInvalidKey
		}
		switch key[i] {
		case escapedZero:
			current = append(current, escapeByte)
		case terminatorByte:
			parts = append(parts, current)
			current = make([]byte, 0, len(key)-i)
		default:
			return nil, fault.ErrInvalidKey
		}
	}
	if 0 != len(current) {
		return nil, fault.ErrInvalidKey
	}
	return parts, nil
}

// validate raw component sizes before any encoding
func check(parts [][]byte) error {
	for _, p := range parts {
		if len(p) > MaxKeySize {
			return fault.ErrKeyTooLarge
		}
	}
	return nil
}

func encodedLength(parts [][]byte) int {
	n := 0
	for _, p := range parts {
		n += len(p) + bytes.Count(p, []byte{escapeByte}) + 2
	}
	return n
}

func appendEscaped(key Key, part []byte) Key {
	for _, b := range part {
		if escapeByte == b {
			key = append(key, escapeByte, escapedZero)
		} else {
			key = append(key, b)
		}
	}
	return key
}

func toBytes(parts []string) [][]byte {
	b := make([][]byte, len(parts))
	for i, s := range parts {
		b[i] = []byte(s)
	}
	return b
}
