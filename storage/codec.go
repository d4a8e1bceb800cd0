// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

// Codec - conversion between a cached value and its stored record
type Codec[V any] interface {
	Encode(value V) ([]byte, error)
	Decode(record []byte) (V, error)
}

// BytesCodec - identity codec for raw byte values
type BytesCodec struct{}

// Encode - copy of value
func (BytesCodec) Encode(value []byte) ([]byte, error) {
	return clone(value), nil
}

// Decode - copy of record
func (BytesCodec) Decode(record []byte) ([]byte, error) {
	return clone(record), nil
}
