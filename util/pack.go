// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util

import (
	"github.com/bitmark-inc/contractdb/fault"
)

// MaximumFieldLength - upper bound on any length prefixed field
const MaximumFieldLength = 1 << 24

// Packed - a byte buffer built from Varint64 and length prefixed fields
type Packed []byte

// AppendUint64 - append a Varint64
func (buffer Packed) AppendUint64(value uint64) Packed {
	return AppendVarint64(buffer, value)
}

// AppendBytes - append a field prefixed by Varint64(length)
func (buffer Packed) AppendBytes(data []byte) Packed {
	buffer = AppendVarint64(buffer, uint64(len(data)))
	return append(buffer, data...)
}

// AppendString - append a string prefixed by Varint64(length)
func (buffer Packed) AppendString(s string) Packed {
	buffer = AppendVarint64(buffer, uint64(len(s)))
	return append(buffer, s...)
}

// AppendFixed - append bytes with no length prefix
func (buffer Packed) AppendFixed(data []byte) Packed {
	return append(buffer, data...)
}

// Unpacker - sequential reader for a Packed buffer
//
// the first failure is latched and all later reads return zero values
type Unpacker struct {
	record []byte
	n      int
	err    error
}

// NewUnpacker - start reading at the beginning of record
func NewUnpacker(record []byte) *Unpacker {
	return &Unpacker{record: record}
}

// Uint64 - read a Varint64
func (u *Unpacker) Uint64() uint64 {
	if nil != u.err {
		return 0
	}
	value, count := FromVarint64(u.record[u.n:])
	if 0 == count {
		u.err = fault.ErrTruncatedRecord
		return 0
	}
	u.n += count
	return value
}

// Bytes - read a length prefixed field, the result is a copy
func (u *Unpacker) Bytes() []byte {
	if nil != u.err {
		return nil
	}
	length, count := ClippedVarint64(u.record[u.n:], 0, MaximumFieldLength)
	if 0 == count || u.n+count+length > len(u.record) {
		u.err = fault.ErrTruncatedRecord
		return nil
	}
	u.n += count
	data := make([]byte, length)
	copy(data, u.record[u.n:u.n+length])
	u.n += length
	return data
}

// String - read a length prefixed string
func (u *Unpacker) String() string {
	return string(u.Bytes())
}

// Fixed - read exactly len(buffer) bytes into buffer
func (u *Unpacker) Fixed(buffer []byte) {
	if nil != u.err {
		return
	}
	if u.n+len(buffer) > len(u.record) {
		u.err = fault.ErrTruncatedRecord
		return
	}
	copy(buffer, u.record[u.n:])
	u.n += len(buffer)
}

// Remaining - number of unread bytes
func (u *Unpacker) Remaining() int {
	return len(u.record) - u.n
}

// Finish - return the latched error, or an error if bytes are left over
func (u *Unpacker) Finish() error {
	if nil != u.err {
		return u.err
	}
	if u.n != len(u.record) {
		return fault.ErrInvalidValue
	}
	return nil
}
