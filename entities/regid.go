// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package entities

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	"github.com/bitmark-inc/contractdb/fault"
)

// RegIDLength - bytes in the raw form of a RegID
const RegIDLength = 6

// RegID - registration id: the block height and the index of the
// registering transaction within that block
type RegID struct {
	Height uint32
	Index  uint16
}

// Raw - big endian height ++ big endian index
//
// big endian so that raw ids sort in registration order
func (r RegID) Raw() []byte {
	buffer := make([]byte, RegIDLength)
	binary.BigEndian.PutUint32(buffer[0:4], r.Height)
	binary.BigEndian.PutUint16(buffer[4:6], r.Index)
	return buffer
}

// IsEmpty - the zero id is not a valid registration
func (r RegID) IsEmpty() bool {
	return 0 == r.Height && 0 == r.Index
}

// String - "height-index"
func (r RegID) String() string {
	return fmt.Sprintf("%d-%d", r.Height, r.Index)
}

// RegIDFromRaw - inverse of Raw
func RegIDFromRaw(buffer []byte) (RegID, error) {
	if RegIDLength != len(buffer) {
		return RegID{}, fault.ErrInvalidRegID
	}
	return RegID{
		Height: binary.BigEndian.Uint32(buffer[0:4]),
		Index:  binary.BigEndian.Uint16(buffer[4:6]),
	}, nil
}

// ParseRegID - inverse of String
func ParseRegID(s string) (RegID, error) {
	fields := strings.Split(s, "-")
	if 2 != len(fields) {
		return RegID{}, fault.ErrInvalidRegID
	}
	height, err := strconv.ParseUint(fields[0], 10, 32)
	if nil != err {
		return RegID{}, fault.ErrInvalidRegID
	}
	index, err := strconv.ParseUint(fields[1], 10, 16)
	if nil != err {
		return RegID{}, fault.ErrInvalidRegID
	}
	return RegID{Height: uint32(height), Index: uint16(index)}, nil
}
