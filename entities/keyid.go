// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package entities

import (
	"bytes"
	"encoding/hex"
	"sort"

	"github.com/bitmark-inc/contractdb/fault"
	"github.com/bitmark-inc/contractdb/util"
)

// KeyIDLength - bytes in a key id
const KeyIDLength = 20

// maximum number of related keys recorded for one transaction
const maximumRelatedKeys = 4096

// KeyID - hash of a public key
type KeyID [KeyIDLength]byte

// String - hex form
func (k KeyID) String() string {
	return hex.EncodeToString(k[:])
}

// KeyIDFromBytes - convert and validate a byte slice
func KeyIDFromBytes(buffer []byte) (KeyID, error) {
	k := KeyID{}
	if KeyIDLength != len(buffer) {
		return k, fault.ErrInvalidValue
	}
	copy(k[:], buffer)
	return k, nil
}

// KeyIDSet - ordered set of key ids with no duplicates
type KeyIDSet []KeyID

// NewKeyIDSet - sort and remove duplicates
func NewKeyIDSet(ids ...KeyID) KeyIDSet {
	set := make(KeyIDSet, len(ids))
	copy(set, ids)
	sort.Slice(set, func(i, j int) bool {
		return bytes.Compare(set[i][:], set[j][:]) < 0
	})
	n := 0
	for i, k := range set {
		if 0 == i || k != set[n-1] {
			set[n] = k
			n += 1
		}
	}
	return set[:n]
}

// Contains - membership test on the ordered set
func (s KeyIDSet) Contains(k KeyID) bool {
	i := sort.Search(len(s), func(i int) bool {
		return bytes.Compare(s[i][:], k[:]) >= 0
	})
	return i < len(s) && s[i] == k
}

// Pack - Varint64(count) ++ ids
func (s KeyIDSet) Pack() util.Packed {
	buffer := util.Packed{}.AppendUint64(uint64(len(s)))
	for _, k := range s {
		buffer = buffer.AppendFixed(k[:])
	}
	return buffer
}

// UnpackKeyIDSet - inverse of Pack
func UnpackKeyIDSet(record []byte) (KeyIDSet, error) {
	u := util.NewUnpacker(record)
	count := u.Uint64()
	if count > maximumRelatedKeys {
		return nil, fault.ErrInvalidValue
	}
	set := make(KeyIDSet, count)
	for i := range set {
		u.Fixed(set[i][:])
	}
	if err := u.Finish(); nil != err {
		return nil, err
	}
	return NewKeyIDSet(set...), nil
}

// KeyIDSetCodec - storage codec for KeyIDSet
type KeyIDSetCodec struct{}

// Encode - the set is normalised before packing
func (KeyIDSetCodec) Encode(s KeyIDSet) ([]byte, error) {
	if len(s) > maximumRelatedKeys {
		return nil, fault.ErrInvalidValue
	}
	return NewKeyIDSet(s...).Pack(), nil
}

// Decode - unpack a stored record
func (KeyIDSetCodec) Decode(record []byte) (KeyIDSet, error) {
	return UnpackKeyIDSet(record)
}
