// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package entities

import (
	"fmt"
	"math"

	"github.com/bitmark-inc/contractdb/fault"
	"github.com/bitmark-inc/contractdb/util"
)

// DiskTxPos - location of a transaction in the block files
type DiskTxPos struct {
	File     uint32 // block file number
	Pos      uint32 // offset of the block within the file
	TxOffset uint32 // offset of the transaction after the block header
}

// String - for logging
func (p DiskTxPos) String() string {
	return fmt.Sprintf("file=%d pos=%d txOffset=%d", p.File, p.Pos, p.TxOffset)
}

// Pack - three Varint64 values
func (p DiskTxPos) Pack() util.Packed {
	return util.Packed{}.
		AppendUint64(uint64(p.File)).
		AppendUint64(uint64(p.Pos)).
		AppendUint64(uint64(p.TxOffset))
}

// UnpackDiskTxPos - inverse of Pack
func UnpackDiskTxPos(record []byte) (DiskTxPos, error) {
	u := util.NewUnpacker(record)
	file := u.Uint64()
	pos := u.Uint64()
	offset := u.Uint64()
	if err := u.Finish(); nil != err {
		return DiskTxPos{}, err
	}
	if file > math.MaxUint32 || pos > math.MaxUint32 || offset > math.MaxUint32 {
		return DiskTxPos{}, fault.ErrInvalidValue
	}
	return DiskTxPos{
		File:     uint32(file),
		Pos:      uint32(pos),
		TxOffset: uint32(offset),
	}, nil
}

// DiskTxPosCodec - storage codec for DiskTxPos
type DiskTxPosCodec struct{}

// Encode - any position is valid
func (DiskTxPosCodec) Encode(p DiskTxPos) ([]byte, error) {
	return p.Pack(), nil
}

// Decode - unpack a stored record
func (DiskTxPosCodec) Decode(record []byte) (DiskTxPos, error) {
	return UnpackDiskTxPos(record)
}
