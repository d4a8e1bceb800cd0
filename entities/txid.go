// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package entities

import (
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/sha3"

	"github.com/bitmark-inc/contractdb/fault"
)

// TxIDLength - number of bytes in a transaction id
const TxIDLength = 32

// TxID - transaction digest
//
// stored as little endian byte array
// represented as big endian hex value for print
// represented as little endian hex text for JSON encoding
// to convert to bytes just use d[:]
type TxID [TxIDLength]byte

// NewTxID - digest of a packed transaction
func NewTxID(record []byte) TxID {
	return sha3.Sum256(record)
}

// internal function to return a reversed byte order copy of a digest
func reversed(d TxID) []byte {
	result := make([]byte, TxIDLength)
	for i := 0; i < TxIDLength; i += 1 {
		result[i] = d[TxIDLength-1-i]
	}
	return result
}

// String - big endian hex for the fmt package (for %s)
func (txId TxID) String() string {
	return hex.EncodeToString(reversed(txId))
}

// GoString - big endian hex for the fmt package (for %#v)
func (txId TxID) GoString() string {
	return "<TxID:" + hex.EncodeToString(reversed(txId)) + ">"
}

// MarshalText - little endian hex text
func (txId TxID) MarshalText() ([]byte, error) {
	buffer := make([]byte, hex.EncodedLen(TxIDLength))
	hex.Encode(buffer, txId[:])
	return buffer, nil
}

// UnmarshalText - little endian hex text into a TxID
func (txId *TxID) UnmarshalText(s []byte) error {
	if TxIDLength != hex.DecodedLen(len(s)) {
		return fault.ErrInvalidTxID
	}
	buffer := make([]byte, TxIDLength)
	if _, err := hex.Decode(buffer, s); nil != err {
		return fault.ErrInvalidTxID
	}
	copy(txId[:], buffer)
	return nil
}

// ParseTxID - big endian hex, as printed by String
func ParseTxID(s string) (TxID, error) {
	txId := TxID{}
	buffer, err := hex.DecodeString(s)
	if nil != err || TxIDLength != len(buffer) {
		return txId, fault.ErrInvalidTxID
	}
	for i, v := range buffer {
		txId[TxIDLength-1-i] = v
	}
	return txId, nil
}

// TxIDFromBytes - convert and validate a little endian byte slice
func TxIDFromBytes(txId *TxID, buffer []byte) error {
	if TxIDLength != len(buffer) {
		return fault.ErrInvalidTxID
	}
	copy(txId[:], buffer)
	return nil
}

// Format - allow %x to print the stored byte order
func (txId TxID) Format(s fmt.State, verb rune) {
	switch verb {
	case 'x':
		fmt.Fprintf(s, "%x", txId[:])
	case 'v':
		if s.Flag('#') {
			fmt.Fprint(s, txId.GoString())
			return
		}
		fmt.Fprint(s, txId.String())
	default:
		fmt.Fprint(s, txId.String())
	}
}
