// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package entities

import (
	"github.com/bitmark-inc/contractdb/fault"
	"github.com/bitmark-inc/contractdb/util"
)

// maximum frozen fund records for one account
const maximumFrozenFunds = 1024

// FrozenFund - an amount that is unavailable until a block height
type FrozenFund struct {
	Height uint64
	Amount uint64
}

// AppUserAccount - a sub-account held inside a contract
type AppUserAccount struct {
	UserID      string
	Balance     uint64
	FrozenFunds []FrozenFund
}

// IsEmpty - an account without a user id cannot be stored
func (a AppUserAccount) IsEmpty() bool {
	return "" == a.UserID
}

// FrozenTotal - sum of all frozen amounts
func (a AppUserAccount) FrozenTotal() uint64 {
	total := uint64(0)
	for _, f := range a.FrozenFunds {
		total += f.Amount
	}
	return total
}

// Pack - user id ++ Varint64(balance) ++ Varint64(count) ++ [height ++ amount]
func (a AppUserAccount) Pack() util.Packed {
	buffer := util.Packed{}.
		AppendString(a.UserID).
		AppendUint64(a.Balance).
		AppendUint64(uint64(len(a.FrozenFunds)))
	for _, f := range a.FrozenFunds {
		buffer = buffer.AppendUint64(f.Height).AppendUint64(f.Amount)
	}
	return buffer
}

// UnpackAppUserAccount - inverse of Pack
func UnpackAppUserAccount(record []byte) (AppUserAccount, error) {
	u := util.NewUnpacker(record)
	a := AppUserAccount{
		UserID:  u.String(),
		Balance: u.Uint64(),
	}
	count := u.Uint64()
	if count > maximumFrozenFunds {
		return AppUserAccount{}, fault.ErrInvalidValue
	}
	for i := uint64(0); i < count; i += 1 {
		a.FrozenFunds = append(a.FrozenFunds, FrozenFund{
			Height: u.Uint64(),
			Amount: u.Uint64(),
		})
	}
	if err := u.Finish(); nil != err {
		return AppUserAccount{}, err
	}
	return a, nil
}

// AccountCodec - storage codec for AppUserAccount
type AccountCodec struct{}

// Encode - empty accounts are rejected
func (AccountCodec) Encode(a AppUserAccount) ([]byte, error) {
	if a.IsEmpty() {
		return nil, fault.ErrInvalidValue
	}
	return a.Pack(), nil
}

// Decode - unpack a stored record
func (AccountCodec) Decode(record []byte) (AppUserAccount, error) {
	return UnpackAppUserAccount(record)
}
