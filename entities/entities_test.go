// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package entities_test

import (
	"bytes"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmark-inc/contractdb/entities"
	"github.com/bitmark-inc/contractdb/fault"
	"github.com/bitmark-inc/contractdb/util"
)

func TestRegIDRawSortsInRegistrationOrder(t *testing.T) {
	ids := []entities.RegID{
		{Height: 1, Index: 0},
		{Height: 1, Index: 2},
		{Height: 1, Index: 256},
		{Height: 2, Index: 1},
		{Height: 65536, Index: 0},
	}
	for i := 1; i < len(ids); i += 1 {
		assert.Equal(t, -1, bytes.Compare(ids[i-1].Raw(), ids[i].Raw()), "%v does not sort before %v", ids[i-1], ids[i])
	}

	id, err := entities.RegIDFromRaw(ids[2].Raw())
	require.NoError(t, err)
	assert.Equal(t, ids[2], id, "wrong id from raw")

	_, err = entities.RegIDFromRaw([]byte{1, 2, 3})
	assert.Equal(t, fault.ErrInvalidRegID, err, "short raw id accepted")
}

func TestParseRegID(t *testing.T) {
	id, err := entities.ParseRegID("1234-7")
	require.NoError(t, err)
	assert.Equal(t, entities.RegID{Height: 1234, Index: 7}, id, "wrong id")
	assert.Equal(t, "1234-7", id.String(), "wrong string")

	for _, s := range []string{"", "12", "12-", "-3", "1-2-3", "x-1", "1-70000"} {
		_, err := entities.ParseRegID(s)
		assert.Equal(t, fault.ErrInvalidRegID, err, "invalid id %q accepted", s)
	}
}

func TestContractCodec(t *testing.T) {
	codec := entities.ContractCodec{}
	contract := entities.UniversalContract{
		VMType:     entities.LuaVM,
		Upgradable: true,
		Code:       []byte("mylib = require \"mylib\""),
		Memo:       "token",
		ABI:        "{}",
	}

	record, err := codec.Encode(contract)
	require.NoError(t, err)
	decoded, err := codec.Decode(record)
	require.NoError(t, err)
	assert.Equal(t, contract, decoded, "wrong contract")

	_, err = codec.Encode(entities.UniversalContract{VMType: entities.LuaVM})
	assert.Equal(t, fault.ErrInvalidValue, err, "contract without code accepted")

	_, err = codec.Decode(record[:len(record)-1])
	assert.Error(t, err, "truncated contract accepted")
}

func TestAccountCodec(t *testing.T) {
	codec := entities.AccountCodec{}
	account := entities.AppUserAccount{
		UserID:  "user-1",
		Balance: 5000,
		FrozenFunds: []entities.FrozenFund{
			{Height: 10, Amount: 100},
			{Height: 20, Amount: 200},
		},
	}

	record, err := codec.Encode(account)
	require.NoError(t, err)
	decoded, err := codec.Decode(record)
	require.NoError(t, err)
	assert.Equal(t, account, decoded, "wrong account")
	assert.Equal(t, uint64(300), decoded.FrozenTotal(), "wrong frozen total")

	_, err = codec.Encode(entities.AppUserAccount{Balance: 1})
	assert.Equal(t, fault.ErrInvalidValue, err, "empty account accepted")
}

func TestDiskTxPosCodec(t *testing.T) {
	codec := entities.DiskTxPosCodec{}
	pos := entities.DiskTxPos{File: 3, Pos: 123456, TxOffset: 81}

	record, err := codec.Encode(pos)
	require.NoError(t, err)
	decoded, err := codec.Decode(record)
	require.NoError(t, err)
	assert.Equal(t, pos, decoded, "wrong position")
	assert.Equal(t, "file=3 pos=123456 txOffset=81", pos.String(), "wrong string")

	// each field is stored as a Varint64 but must fit 32 bits
	for i := 0; i < 3; i += 1 {
		fields := []uint64{1, 2, 3}
		fields[i] = math.MaxUint32 + 1
		record := util.Packed{}.
			AppendUint64(fields[0]).
			AppendUint64(fields[1]).
			AppendUint64(fields[2])
		_, err := codec.Decode(record)
		assert.Equal(t, fault.ErrInvalidValue, err, "field: %d out of range accepted", i)
	}

	record = util.Packed{}.
		AppendUint64(math.MaxUint32).
		AppendUint64(0).
		AppendUint64(0)
	decoded, err = codec.Decode(record)
	require.NoError(t, err)
	assert.Equal(t, uint32(math.MaxUint32), decoded.File)
}

func TestKeyIDSet(t *testing.T) {
	a := entities.KeyID{1}
	b := entities.KeyID{2}
	c := entities.KeyID{3}

	set := entities.NewKeyIDSet(c, a, b, a)
	assert.Equal(t, entities.KeyIDSet{a, b, c}, set, "set not sorted and unique")
	assert.True(t, set.Contains(b), "member not found")
	assert.False(t, set.Contains(entities.KeyID{4}), "non-member found")

	codec := entities.KeyIDSetCodec{}
	record, err := codec.Encode(entities.KeyIDSet{c, a})
	require.NoError(t, err)
	decoded, err := codec.Decode(record)
	require.NoError(t, err)
	assert.Equal(t, entities.KeyIDSet{a, c}, decoded, "wrong set")
}

func TestTxID(t *testing.T) {
	txId := entities.NewTxID([]byte("transaction"))

	parsed, err := entities.ParseTxID(txId.String())
	require.NoError(t, err)
	assert.Equal(t, txId, parsed, "wrong parsed id")

	text, err := txId.MarshalText()
	require.NoError(t, err)
	var unmarshalled entities.TxID
	require.NoError(t, unmarshalled.UnmarshalText(text))
	assert.Equal(t, txId, unmarshalled, "wrong unmarshalled id")

	assert.Equal(t, fmt.Sprintf("%x", txId[:]), fmt.Sprintf("%x", txId), "wrong %%x form")

	_, err = entities.ParseTxID("abcd")
	assert.Equal(t, fault.ErrInvalidTxID, err, "short id accepted")
}
