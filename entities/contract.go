// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package entities

import (
	"github.com/bitmark-inc/contractdb/fault"
	"github.com/bitmark-inc/contractdb/util"
)

// VMType - the virtual machine that executes a contract
type VMType uint8

// known virtual machines
const (
	NullVM VMType = iota
	LuaVM
	WasmVM
	EvmVM
)

// UniversalContract - deployed contract bytecode and its metadata
type UniversalContract struct {
	VMType     VMType
	Upgradable bool
	Code       []byte
	Memo       string
	ABI        string
}

// IsEmpty - a contract without code cannot be executed
func (c UniversalContract) IsEmpty() bool {
	return 0 == len(c.Code)
}

// Pack - Varint64(vm) ++ Varint64(upgradable) ++ code ++ memo ++ abi
func (c UniversalContract) Pack() util.Packed {
	upgradable := uint64(0)
	if c.Upgradable {
		upgradable = 1
	}
	return util.Packed{}.
		AppendUint64(uint64(c.VMType)).
		AppendUint64(upgradable).
		AppendBytes(c.Code).
		AppendString(c.Memo).
		AppendString(c.ABI)
}

// UnpackContract - inverse of Pack
func UnpackContract(record []byte) (UniversalContract, error) {
	u := util.NewUnpacker(record)
	vm := u.Uint64()
	upgradable := u.Uint64()
	c := UniversalContract{
		Code: u.Bytes(),
		Memo: u.String(),
		ABI:  u.String(),
	}
	if err := u.Finish(); nil != err {
		return UniversalContract{}, err
	}
	if vm > uint64(EvmVM) || upgradable > 1 {
		return UniversalContract{}, fault.ErrInvalidValue
	}
	c.VMType = VMType(vm)
	c.Upgradable = 1 == upgradable
	return c, nil
}

// ContractCodec - storage codec for UniversalContract
type ContractCodec struct{}

// Encode - empty contracts are rejected
func (ContractCodec) Encode(c UniversalContract) ([]byte, error) {
	if c.IsEmpty() {
		return nil, fault.ErrInvalidValue
	}
	return c.Pack(), nil
}

// Decode - unpack a stored record
func (ContractCodec) Decode(record []byte) (UniversalContract, error) {
	return UnpackContract(record)
}
