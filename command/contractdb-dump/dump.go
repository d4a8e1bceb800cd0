// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/hex"
	"io"
	"sort"

	"github.com/bitmark-inc/contractdb/contractdb"
	"github.com/bitmark-inc/contractdb/entities"
)

type contractItem struct {
	RegID      string `json:"reg_id"`
	VMType     uint8  `json:"vm_type"`
	Upgradable bool   `json:"upgradable"`
	Memo       string `json:"memo,omitempty"`
	ABI        string `json:"abi,omitempty"`
	CodeSize   int    `json:"code_size"`
	Code       string `json:"code,omitempty"`
}

type dataItem struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type dataPage struct {
	RegID string     `json:"reg_id"`
	Data  []dataItem `json:"data"`
	Next  string     `json:"next"`
}

type accountItem struct {
	UserID      string                `json:"user_id"`
	Balance     uint64                `json:"balance"`
	Frozen      uint64                `json:"frozen"`
	FrozenFunds []entities.FrozenFund `json:"frozen_funds,omitempty"`
}

type txItem struct {
	TxID     string              `json:"tx_id"`
	Position *entities.DiskTxPos `json:"position"`
	Related  []string            `json:"related"`
}

// all contracts in registration order, code only when verbose
func dumpContracts(w io.Writer, db *contractdb.ContractDB, verbose bool) error {
	contracts, err := db.GetContracts()
	if nil != err {
		return err
	}

	ids := make([]entities.RegID, 0, len(contracts))
	for id := range contracts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if ids[i].Height != ids[j].Height {
			return ids[i].Height < ids[j].Height
		}
		return ids[i].Index < ids[j].Index
	})

	items := make([]contractItem, 0, len(ids))
	for _, id := range ids {
		c := contracts[id]
		item := contractItem{
			RegID:      id.String(),
			VMType:     uint8(c.VMType),
			Upgradable: c.Upgradable,
			Memo:       c.Memo,
			ABI:        c.ABI,
			CodeSize:   len(c.Code),
		}
		if verbose {
			item.Code = hex.EncodeToString(c.Code)
		}
		items = append(items, item)
	}
	return printJson(w, items)
}

// one page of contract data, next is the cursor for the following page
func dumpData(w io.Writer, db *contractdb.ContractDB, regID entities.RegID, prefix string, count int, last string) error {
	getter, err := db.CreateContractDataGetter(regID, prefix, count, last)
	if nil != err {
		return err
	}

	data, err := getter.Fetch()
	if nil != err {
		return err
	}

	page := dataPage{
		RegID: regID.String(),
		Data:  make([]dataItem, 0, len(data)),
		Next:  getter.LastKey(),
	}
	for _, d := range data {
		page.Data = append(page.Data, dataItem{
			Key:   d.Key,
			Value: hex.EncodeToString(d.Value),
		})
	}
	return printJson(w, page)
}

// all sub-accounts of one contract ordered by user id
func dumpAccounts(w io.Writer, db *contractdb.ContractDB, regID entities.RegID) error {
	accounts, err := db.GetContractAccounts(regID)
	if nil != err {
		return err
	}

	users := make([]string, 0, len(accounts))
	for user := range accounts {
		users = append(users, user)
	}
	sort.Strings(users)

	items := make([]accountItem, 0, len(users))
	for _, user := range users {
		a := accounts[user]
		items = append(items, accountItem{
			UserID:      a.UserID,
			Balance:     a.Balance,
			Frozen:      a.FrozenTotal(),
			FrozenFunds: a.FrozenFunds,
		})
	}
	return printJson(w, items)
}

// disk position and related keys of one transaction
func dumpTx(w io.Writer, db *contractdb.ContractDB, txID entities.TxID) error {
	item := txItem{
		TxID:    txID.String(),
		Related: []string{},
	}

	pos, found, err := db.ReadTxIndex(txID)
	if nil != err {
		return err
	}
	if found {
		item.Position = &pos
	}

	related, found, err := db.GetTxRelAccount(txID)
	if nil != err {
		return err
	}
	if found {
		for _, k := range related {
			item.Related = append(item.Related, k.String())
		}
	}
	return printJson(w, item)
}
