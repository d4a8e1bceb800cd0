// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package contractdb

import (
	"github.com/bitmark-inc/contractdb/dbkey"
	"github.com/bitmark-inc/contractdb/entities"
	"github.com/bitmark-inc/contractdb/fault"
	"github.com/bitmark-inc/contractdb/storage"
	"github.com/bitmark-inc/logger"
)

// accounts are read in pages of this size by GetContractAccounts
const accountPageSize = 100

// tables of the underlying database
//
// note all must be exported (i.e. initial capital) or binding will fail
type tables struct {
	Contracts       storage.Store `prefix:"C"`
	Accounts        storage.Store `prefix:"A"`
	Data            storage.Store `prefix:"D"`
	TxDiskPos       storage.Store `prefix:"T"`
	TxRelatedKeyIDs storage.Store `prefix:"R"`
}

// ContractDB - contract state
type ContractDB struct {
	log *logger.L

	contracts *storage.Cache[entities.UniversalContract]
	accounts  *storage.Cache[entities.AppUserAccount]
	data      *storage.Cache[[]byte]
	txDiskPos *storage.Cache[entities.DiskTxPos]
	txRelated *storage.Cache[entities.KeyIDSet]
}

// New - contract state stored in db
//
// a nil db gives a self-contained in-memory state
func New(db storage.Store) (*ContractDB, error) {
	log := logger.New("contractdb")
	if nil == log {
		return nil, fault.ErrInvalidLoggerChannel
	}

	t := tables{}
	if nil != db {
		if err := storage.BindTables(db, &t); nil != err {
			log.Errorf("bind tables error: %s", err)
			return nil, err
		}
	}

	return &ContractDB{
		log:       log,
		contracts: storage.NewCache[entities.UniversalContract]("contracts", entities.ContractCodec{}, t.Contracts),
		accounts:  storage.NewCache[entities.AppUserAccount]("accounts", entities.AccountCodec{}, t.Accounts),
		data:      storage.NewCache[[]byte]("data", storage.BytesCodec{}, t.Data),
		txDiskPos: storage.NewCache[entities.DiskTxPos]("tx-disk-pos", entities.DiskTxPosCodec{}, t.TxDiskPos),
		txRelated: storage.NewCache[entities.KeyIDSet]("tx-related", entities.KeyIDSetCodec{}, t.TxRelatedKeyIDs),
	}, nil
}

// NewOverlay - speculative state on top of base
//
// base must not be changed except by flushing overlays into it
// while the overlay is in use
func NewOverlay(base *ContractDB) *ContractDB {
	return &ContractDB{
		log:       base.log,
		contracts: storage.NewOverlay(base.contracts),
		accounts:  storage.NewOverlay(base.accounts),
		data:      storage.NewOverlay(base.data),
		txDiskPos: storage.NewOverlay(base.txDiskPos),
		txRelated: storage.NewOverlay(base.txRelated),
	}
}

// IsTopLevel - true if this state has no base, only such a state
// can be iterated
func (d *ContractDB) IsTopLevel() bool {
	return nil == d.data.Base()
}

// contracts

func contractKey(regID entities.RegID) ([]byte, error) {
	return dbkey.Encode(regID.Raw())
}

// GetContract - read a contract
func (d *ContractDB) GetContract(regID entities.RegID) (entities.UniversalContract, bool, error) {
	key, err := contractKey(regID)
	if nil != err {
		return entities.UniversalContract{}, false, err
	}
	return d.contracts.Get(key)
}

// SaveContract - store a contract
func (d *ContractDB) SaveContract(regID entities.RegID, contract entities.UniversalContract) error {
	key, err := contractKey(regID)
	if nil != err {
		return err
	}
	return d.contracts.Set(key, contract)
}

// HaveContract - check if a contract exists
func (d *ContractDB) HaveContract(regID entities.RegID) (bool, error) {
	key, err := contractKey(regID)
	if nil != err {
		return false, err
	}
	return d.contracts.Have(key)
}

// EraseContract - remove a contract
func (d *ContractDB) EraseContract(regID entities.RegID) error {
	key, err := contractKey(regID)
	if nil != err {
		return err
	}
	d.contracts.Erase(key)
	return nil
}

// GetContracts - every contract
func (d *ContractDB) GetContracts() (map[entities.RegID]entities.UniversalContract, error) {
	elements, err := d.contracts.AllElements()
	if nil != err {
		return nil, err
	}

	contracts := make(map[entities.RegID]entities.UniversalContract, len(elements))
	for k, contract := range elements {
		parts, err := dbkey.Decode([]byte(k))
		if nil != err {
			return nil, err
		}
		if 1 != len(parts) {
			return nil, fault.ErrInvalidKey
		}
		regID, err := entities.RegIDFromRaw(parts[0])
		if nil != err {
			return nil, err
		}
		contracts[regID] = contract
	}
	return contracts, nil
}

// contract sub-accounts

func accountKey(regID entities.RegID, userID string) ([]byte, error) {
	return dbkey.Encode(regID.Raw(), []byte(userID))
}

// GetContractAccount - read a sub-account of a contract
func (d *ContractDB) GetContractAccount(regID entities.RegID, userID string) (entities.AppUserAccount, bool, error) {
	key, err := accountKey(regID, userID)
	if nil != err {
		return entities.AppUserAccount{}, false, err
	}
	return d.accounts.Get(key)
}

// SetContractAccount - store a sub-account under its own user id
func (d *ContractDB) SetContractAccount(regID entities.RegID, account entities.AppUserAccount) error {
	if account.IsEmpty() {
		return fault.ErrInvalidValue
	}
	key, err := accountKey(regID, account.UserID)
	if nil != err {
		return err
	}
	return d.accounts.Set(key, account)
}

// EraseContractAccount - remove a sub-account
func (d *ContractDB) EraseContractAccount(regID entities.RegID, userID string) error {
	key, err := accountKey(regID, userID)
	if nil != err {
		return err
	}
	d.accounts.Erase(key)
	return nil
}

// GetContractAccounts - every sub-account of a contract by user id
//
// only a top level state can be listed
func (d *ContractDB) GetContractAccounts(regID entities.RegID) (map[string]entities.AppUserAccount, error) {
	prefix, err := dbkey.Prefix(regID.Raw(), nil)
	if nil != err {
		return nil, err
	}

	accounts := make(map[string]entities.AppUserAccount)
	var cursor []byte
	for {
		getter, err := storage.NewRangeGetter(d.accounts, prefix, cursor, accountPageSize)
		if nil != err {
			return nil, err
		}
		items, err := getter.Fetch()
		if nil != err {
			return nil, err
		}
		for _, item := range items {
			accounts[item.Value.UserID] = item.Value
		}
		if len(items) < accountPageSize {
			return accounts, nil
		}
		cursor = getter.LastKey()
	}
}

// contract data

func dataKey(regID entities.RegID, key string) ([]byte, error) {
	return dbkey.Encode(regID.Raw(), []byte(key))
}

// GetContractData - read a copy of one data item of a contract
func (d *ContractDB) GetContractData(regID entities.RegID, key string) ([]byte, bool, error) {
	k, err := dataKey(regID, key)
	if nil != err {
		return nil, false, err
	}
	v, found, err := d.data.Get(k)
	if nil != err || !found {
		return nil, found, err
	}
	value := make([]byte, len(v))
	copy(value, v)
	return value, true, nil
}

// SetContractData - store one data item of a contract
func (d *ContractDB) SetContractData(regID entities.RegID, key string, value []byte) error {
	k, err := dataKey(regID, key)
	if nil != err {
		return err
	}
	v := make([]byte, len(value))
	copy(v, value)
	return d.data.Set(k, v)
}

// HaveContractData - check if a data item exists
func (d *ContractDB) HaveContractData(regID entities.RegID, key string) (bool, error) {
	k, err := dataKey(regID, key)
	if nil != err {
		return false, err
	}
	return d.data.Have(k)
}

// EraseContractData - remove one data item of a contract
func (d *ContractDB) EraseContractData(regID entities.RegID, key string) error {
	k, err := dataKey(regID, key)
	if nil != err {
		return err
	}
	d.data.Erase(k)
	return nil
}

// transaction index

func txKey(txID entities.TxID) ([]byte, error) {
	return dbkey.Encode(txID[:])
}

// ReadTxIndex - disk position of a transaction
func (d *ContractDB) ReadTxIndex(txID entities.TxID) (entities.DiskTxPos, bool, error) {
	key, err := txKey(txID)
	if nil != err {
		return entities.DiskTxPos{}, false, err
	}
	return d.txDiskPos.Get(key)
}

// SetTxIndex - record the disk position of a transaction
func (d *ContractDB) SetTxIndex(txID entities.TxID, pos entities.DiskTxPos) error {
	key, err := txKey(txID)
	if nil != err {
		return err
	}
	return d.txDiskPos.Set(key, pos)
}

// TxIndex - one transaction and its disk position
type TxIndex struct {
	TxID entities.TxID
	Pos  entities.DiskTxPos
}

// WriteTxIndexes - record the disk positions of a list of transactions
//
// stops at the first failure, earlier entries remain set
func (d *ContractDB) WriteTxIndexes(list []TxIndex) error {
	for _, item := range list {
		d.log.Debugf("txid: %v  disk pos: %s", item.TxID, item.Pos)

		if err := d.SetTxIndex(item.TxID, item.Pos); nil != err {
			d.log.Errorf("txid: %v  set tx index error: %s", item.TxID, err)
			return err
		}
	}
	return nil
}

// SetTxRelAccount - record the key ids related to a transaction
func (d *ContractDB) SetTxRelAccount(txID entities.TxID, related entities.KeyIDSet) error {
	key, err := txKey(txID)
	if nil != err {
		return err
	}
	return d.txRelated.Set(key, entities.NewKeyIDSet(related...))
}

// GetTxRelAccount - key ids related to a transaction
func (d *ContractDB) GetTxRelAccount(txID entities.TxID) (entities.KeyIDSet, bool, error) {
	key, err := txKey(txID)
	if nil != err {
		return nil, false, err
	}
	return d.txRelated.Get(key)
}

// EraseTxRelAccount - remove the key ids related to a transaction
func (d *ContractDB) EraseTxRelAccount(txID entities.TxID) error {
	key, err := txKey(txID)
	if nil != err {
		return err
	}
	d.txRelated.Erase(key)
	return nil
}

// flushing

// Flush - flush every collection into the layer below
//
// collections are flushed one at a time and the first failure stops
// the rest, so a failure can leave some collections flushed
func (d *ContractDB) Flush() error {
	flushers := []struct {
		name  string
		flush func() error
	}{
		{d.contracts.Name(), d.contracts.Flush},
		{d.txDiskPos.Name(), d.txDiskPos.Flush},
		{d.txRelated.Name(), d.txRelated.Flush},
		{d.data.Name(), d.data.Flush},
		{d.accounts.Name(), d.accounts.Flush},
	}

	for _, f := range flushers {
		if err := f.flush(); nil != err {
			d.log.Errorf("flush: %s  error: %s", f.name, err)
			return err
		}
	}
	return nil
}

// Discard - drop every unflushed change
func (d *ContractDB) Discard() {
	d.contracts.Discard()
	d.txDiskPos.Discard()
	d.txRelated.Discard()
	d.data.Discard()
	d.accounts.Discard()
}

// GetCacheSize - estimated bytes held by all collections
func (d *ContractDB) GetCacheSize() int {
	return d.contracts.Size() +
		d.txDiskPos.Size() +
		d.txRelated.Size() +
		d.data.Size() +
		d.accounts.Size()
}
