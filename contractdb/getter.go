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
)

// ContractData - one data item of a contract
type ContractData struct {
	Key   string
	Value []byte
}

// ContractDataGetter - one page of the data items of a contract
// whose keys begin with a prefix
type ContractDataGetter struct {
	regID   entities.RegID
	getter  *storage.RangeGetter[[]byte]
	key     string
	lastKey string
	err     error
}

// CreateContractDataGetter - iterate at most count data items of a
// contract with keys beginning with prefix, strictly after lastKey if
// that is not empty
//
// only a top level state can be iterated
func (d *ContractDB) CreateContractDataGetter(regID entities.RegID, prefix string, count int, lastKey string) (*ContractDataGetter, error) {
	if !d.IsTopLevel() {
		return nil, fault.ErrUnsupportedNestedCache
	}

	prefixKey, err := dbkey.Prefix(regID.Raw(), []byte(prefix))
	if nil != err {
		d.log.Errorf("contract: %s  prefix size: %d  error: %s", regID, len(prefix), err)
		return nil, err
	}

	var startAfter []byte
	if "" != lastKey {
		startAfter, err = dataKey(regID, lastKey)
		if nil != err {
			return nil, err
		}
	}

	getter, err := storage.NewRangeGetter(d.data, prefixKey, startAfter, count)
	if nil != err {
		return nil, err
	}

	return &ContractDataGetter{
		regID:   regID,
		getter:  getter,
		lastKey: lastKey,
	}, nil
}

// Next - advance to the next data item
func (g *ContractDataGetter) Next() bool {
	if nil != g.err || !g.getter.Next() {
		return false
	}

	parts, err := dbkey.Decode(g.getter.Key())
	if nil != err {
		g.err = err
		return false
	}
	if 2 != len(parts) {
		g.err = fault.ErrInvalidKey
		return false
	}

	g.key = string(parts[1])
	g.lastKey = g.key
	return true
}

// Key - data key of the current item
func (g *ContractDataGetter) Key() string {
	return g.key
}

// Value - copy of the value of the current item
func (g *ContractDataGetter) Value() []byte {
	v := g.getter.Value()
	value := make([]byte, len(v))
	copy(value, v)
	return value
}

// LastKey - data key of the most recent item, the lastKey for the
// next page
func (g *ContractDataGetter) LastKey() string {
	return g.lastKey
}

// RegID - the contract being iterated
func (g *ContractDataGetter) RegID() entities.RegID {
	return g.regID
}

// Error - the error that stopped iteration, if any
func (g *ContractDataGetter) Error() error {
	if nil != g.err {
		return g.err
	}
	return g.getter.Error()
}

// Fetch - all remaining items of the page
func (g *ContractDataGetter) Fetch() ([]ContractData, error) {
	items := make([]ContractData, 0)
	for g.Next() {
		items = append(items, ContractData{
			Key:   g.Key(),
			Value: g.Value(),
		})
	}
	return items, g.Error()
}
