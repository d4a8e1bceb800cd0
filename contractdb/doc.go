// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package contractdb - contract state held in five overlay caches
//
// Each collection lives in its own table of one database:
//
//	C ++ key(regid)             - contract
//	                              data: packed UniversalContract
//	A ++ key(regid, user id)    - contract sub-account
//	                              data: packed AppUserAccount
//	D ++ key(regid, data key)   - contract data
//	                              data: raw bytes
//	T ++ key(txid)              - transaction disk position
//	                              data: packed DiskTxPos
//	R ++ key(txid)              - key ids related to a transaction
//	                              data: packed KeyIDSet
//
// key(...) is the order preserving dbkey encoding, so all data of one
// contract is contiguous and sorted by data key.
//
// A ContractDB created by New sits on the database; NewOverlay layers
// a speculative view on another ContractDB which is either flushed
// into it or dropped.
package contractdb
