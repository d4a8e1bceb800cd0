// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package storage - layered key/value state storage
//
// A Store is an ordered byte key/value database supporting atomic
// batch writes.  Three are provided:
//
//	LevelDB  - on-disk goleveldb with a short lived read cache
//	Badger   - on-disk badger, one transaction per batch
//	Memory   - a btree, for tests and scratch state
//
// A Store is split into tables by a single byte prefix (NewTable and
// BindTables) so several collections share one database:
//
//	0x00 'V' 'E' 'R' 'S' 'I' 'O' 'N'  - database version (LevelDB only)
//	X ++ key                          - table with prefix X
//
// A Cache is a copy-on-write overlay of one collection.  The bottom
// cache of a chain sits on a Store, every other cache sits on another
// Cache (its base):
//
//	store  <-  cache (block)  <-  cache (transaction)  <-  ...
//
// Reads fall through the chain until a layer holds the key; a
// tombstone in any layer hides everything below it.  Writes stay in
// the layer they were made in until Flush merges them one level down.
// Dropping a cache without flushing discards its writes.
//
// A RangeGetter iterates the keys sharing a prefix, in key order,
// merging the bottom cache with its store a page at a time.
package storage
