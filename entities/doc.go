// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package entities - values persisted by the contract state database
//
// each value type packs to a byte record using Varint64 and length
// prefixed fields and has a matching codec for use with a
// storage.Cache
package entities
