// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package fault - error instances for the contract store
//
// every error is a constant of one of the classes (exists, invalid,
// length, not found, process) so callers compare with == and classify
// with the IsErrX functions instead of matching strings
//
// errors from a database backend are not converted and pass through
// unchanged
package fault
