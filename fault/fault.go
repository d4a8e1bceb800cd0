// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault

// GenericError - error base
type GenericError string

// to allow for different classes of errors
type ExistsError GenericError
type InvalidError GenericError
type LengthError GenericError
type NotFoundError GenericError
type ProcessError GenericError

// common errors - keep in alphabetic order
var (
	ErrDatabaseIsNotSet            = ProcessError("database is not set")
	ErrDuplicateTablePrefix        = ExistsError("duplicate table prefix")
	ErrIncompatibleDatabaseVersion = ProcessError("incompatible database version")
	ErrInvalidBackend              = InvalidError("invalid database backend")
	ErrInvalidCount                = InvalidError("invalid count")
	ErrInvalidCursor               = InvalidError("invalid cursor")
	ErrInvalidKey                  = InvalidError("invalid key")
	ErrInvalidLoggerChannel        = InvalidError("invalid logger channel")
	ErrInvalidPrefix               = InvalidError("invalid prefix")
	ErrInvalidRegID                = InvalidError("invalid registration id")
	ErrInvalidStructPointer        = InvalidError("invalid struct pointer")
	ErrInvalidTxID                 = InvalidError("invalid transaction id")
	ErrInvalidValue                = InvalidError("invalid value")
	ErrKeyTooLarge                 = LengthError("key too large")
	ErrNotFoundConfigFile          = NotFoundError("configuration file is not found")
	ErrTruncatedRecord             = LengthError("truncated record")
	ErrUnsupportedNestedCache      = ProcessError("only a top level cache supports iteration")
)

// the error interface base method
func (e GenericError) Error() string { return string(e) }

// the error interface methods
func (e ExistsError) Error() string   { return string(e) }
func (e InvalidError) Error() string  { return string(e) }
func (e LengthError) Error() string   { return string(e) }
func (e NotFoundError) Error() string { return string(e) }
func (e ProcessError) Error() string  { return string(e) }

// determine the class of an error
func IsErrExists(e error) bool   { _, ok := e.(ExistsError); return ok }
func IsErrInvalid(e error) bool  { _, ok := e.(InvalidError); return ok }
func IsErrLength(e error) bool   { _, ok := e.(LengthError); return ok }
func IsErrNotFound(e error) bool { _, ok := e.(NotFoundError); return ok }
func IsErrProcess(e error) bool  { _, ok := e.(ProcessError); return ok }
