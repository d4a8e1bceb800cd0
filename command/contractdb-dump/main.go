// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"os"
	"strconv"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/bitmark-inc/getoptions"
	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/contractdb/configuration"
	"github.com/bitmark-inc/contractdb/contractdb"
	"github.com/bitmark-inc/contractdb/entities"
	"github.com/bitmark-inc/contractdb/storage"
)

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

// main program
func main() {
	// ensure exit handler is first
	defer exitwithstatus.Handler()

	flags := []getoptions.Option{
		{Long: "help", HasArg: getoptions.NO_ARGUMENT, Short: 'h'},
		{Long: "verbose", HasArg: getoptions.NO_ARGUMENT, Short: 'v'},
		{Long: "version", HasArg: getoptions.NO_ARGUMENT, Short: 'V'},
		{Long: "config-file", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'c'},
		{Long: "file", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'f'},
		{Long: "backend", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'b'},
		{Long: "contracts", HasArg: getoptions.NO_ARGUMENT, Short: 'l'},
		{Long: "data", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'd'},
		{Long: "prefix", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'p'},
		{Long: "count", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'n'},
		{Long: "last", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'k'},
		{Long: "accounts", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'a'},
		{Long: "tx", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 't'},
	}

	program, options, _, err := getoptions.GetOS(flags)
	if nil != err {
		exitwithstatus.Message("%s: getoptions error: %s", program, err)
	}

	if len(options["version"]) > 0 {
		exitwithstatus.Message("%s: version: %s", program, version)
	}

	modes := len(options["contracts"]) + len(options["data"]) + len(options["accounts"]) + len(options["tx"])
	source := len(options["config-file"]) + len(options["file"])
	if len(options["help"]) > 0 || 1 != modes || 1 != source {
		exitwithstatus.Message("usage: %s [--help] [--verbose] (--config-file=FILE | --file=DB [--backend=leveldb|badger]) "+
			"(--contracts | --data=REGID [--prefix=P] [--count=N] [--last=KEY] | --accounts=REGID | --tx=TXID)", program)
	}

	verbose := len(options["verbose"]) > 0

	count := 20
	if len(options["count"]) > 0 {
		count, err = strconv.Atoi(options["count"][0])
		if nil != err {
			exitwithstatus.Message("%s: convert count error: %s", program, err)
		}
		if count < 1 {
			exitwithstatus.Message("%s: invalid count: %d", program, count)
		}
	}

	logging := logger.Configuration{
		Directory: ".",
		File:      "contractdb-dump.log",
		Size:      1048576,
		Count:     10,
		Console:   true,
		Levels: map[string]string{
			logger.DefaultTag: "critical",
		},
	}

	backend := storage.BackendLevelDB
	path := ""
	if len(options["config-file"]) > 0 {
		c, err := configuration.GetConfiguration(options["config-file"][0])
		if nil != err {
			exitwithstatus.Message("%s: configuration error: %s", program, err)
		}
		backend = c.Database.Backend
		path = c.DatabasePath()
		logging = c.Logging
		logging.Console = true
	} else {
		path = options["file"][0]
		if len(options["backend"]) > 0 {
			backend = options["backend"][0]
		}
	}

	if verbose {
		logging.Levels[logger.DefaultTag] = "info"
	}

	// start logging
	if err = logger.Initialise(logging); nil != err {
		exitwithstatus.Message("%s: logger setup failed with error: %s", program, err)
	}
	defer logger.Finalise()

	// start of main processing
	database, err := storage.Open(backend, path, storage.ReadOnly)
	if nil != err {
		exitwithstatus.Message("%s: storage setup failed with error: %s", program, err)
	}
	defer database.Close()

	db, err := contractdb.New(database)
	if nil != err {
		exitwithstatus.Message("%s: contractdb setup failed with error: %s", program, err)
	}

	w := os.Stdout

	switch {
	case len(options["contracts"]) > 0:
		err = dumpContracts(w, db, verbose)

	case len(options["data"]) > 0:
		regID := parseRegID(program, options["data"][0])
		prefix := ""
		if len(options["prefix"]) > 0 {
			prefix = options["prefix"][0]
		}
		last := ""
		if len(options["last"]) > 0 {
			last = options["last"][0]
		}
		err = dumpData(w, db, regID, prefix, count, last)

	case len(options["accounts"]) > 0:
		err = dumpAccounts(w, db, parseRegID(program, options["accounts"][0]))

	case len(options["tx"]) > 0:
		txID, e := entities.ParseTxID(options["tx"][0])
		if nil != e {
			exitwithstatus.Message("%s: tx id: %q error: %s", program, options["tx"][0], e)
		}
		err = dumpTx(w, db, txID)
	}

	if nil != err {
		exitwithstatus.Message("%s: dump error: %s", program, err)
	}
}

func parseRegID(program string, s string) entities.RegID {
	regID, err := entities.ParseRegID(s)
	if nil != err {
		exitwithstatus.Message("%s: registration id: %q error: %s", program, s, err)
	}
	return regID
}
