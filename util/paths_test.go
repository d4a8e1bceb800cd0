// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/contractdb/util"
)

func TestEnsureAbsolute(t *testing.T) {
	assert.Equal(t, "/data/db", util.EnsureAbsolute("/data", "db"))
	assert.Equal(t, "/other/db", util.EnsureAbsolute("/data", "/other/db"))
	assert.Equal(t, "/data/db", util.EnsureAbsolute("/data", "./x/../db"))
}

func TestEnsureDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	assert.NoError(t, util.EnsureDirectory(dir))
	assert.True(t, util.EnsureFileExists(dir), "directory not created")
	assert.NoError(t, util.EnsureDirectory(dir), "existing directory rejected")

	file := filepath.Join(t.TempDir(), "file")
	assert.NoError(t, os.WriteFile(file, []byte("x"), 0600))
	assert.Error(t, util.EnsureDirectory(file), "file accepted as directory")
}

func TestIsPlainName(t *testing.T) {
	assert.True(t, util.IsPlainName("contract.leveldb"))
	assert.False(t, util.IsPlainName("data/contract.leveldb"))
	assert.False(t, util.IsPlainName("/contract.leveldb"))
	assert.False(t, util.IsPlainName(""))
}
