// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"time"

	cache "github.com/patrickmn/go-cache"
)

const (
	defaultCleanupInterval = 1 * time.Minute
	defaultExpiration      = 2 * time.Minute
)

// recently read records, dropped on any write to the same key
type readCache struct {
	cache *cache.Cache
}

func newReadCache() *readCache {
	return &readCache{
		cache: cache.New(defaultExpiration, defaultCleanupInterval),
	}
}

// get a cached record, found == false if not cached
func (c *readCache) get(key []byte) ([]byte, bool) {
	obj, found := c.cache.Get(string(key))
	if !found {
		return nil, false
	}
	return clone(obj.([]byte)), true
}

func (c *readCache) set(key []byte, value []byte) {
	c.cache.Set(string(key), clone(value), cache.DefaultExpiration)
}

func (c *readCache) invalidate(key []byte) {
	c.cache.Delete(string(key))
}

func (c *readCache) clear() {
	c.cache.Flush()
}
