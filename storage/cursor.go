// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"strings"

	"github.com/tidwall/btree"
)

// ordered source of entries within one key range
//
// next returns ok == false once the range is exhausted
type cursor[V any] interface {
	next() (entry[V], bool, error)
}

// cursor - entries visible through this cache whose keys begin with
// prefix and follow after (if not empty), in key order
//
// the delta of every cache in the chain is copied when the cursor is
// created, so later writes and flushes into them are not seen; a
// store is read as the cursor advances
func (c *Cache[V]) cursor(prefix []byte, after []byte, pageSize int) cursor[V] {
	// copy marks the shared nodes, so it needs the write lock
	c.lock.Lock()
	tree := c.delta.Copy()
	c.lock.Unlock()

	var lower cursor[V]
	switch {
	case nil != c.base:
		lower = c.base.cursor(prefix, after, pageSize)
	case nil != c.store:
		lower = &storeCursor[V]{
			store:    c.store,
			codec:    c.codec,
			prefix:   clone(prefix),
			after:    clone(after),
			pageSize: pageSize,
		}
	default:
		lower = emptyCursor[V]{}
	}

	return &mergeCursor[V]{
		upper: newTreeCursor(tree, prefix, after),
		lower: lower,
	}
}

type emptyCursor[V any] struct{}

func (emptyCursor[V]) next() (entry[V], bool, error) {
	return entry[V]{}, false, nil
}

// entries of one delta, tombstones included
type treeCursor[V any] struct {
	iter    btree.IterG[entry[V]]
	start   string
	prefix  string
	after   string
	started bool
	done    bool
}

func newTreeCursor[V any](tree *btree.BTreeG[entry[V]], prefix []byte, after []byte) *treeCursor[V] {
	return &treeCursor[V]{
		iter:   tree.Iter(),
		start:  string(scanStart(prefix, after)),
		prefix: string(prefix),
		after:  string(after),
	}
}

func (t *treeCursor[V]) next() (entry[V], bool, error) {
	if t.done {
		return entry[V]{}, false, nil
	}

	var ok bool
	if t.started {
		ok = t.iter.Next()
	} else {
		t.started = true
		ok = t.iter.Seek(entry[V]{key: t.start})
	}

	for ; ok; ok = t.iter.Next() {
		e := t.iter.Item()
		if !strings.HasPrefix(e.key, t.prefix) {
			break
		}
		if "" != t.after && e.key == t.after {
			continue
		}
		return e, true, nil
	}

	t.done = true
	t.iter.Release()
	return entry[V]{}, false, nil
}

// entries of a store, fetched a page at a time
type storeCursor[V any] struct {
	store     Store
	codec     Codec[V]
	prefix    []byte
	after     []byte
	pageSize  int
	page      []Element
	index     int
	exhausted bool
}

func (s *storeCursor[V]) next() (entry[V], bool, error) {
	for s.index >= len(s.page) {
		if s.exhausted {
			return entry[V]{}, false, nil
		}

		page, err := s.store.Scan(s.prefix, s.after, s.pageSize)
		if nil != err {
			return entry[V]{}, false, err
		}
		if s.pageSize <= 0 || len(page) < s.pageSize {
			s.exhausted = true
		}
		if len(page) > 0 {
			s.after = page[len(page)-1].Key
		}
		s.page = page
		s.index = 0
	}

	element := s.page[s.index]
	s.index += 1

	value, err := s.codec.Decode(element.Value)
	if nil != err {
		return entry[V]{}, false, err
	}
	return entry[V]{
		key:    string(element.Key),
		value:  value,
		record: element.Value,
	}, true, nil
}

// union of two cursors, the upper one shadows the lower on equal keys
// and tombstones are dropped from the result
type mergeCursor[V any] struct {
	upper    cursor[V]
	lower    cursor[V]
	u        entry[V]
	l        entry[V]
	hasUpper bool
	hasLower bool
	primed   bool
}

func (m *mergeCursor[V]) next() (entry[V], bool, error) {
	if !m.primed {
		if err := m.advanceUpper(); nil != err {
			return entry[V]{}, false, err
		}
		if err := m.advanceLower(); nil != err {
			return entry[V]{}, false, err
		}
		m.primed = true
	}

	for m.hasUpper || m.hasLower {
		var e entry[V]
		var err error

		switch {
		case m.hasUpper && (!m.hasLower || m.u.key < m.l.key):
			e = m.u
			err = m.advanceUpper()

		case m.hasUpper && m.u.key == m.l.key:
			e = m.u
			if err = m.advanceUpper(); nil == err {
				err = m.advanceLower()
			}

		default:
			e = m.l
			err = m.advanceLower()
		}

		if nil != err {
			return entry[V]{}, false, err
		}
		if e.deleted {
			continue
		}
		return e, true, nil
	}
	return entry[V]{}, false, nil
}

func (m *mergeCursor[V]) advanceUpper() error {
	e, ok, err := m.upper.next()
	m.u, m.hasUpper = e, ok
	return err
}

func (m *mergeCursor[V]) advanceLower() error {
	e, ok, err := m.lower.next()
	m.l, m.hasLower = e, ok
	return err
}
