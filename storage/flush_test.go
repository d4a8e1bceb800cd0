// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage_test

import (
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmark-inc/contractdb/storage"
	"github.com/bitmark-inc/contractdb/storage/mocks"
)

func newTestMockStore(t *testing.T) (*mocks.MockStore, *gomock.Controller) {
	ctl := gomock.NewController(t)
	mock := mocks.NewMockStore(ctl)
	mock.EXPECT().EstimateSize(gomock.Any()).DoAndReturn(func(value []byte) int {
		return len(value)
	}).AnyTimes()
	return mock, ctl
}

func TestFlushFailureKeepsDelta(t *testing.T) {
	mock, ctl := newTestMockStore(t)
	defer ctl.Finish()

	writeErr := errors.New("disk full")
	gomock.InOrder(
		mock.EXPECT().Write(gomock.Any()).Return(writeErr).Times(1),
		mock.EXPECT().Write(gomock.Any()).DoAndReturn(func(batch *storage.Batch) error {
			assert.Equal(t, 2, batch.Len(), "wrong batch size on retry")
			return nil
		}).Times(1),
	)

	c := storage.NewCache[[]byte]("mock", storage.BytesCodec{}, mock)
	require.NoError(t, c.Set([]byte("a"), []byte("1")))
	c.Erase([]byte("b"))
	size := c.Size()

	err := c.Flush()
	assert.Equal(t, writeErr, err, "store error not returned")
	assert.Equal(t, 2, c.Len(), "failed flush dropped entries")
	assert.Equal(t, size, c.Size(), "failed flush changed size")

	// reads still see the unflushed writes without touching the store
	value, found, err := c.Get([]byte("a"))
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte("1"), value)

	found, err = c.Have([]byte("b"))
	require.NoError(t, err)
	assert.False(t, found, "tombstone lost after failed flush")

	require.NoError(t, c.Flush())
	assert.Equal(t, 0, c.Len(), "successful flush kept entries")
}

func TestGetErrorIsReturned(t *testing.T) {
	mock, ctl := newTestMockStore(t)
	defer ctl.Finish()

	readErr := errors.New("read failed")
	mock.EXPECT().Get([]byte("k")).Return(nil, false, readErr).Times(1)

	c := storage.NewCache[[]byte]("mock", storage.BytesCodec{}, mock)
	overlay := storage.NewOverlay(c)

	_, found, err := overlay.Get([]byte("k"))
	assert.Equal(t, readErr, err, "store error not returned")
	assert.False(t, found)
	assert.Equal(t, 0, overlay.Len(), "failed read was memoized")
}

func TestRangeGetterScanError(t *testing.T) {
	mock, ctl := newTestMockStore(t)
	defer ctl.Finish()

	scanErr := errors.New("scan failed")
	mock.EXPECT().Scan([]byte("p"), nil, 5).Return(nil, scanErr).Times(1)

	c := storage.NewCache[[]byte]("mock", storage.BytesCodec{}, mock)

	getter, err := storage.NewRangeGetter(c, []byte("p"), nil, 5)
	require.NoError(t, err)

	items, err := getter.Fetch()
	assert.Equal(t, scanErr, err, "scan error not returned")
	assert.Equal(t, 0, len(items))
	assert.False(t, getter.Next(), "getter continued after error")
}

func TestRangeGetterPagesFromStore(t *testing.T) {
	mock, ctl := newTestMockStore(t)
	defer ctl.Finish()

	gomock.InOrder(
		mock.EXPECT().Scan([]byte("p"), nil, 2).Return([]storage.Element{
			{Key: []byte("p1"), Value: []byte("1")},
			{Key: []byte("p2"), Value: []byte("2")},
		}, nil).Times(1),
		mock.EXPECT().Scan([]byte("p"), []byte("p2"), 2).Return([]storage.Element{
			{Key: []byte("p3"), Value: []byte("3")},
		}, nil).Times(1),
	)

	c := storage.NewCache[[]byte]("mock", storage.BytesCodec{}, mock)
	c.Erase([]byte("p1"))

	getter, err := storage.NewRangeGetter(c, []byte("p"), nil, 2)
	require.NoError(t, err)

	items, err := getter.Fetch()
	require.NoError(t, err)
	require.Equal(t, 2, len(items))
	assert.Equal(t, []byte("p2"), items[0].Key)
	assert.Equal(t, []byte("p3"), items[1].Key)
}
