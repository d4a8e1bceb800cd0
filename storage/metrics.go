// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// flush destinations
const (
	targetBase  = "base"
	targetStore = "store"
)

// flush results
const (
	resultOK    = "ok"
	resultError = "error"
)

var (
	metricsInitOnce sync.Once
	sharedMetrics   *cacheMetrics
)

type cacheMetrics struct {
	flushes        *prometheus.CounterVec
	flushedEntries *prometheus.CounterVec
}

func metrics() *cacheMetrics {
	metricsInitOnce.Do(func() {
		m := &cacheMetrics{
			flushes: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "contractdb_cache_flushes_total",
				Help: "Cache flushes by collection, destination and result.",
			}, []string{"collection", "target", "result"}),
			flushedEntries: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "contractdb_cache_flushed_entries_total",
				Help: "Dirty entries written by cache flushes.",
			}, []string{"collection"}),
		}
		prometheus.MustRegister(m.flushes, m.flushedEntries)
		sharedMetrics = m
	})
	return sharedMetrics
}

func (m *cacheMetrics) recordFlush(collection string, target string, entries int, err error) {
	result := resultOK
	if nil != err {
		result = resultError
	}
	m.flushes.WithLabelValues(collection, target, result).Inc()
	if nil == err {
		m.flushedEntries.WithLabelValues(collection).Add(float64(entries))
	}
}
