//
// Copyright 2024 The mmport Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//

// Package metrics exposes Prometheus instrumentation for the port
// core's own bookkeeping. None of it is read by control flow — it is
// purely observational, same as the logging in mmlog.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// BuffersInTransit tracks transit_buffer_headers per port, by name.
	BuffersInTransit = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "mmport_buffers_in_transit",
			Help: "Number of buffer headers currently in transit for a port",
		},
		[]string{"port"},
	)

	// BuffersSentTotal counts accepted SendBuffer calls per port.
	BuffersSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mmport_buffers_sent_total",
			Help: "Total number of buffers accepted by SendBuffer",
		},
		[]string{"port"},
	)

	// BuffersCompletedTotal counts buffer-header callback invocations
	// per port.
	BuffersCompletedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mmport_buffers_completed_total",
			Help: "Total number of buffers returned via the buffer-header callback",
		},
		[]string{"port"},
	)

	// ConnectionsTotal counts successful Connect calls, by which side
	// ended up owning the connection.
	ConnectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mmport_connections_total",
			Help: "Total number of successful port connections",
		},
		[]string{"owner"},
	)

	// DisableDurationSeconds measures how long Disable blocked waiting
	// on the transit drain gate.
	DisableDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mmport_disable_duration_seconds",
			Help:    "Time Disable spent waiting for transit to drain",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"port"},
	)
)
