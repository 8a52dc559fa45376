/*
 * Copyright (c) 2025, WSO2 LLC. (https://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

// Package metrics defines the Prometheus metrics exposed by the controller.
package metrics

import (
	"runtime"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "meta_controller"

var (
	once     sync.Once
	registry *prometheus.Registry

	// Meta routing
	MetaRequestsTotal          *prometheus.CounterVec
	MetaRequestDurationSeconds *prometheus.HistogramVec
	PublicPackageRequestsTotal *prometheus.CounterVec

	// Backend invocations
	InvocationsTotal          *prometheus.CounterVec
	InvocationDurationSeconds *prometheus.HistogramVec

	// Trigger fan-out
	TriggerFiresTotal       *prometheus.CounterVec
	FanoutRuleOutcomesTotal *prometheus.CounterVec
	FanoutDurationSeconds   prometheus.Histogram

	// Activation store
	ActivationWritesTotal *prometheus.CounterVec

	// HTTP server
	HTTPRequestsTotal          *prometheus.CounterVec
	HTTPRequestDurationSeconds *prometheus.HistogramVec
	ConcurrentRequests         prometheus.Gauge

	// Process
	Up         prometheus.Gauge
	Info       *prometheus.GaugeVec
	Goroutines prometheus.GaugeFunc
)

// Metric variables must exist before any package records a sample.
func init() {
	Init()
}

// Init creates and registers all metrics exactly once and returns the
// registry for the /metrics handler.
func Init() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		MetaRequestsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "meta_requests_total",
				Help:      "Total number of meta API requests",
			},
			[]string{"package", "verb", "status"},
		)

		MetaRequestDurationSeconds = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "meta_request_duration_seconds",
				Help:      "Duration of meta API requests in seconds",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0},
			},
			[]string{"package", "verb"},
		)

		PublicPackageRequestsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "public_package_requests_total",
				Help:      "Total number of requests served for public meta packages",
			},
			[]string{"package"},
		)

		InvocationsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "invocations_total",
				Help:      "Total number of backend action invocations",
			},
			[]string{"outcome"},
		)

		InvocationDurationSeconds = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "invocation_duration_seconds",
				Help:      "Duration of backend action invocations in seconds",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0, 60.0},
			},
			[]string{"outcome"},
		)

		TriggerFiresTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "trigger_fires_total",
				Help:      "Total number of trigger fires",
			},
			[]string{"namespace"},
		)

		FanoutRuleOutcomesTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "fanout_rule_outcomes_total",
				Help:      "Total number of per-rule fan-out outcomes",
			},
			[]string{"outcome"},
		)

		FanoutDurationSeconds = prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "fanout_duration_seconds",
				Help:      "Duration of complete trigger fan-outs in seconds",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0, 60.0},
			},
		)

		ActivationWritesTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "activation_writes_total",
				Help:      "Total number of trigger activation store writes",
			},
			[]string{"status"},
		)

		HTTPRequestsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		)

		HTTPRequestDurationSeconds = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds",
				Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
			},
			[]string{"method", "endpoint"},
		)

		ConcurrentRequests = prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "concurrent_requests",
				Help:      "Number of requests currently being served",
			},
		)

		Up = prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "up",
				Help:      "Controller liveness indicator (1=up, 0=down)",
			},
		)

		Info = prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "info",
				Help:      "Controller build information",
			},
			[]string{"version", "storage_type"},
		)

		Goroutines = prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "goroutines",
				Help:      "Current number of goroutines",
			},
			func() float64 { return float64(runtime.NumGoroutine()) },
		)

		registry.MustRegister(
			MetaRequestsTotal,
			MetaRequestDurationSeconds,
			PublicPackageRequestsTotal,
			InvocationsTotal,
			InvocationDurationSeconds,
			TriggerFiresTotal,
			FanoutRuleOutcomesTotal,
			FanoutDurationSeconds,
			ActivationWritesTotal,
			HTTPRequestsTotal,
			HTTPRequestDurationSeconds,
			ConcurrentRequests,
			Up,
			Info,
			Goroutines,
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)

		Up.Set(1)
	})

	return registry
}
