// Package metrics exposes task store activity as Prometheus collectors.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nibzard/focusflow/internal/todo"
)

const namespace = "focusflow"

// Snapshotter is the read side of a task store.
type Snapshotter interface {
	Tasks() []todo.Task
}

// Metrics owns a private registry so tests and multiple servers never share
// global state.
type Metrics struct {
	Registry *prometheus.Registry

	TaskEvents    *prometheus.CounterVec
	Notifications *prometheus.CounterVec
	HTTPRequests  *prometheus.CounterVec
}

// New creates the collectors and registers them, together with the Go and
// process collectors, on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		TaskEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "task_events_total",
				Help:      "Task store events by kind",
			},
			[]string{"kind"},
		),
		Notifications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "notifications_total",
				Help:      "Notifications emitted by severity",
			},
			[]string{"severity"},
		),
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "HTTP requests by method, route and status code",
			},
			[]string{"method", "route", "code"},
		),
	}
	m.Registry.MustRegister(
		m.TaskEvents,
		m.Notifications,
		m.HTTPRequests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Observe counts a store event and its notification.
func (m *Metrics) Observe(e todo.Event) {
	m.TaskEvents.WithLabelValues(string(e.Kind)).Inc()
	if e.Notification.Message != "" {
		m.Notifications.WithLabelValues(string(e.Notification.Severity)).Inc()
	}
}

// TrackStore registers focusflow_tasks{state} gauges computed from s at
// scrape time.
func (m *Metrics) TrackStore(s Snapshotter) {
	gauge := func(state string, value func(todo.Stats) int) prometheus.Collector {
		return prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "tasks",
			Help:        "Tasks currently in the store by state",
			ConstLabels: prometheus.Labels{"state": state},
		}, func() float64 {
			return float64(value(todo.Summarize(s.Tasks())))
		})
	}
	m.Registry.MustRegister(
		gauge("active", func(st todo.Stats) int { return st.Active }),
		gauge("completed", func(st todo.Stats) int { return st.Completed }),
	)
}

// ObserveHTTP counts one served request.
func (m *Metrics) ObserveHTTP(method, route string, code int) {
	if route == "" {
		route = "unmatched"
	}
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}
