package metrics

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nibzard/focusflow/internal/todo"
)

func TestObserveStoreEvents(t *testing.T) {
	m := New()
	store := todo.NewStore(todo.WithObserver(m))
	m.TrackStore(store)

	ctx := context.Background()
	a, err := store.Create(ctx, todo.Draft{Title: "Alpha"})
	require.NoError(t, err)
	_, err = store.Create(ctx, todo.Draft{Title: "Bravo"})
	require.NoError(t, err)
	_, err = store.Toggle(a.ID)
	require.NoError(t, err)
	_, err = store.Seed(todo.SeedEntry{Draft: todo.Draft{Title: "Seeded"}})
	require.NoError(t, err)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.TaskEvents.WithLabelValues("created")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TaskEvents.WithLabelValues("toggled")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TaskEvents.WithLabelValues("seeded")))
	// Seeding emits no notification.
	assert.Equal(t, 3.0, testutil.ToFloat64(m.Notifications.WithLabelValues("success")))

	expected := `
# HELP focusflow_tasks Tasks currently in the store by state
# TYPE focusflow_tasks gauge
focusflow_tasks{state="active"} 2
focusflow_tasks{state="completed"} 1
`
	require.NoError(t, testutil.GatherAndCompare(m.Registry, strings.NewReader(expected), "focusflow_tasks"))
}

func TestFailedCreateCounted(t *testing.T) {
	m := New()
	store := todo.NewStore(
		todo.WithObserver(m),
		todo.WithSubmitter(todo.LatencySubmitter{FailureRate: 1, Rand: func() float64 { return 0 }}),
	)
	_, err := store.Create(context.Background(), todo.Draft{Title: "Doomed"})
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.TaskEvents.WithLabelValues("failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Notifications.WithLabelValues("error")))
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.ObserveHTTP("GET", "/api/tasks", 200)
	m.ObserveHTTP("GET", "", 404)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	text := string(body)
	assert.Contains(t, text, `focusflow_http_requests_total{code="200",method="GET",route="/api/tasks"} 1`)
	assert.Contains(t, text, `route="unmatched"`)
	assert.Contains(t, text, "go_goroutines")
}
