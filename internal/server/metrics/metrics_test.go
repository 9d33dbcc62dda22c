package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophmail/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ConnectionOpened()
	m.ConnectionOpened()
	m.ConnectionClosed()
	assert.Equal(t, 2.0, testutil.ToFloat64(m.connections))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.activeConnections))

	m.ObserveOperation("login", "success", time.Millisecond)
	m.ObserveOperation("login", "error", time.Millisecond)
	m.ObserveOperation("login", "error", time.Millisecond)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.operations.WithLabelValues("login", "error")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.operationDuration))

	m.Delivery(DeliveryDelivered)
	m.Delivery(DeliveryUnknownRecipient)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.deliveries.WithLabelValues(DeliveryDelivered)))

	m.Drained(3)
	assert.Equal(t, 3.0, testutil.ToFloat64(m.drained))

	m.SetAccounts(5)
	m.AccountRegistered()
	assert.Equal(t, 6.0, testutil.ToFloat64(m.accounts))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	m.ConnectionOpened()
	m.ConnectionClosed()
	m.ObserveOperation("x", "y", time.Second)
	m.Delivery(DeliveryDelivered)
	m.Drained(1)
	m.SetAccounts(1)
	m.AccountRegistered()
}

func TestServer_Handler(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	m.ConnectionOpened()

	s := NewServer("127.0.0.1:0", reg, logging.Nop{}, time.Second)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "gophmail_connections_total 1")
}

func TestServer_RunStopsOnCancel(t *testing.T) {
	s := NewServer("127.0.0.1:0", prometheus.NewRegistry(), logging.Nop{}, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("metrics server did not stop")
	}
}

func TestServer_RunBadAddress(t *testing.T) {
	s := NewServer("127.0.0.1:99999", prometheus.NewRegistry(), logging.Nop{}, time.Second)
	require.Error(t, s.Run(context.Background()))
}
