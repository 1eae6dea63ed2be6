package ops

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/rewear/internal/logging"
	"github.com/dmitrijs2005/rewear/internal/server/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePinger struct{ err error }

func (f fakePinger) PingContext(context.Context) error { return f.err }

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealthz(t *testing.T) {
	s := NewServer(":0", fakePinger{err: errors.New("down")}, nil, logging.Nop())

	rec := get(t, s.Router(), "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestReadyz(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "db up", want: http.StatusOK},
		{name: "db down", err: errors.New("connection refused"), want: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewServer(":0", fakePinger{err: tt.err}, nil, logging.Nop())
			rec := get(t, s.Router(), "/readyz")
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestMetrics(t *testing.T) {
	m := metrics.New()
	m.ObserveExchange("redeem", "ok")
	s := NewServer(":0", fakePinger{}, m, logging.Nop())

	rec := get(t, s.Router(), "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `rewear_exchange_attempts_total{op="redeem",outcome="ok"} 1`)
}

func TestMetrics_NotMountedWithoutCollectors(t *testing.T) {
	s := NewServer(":0", fakePinger{}, nil, logging.Nop())
	assert.Equal(t, http.StatusNotFound, get(t, s.Router(), "/metrics").Code)
}

func TestServe_StopsOnContextCancel(t *testing.T) {
	s := NewServer("", fakePinger{}, nil, logging.Nop())

	listen, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.serve(ctx, listen) }()

	resp, err := http.Get("http://" + listen.Addr().String() + "/healthz")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, "ok", string(body))

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("ops server did not stop")
	}
}

func TestRun_ReturnsErrorOnBadAddress(t *testing.T) {
	s := NewServer("127.0.0.1:99999", fakePinger{}, nil, logging.Nop())
	require.Error(t, s.Run(context.Background()))
}
