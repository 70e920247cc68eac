package server

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestHandleHealth(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	HandleHealth(context.Background()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	if body, _ := io.ReadAll(rec.Body); string(body) != `{"status": "ok"}` {
		t.Errorf("unexpected body %q", body)
	}
}

func TestServeHTTPShutdown(t *testing.T) {
	t.Parallel()

	srv, err := New("127.0.0.1:0")
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	mux := http.NewServeMux()
	mux.Handle("/health", HandleHealth(ctx))

	done := make(chan error, 1)
	go func() {
		done <- srv.ServeHTTP(ctx, &http.Server{Handler: mux})
	}()

	resp, err := http.Get("http://" + srv.Addr() + "/health")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	_ = resp.Body.Close()

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("serve: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
