package errors

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func TestIncrementError(t *testing.T) {
	h := NewErrorHandler("", 0, nil)
	defer h.Stop()

	h.IncrementError()
	h.IncrementError()

	if got := h.Total(); got != 2 {
		t.Errorf("Total() = %v, want %v", got, 2)
	}
	if h.exceeded() {
		t.Error("exceeded() should be false when the watchdog is disabled")
	}
}

func TestExceeded(t *testing.T) {
	h := &ErrorHandler{maxErrors: 2, stopChan: make(chan struct{})}

	for i := 0; i < 2; i++ {
		h.IncrementError()
	}
	if h.exceeded() {
		t.Error("exceeded() should be false at the limit")
	}

	h.IncrementError()
	if !h.exceeded() {
		t.Error("exceeded() should be true above the limit")
	}
}

func TestShutdownCallsHooks(t *testing.T) {
	var shutdown, exited int32

	h := &ErrorHandler{
		maxErrors:    1,
		stopChan:     make(chan struct{}),
		shutdownFunc: func() { atomic.AddInt32(&shutdown, 1) },
		exitFunc:     func(code int) { atomic.StoreInt32(&exited, int32(code)) },
	}

	h.shutdown()

	if atomic.LoadInt32(&shutdown) != 1 {
		t.Error("shutdownFunc was not called")
	}
	if atomic.LoadInt32(&exited) != 1 {
		t.Error("exitFunc was not called with code 1")
	}
}

func TestRecoverMiddleware(t *testing.T) {
	h := NewErrorHandler("", 0, nil)
	defer h.Stop()

	handlerMu.Lock()
	prev := handler
	handler = h
	handlerMu.Unlock()
	defer func() {
		handlerMu.Lock()
		handler = prev
		handlerMu.Unlock()
	}()

	func() {
		defer RecoverMiddleware()()
		panic("kaboom")
	}()

	if got := h.Total(); got != 1 {
		t.Errorf("Total() = %v, want %v", got, 1)
	}

	Recovered()
	if got := h.Total(); got != 2 {
		t.Errorf("Total() after Recovered = %v, want %v", got, 2)
	}
}

func TestReport(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("Content-Type = %v", r.Header.Get("Content-Type"))
		}
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	h := NewErrorHandler(srv.URL, 0, nil)
	defer h.Stop()

	h.Report(ReportErrorOptions{Error: "Test", Message: "mensaje"})

	if atomic.LoadInt32(&hits) != 1 {
		t.Errorf("webhook hits = %v, want 1", hits)
	}
}
