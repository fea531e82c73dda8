package telegram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Ivan1990Nik/telegram-it-bot/internal/logger"
)

func TestMain(m *testing.M) {
	logger.Init(false)
	os.Exit(m.Run())
}

func newTestClient(srv *httptest.Server) *Client {
	return NewClient("token", "-1001234567890", 3, time.Millisecond).WithBaseURL(srv.URL)
}

func TestDeliver_SucceedsAfterTwoFailures(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) <= 2 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	start := time.Now()
	if ok := newTestClient(srv).Deliver(context.Background(), "привет", ""); !ok {
		t.Fatal("Deliver must succeed on the third attempt")
	}
	if calls.Load() != 3 {
		t.Errorf("made %d calls, want exactly 3", calls.Load())
	}
	if elapsed := time.Since(start); elapsed < 2*time.Millisecond {
		t.Errorf("expected at least 2 delay intervals, elapsed %v", elapsed)
	}
}

func TestDeliver_FailsAfterThreeAttempts(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	if ok := newTestClient(srv).Deliver(context.Background(), "привет", ""); ok {
		t.Fatal("Deliver must fail when every attempt fails")
	}
	if calls.Load() != 3 {
		t.Errorf("made %d calls, want exactly 3", calls.Load())
	}
}

func TestDeliver_ImageUsesSendDocument(t *testing.T) {
	var method atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		parts := strings.Split(r.URL.Path, "/")
		method.Store(parts[len(parts)-1])
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	if ok := newTestClient(srv).Deliver(context.Background(), "текст", "https://img.example/a.png"); !ok {
		t.Fatal("Deliver failed")
	}
	if got := method.Load(); got != "sendDocument" {
		t.Errorf("method = %v, want sendDocument", got)
	}
}

func TestDeliver_ImageFailureFallsBackToText(t *testing.T) {
	var docCalls, msgCalls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "sendDocument") {
			docCalls.Add(1)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		msgCalls.Add(1)
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	if ok := newTestClient(srv).Deliver(context.Background(), "текст", "https://img.example/b.png"); !ok {
		t.Fatal("fallback text send must rescue the delivery")
	}
	if docCalls.Load() != 3 || msgCalls.Load() != 1 {
		t.Errorf("docCalls=%d msgCalls=%d, want 3 and 1", docCalls.Load(), msgCalls.Load())
	}
}

func TestSendPhoto_ClampsCaption(t *testing.T) {
	var gotCaption string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		json.NewDecoder(r.Body).Decode(&payload)
		gotCaption, _ = payload["caption"].(string)
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	long := strings.Repeat("ж", 2000)
	if err := newTestClient(srv).SendPhoto(context.Background(), "https://img", long); err != nil {
		t.Fatal(err)
	}
	runes := []rune(gotCaption)
	if len(runes) != 1024 {
		t.Errorf("caption length = %d runes, want 1024", len(runes))
	}
	if runes[len(runes)-1] != '…' {
		t.Error("clamped caption must end with ellipsis")
	}
}

func TestClamp_ShortTextUntouched(t *testing.T) {
	if got := clamp("короткий текст", messageLimit); got != "короткий текст" {
		t.Errorf("clamp changed short text: %q", got)
	}
}
