package yandexart

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Ivan1990Nik/telegram-it-bot/internal/logger"
)

func TestMain(m *testing.M) {
	logger.Init(false)
	os.Exit(m.Run())
}

func TestGenerate_PollsUntilDone(t *testing.T) {
	var polls atomic.Int32

	gen := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer art-key" {
			t.Errorf("Authorization = %q", got)
		}
		w.Write([]byte(`{"id":"op-1"}`))
	}))
	defer gen.Close()

	op := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/op-1" {
			t.Errorf("poll path = %q", r.URL.Path)
		}
		if polls.Add(1) < 3 {
			w.Write([]byte(`{"id":"op-1","done":false}`))
			return
		}
		w.Write([]byte(`{"id":"op-1","done":true,"response":{"image":{"url":"https://img.example/1.png"}}}`))
	}))
	defer op.Close()

	c := NewClient("art-key", "folder").WithEndpoints(gen.URL, op.URL, time.Millisecond)
	url, err := c.Generate(context.Background(), "Иллюстрация для IT новости")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if url != "https://img.example/1.png" {
		t.Errorf("url = %q", url)
	}
	if polls.Load() != 3 {
		t.Errorf("polled %d times, want 3", polls.Load())
	}
}

func TestGenerate_GivesUpAfterTenPolls(t *testing.T) {
	var polls atomic.Int32

	gen := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"op-2"}`))
	}))
	defer gen.Close()

	op := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		polls.Add(1)
		w.Write([]byte(`{"id":"op-2","done":false}`))
	}))
	defer op.Close()

	c := NewClient("k", "f").WithEndpoints(gen.URL, op.URL, time.Millisecond)
	url, err := c.Generate(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("unfinished job must not be an error, got %v", err)
	}
	if url != "" {
		t.Errorf("url = %q, want empty", url)
	}
	if polls.Load() != 10 {
		t.Errorf("polled %d times, want exactly 10", polls.Load())
	}
}

func TestGenerate_SubmitFailure(t *testing.T) {
	gen := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer gen.Close()

	c := NewClient("k", "f").WithEndpoints(gen.URL, gen.URL, time.Millisecond)
	if _, err := c.Generate(context.Background(), "prompt"); err == nil {
		t.Error("expected error on submit failure")
	}
}
