package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func serve(t *testing.T, html string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(html))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestExtractImageURL_OGImage(t *testing.T) {
	srv := serve(t, `<html><head>
		<meta property="og:image" content="https://cdn.example/og.png">
		<meta name="twitter:image" content="https://cdn.example/tw.png">
	</head><body></body></html>`)

	url, err := ExtractImageURL(context.Background(), srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	if url != "https://cdn.example/og.png" {
		t.Errorf("url = %q, want og:image to win", url)
	}
}

func TestExtractImageURL_TwitterFallback(t *testing.T) {
	srv := serve(t, `<html><head>
		<meta name="twitter:image" content="https://cdn.example/tw.png">
	</head><body></body></html>`)

	url, err := ExtractImageURL(context.Background(), srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	if url != "https://cdn.example/tw.png" {
		t.Errorf("url = %q", url)
	}
}

func TestExtractImageURL_ContentImage(t *testing.T) {
	srv := serve(t, `<html><body><article>
		<img src="/relative.png"><img src="https://cdn.example/lead.jpg">
	</article></body></html>`)

	url, err := ExtractImageURL(context.Background(), srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	if url != "https://cdn.example/lead.jpg" {
		t.Errorf("url = %q, relative srcs must be skipped", url)
	}
}

func TestExtractImageURL_NoImage(t *testing.T) {
	srv := serve(t, `<html><body><p>только текст</p></body></html>`)

	url, err := ExtractImageURL(context.Background(), srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	if url != "" {
		t.Errorf("url = %q, want empty", url)
	}
}

func TestExtractImageURL_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	if _, err := ExtractImageURL(context.Background(), srv.URL); err == nil {
		t.Error("expected error on 404")
	}
}
