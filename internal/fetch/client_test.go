package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"

	"auction-draft-mcp/internal/store"
)

func TestFetchCatalogCaches(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte("Name,Position,ProjPoints,AAV\nA,QB,300,40\n"))
	}))
	defer srv.Close()

	c := NewClient(store.NewJSONStore(t.TempDir()))
	url := srv.URL + "/2025/players.csv"

	p1, err := c.FetchCatalog(context.Background(), url, false)
	if err != nil {
		t.Fatalf("FetchCatalog: %v", err)
	}
	b, err := os.ReadFile(p1)
	if err != nil || len(b) == 0 {
		t.Fatalf("cached file: %v", err)
	}
	if _, err := c.FetchCatalog(context.Background(), url, false); err != nil {
		t.Fatal(err)
	}
	if hits.Load() != 1 {
		t.Errorf("hits = %d, want 1 (second call cached)", hits.Load())
	}
	if _, err := c.FetchCatalog(context.Background(), url, true); err != nil {
		t.Fatal(err)
	}
	if hits.Load() != 2 {
		t.Errorf("hits = %d, want 2 after force", hits.Load())
	}
}

func TestFetchCatalogHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(store.NewJSONStore(t.TempDir()))
	if _, err := c.FetchCatalog(context.Background(), srv.URL+"/x.csv", false); err == nil {
		t.Error("want error on 404")
	}
}

func TestCachePath(t *testing.T) {
	got, err := CachePath("https://example.com/data/proj.xlsx?v=2")
	if err != nil || got != "catalog/example.com/proj.xlsx" {
		t.Errorf("CachePath = %q, %v", got, err)
	}
	if !IsURL("https://x") || IsURL("players.csv") {
		t.Error("IsURL wrong")
	}
}
