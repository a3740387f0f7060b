package eop

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const sampleTable = ` 2015  1  1  67.5730
 2015  7  1  67.7000
 2016  1  1  68.1024
 2016  7  1  68.3964
`

func TestParse(t *testing.T) {
	tbl, err := Parse(strings.NewReader(sampleTable))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	// Exact table points.
	got := tbl.DeltaT(time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC))
	if got != 67.5730 {
		t.Errorf("DeltaT(2015-01-01) = %v, want 67.5730", got)
	}

	// Midpoint interpolates linearly.
	mid := tbl.DeltaT(time.Date(2015, 10, 1, 12, 0, 0, 0, time.UTC))
	if mid <= 67.70 || mid >= 68.1024 {
		t.Errorf("DeltaT(2015-10-01) = %v, want between 67.70 and 68.1024", mid)
	}
}

func TestParse_SkipsJunkLines(t *testing.T) {
	in := "# comment\n" + sampleTable + "not a data line\n"
	tbl, err := Parse(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if got := tbl.DeltaT(time.Date(2016, 1, 1, 0, 0, 0, 0, time.UTC)); got != 68.1024 {
		t.Errorf("DeltaT = %v, want 68.1024", got)
	}
}

func TestParse_TooFewRows(t *testing.T) {
	if _, err := Parse(strings.NewReader("2015 1 1 67.5\n")); err == nil {
		t.Fatal("Parse accepted single-row table, want error")
	}
}

func TestDeltaT_OutsideTableUsesPolynomial(t *testing.T) {
	tbl, err := Parse(strings.NewReader(sampleTable))
	if err != nil {
		t.Fatal(err)
	}
	at := time.Date(2030, 6, 1, 0, 0, 0, 0, time.UTC)
	if got, want := tbl.DeltaT(at), Polynomial(at); got != want {
		t.Errorf("DeltaT outside table = %v, want polynomial value %v", got, want)
	}
}

func TestPolynomial_PlausibleRange(t *testing.T) {
	tests := []struct {
		year     int
		min, max float64
	}{
		{2006, 64, 66},
		{2026, 69, 75},
		{2049, 75, 95},
	}
	for _, tc := range tests {
		at := time.Date(tc.year, 6, 1, 0, 0, 0, 0, time.UTC)
		got := Polynomial(at)
		if got < tc.min || got > tc.max {
			t.Errorf("Polynomial(%d) = %v, want within [%v, %v]", tc.year, got, tc.min, tc.max)
		}
	}
}

func TestLoad_FetchesAndCaches(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Write([]byte(sampleTable))
	}))
	defer srv.Close()

	dir := t.TempDir()
	src := NewSource(WithURL(srv.URL), WithCacheDir(dir))

	if _, err := src.Load(context.Background()); err != nil {
		t.Fatalf("first Load error: %v", err)
	}
	if requests != 1 {
		t.Fatalf("server saw %d requests after first load, want 1", requests)
	}

	// Second load is served from the cache.
	src2 := NewSource(WithURL(srv.URL), WithCacheDir(dir))
	if _, err := src2.Load(context.Background()); err != nil {
		t.Fatalf("second Load error: %v", err)
	}
	if requests != 1 {
		t.Errorf("server saw %d requests after cached load, want 1", requests)
	}
}

func TestLoad_StaleCacheBeatsDeadServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleTable))
	}))

	dir := t.TempDir()
	if _, err := NewSource(WithURL(srv.URL), WithCacheDir(dir)).Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	srv.Close()

	// Zero max age forces a refetch attempt, which now fails; the stale
	// cache must still be served.
	src := NewSource(WithURL(srv.URL), WithCacheDir(dir), WithMaxAge(time.Nanosecond))
	time.Sleep(10 * time.Millisecond)
	if _, err := src.Load(context.Background()); err != nil {
		t.Fatalf("Load with stale cache error: %v", err)
	}
}

func TestLoad_NoCacheNoNetwork(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // immediately dead

	src := NewSource(WithURL(srv.URL), WithCacheDir(t.TempDir()))
	if _, err := src.Load(context.Background()); err == nil {
		t.Fatal("Load succeeded with no cache and no network, want error")
	}
}
