// Package eop supplies the TT-UT1 offset (delta T) needed for precise
// time-to-coordinate conversions. The values come from the published USNO
// table, fetched once and cached on disk; when neither network nor cache is
// available a polynomial approximation is used instead.
package eop

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultURL is the USNO delta T observation table. Each line is
	// "year month day deltaT", e.g. "2015  3  1  67.8012".
	DefaultURL = "https://maia.usno.navy.mil/ser7/deltat.data"

	// DefaultTimeout for the table download.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxAge is how long a cached table is used without refetching.
	DefaultMaxAge = 30 * 24 * time.Hour

	cacheFile = "deltat.data"
)

// Source fetches and caches the delta T table.
type Source struct {
	client   *http.Client
	url      string
	cacheDir string
	maxAge   time.Duration
	timeout  time.Duration
}

// SourceOption configures a Source.
type SourceOption func(*Source)

// WithURL sets a custom table URL.
func WithURL(url string) SourceOption {
	return func(s *Source) {
		s.url = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) SourceOption {
	return func(s *Source) {
		s.client = client
	}
}

// WithCacheDir sets the cache directory.
func WithCacheDir(dir string) SourceOption {
	return func(s *Source) {
		s.cacheDir = dir
	}
}

// WithMaxAge sets how long a cached table stays fresh.
func WithMaxAge(d time.Duration) SourceOption {
	return func(s *Source) {
		s.maxAge = d
	}
}

// NewSource creates a delta T source. The default cache location is the
// user cache directory.
func NewSource(opts ...SourceOption) *Source {
	s := &Source{
		url:     DefaultURL,
		maxAge:  DefaultMaxAge,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.client == nil {
		s.client = &http.Client{Timeout: s.timeout}
	}
	if s.cacheDir == "" {
		if dir, err := os.UserCacheDir(); err == nil {
			s.cacheDir = filepath.Join(dir, "ls-visplot")
		}
	}
	return s
}

// Load returns the delta T table, preferring a fresh on-disk cache, then the
// network, then a stale cache. When all three fail the error is returned and
// the caller should fall back to Fallback().
func (s *Source) Load(ctx context.Context) (*Table, error) {
	path := filepath.Join(s.cacheDir, cacheFile)

	if t, err := s.loadCache(path, s.maxAge); err == nil {
		return t, nil
	}

	t, raw, err := s.fetch(ctx)
	if err == nil {
		s.writeCache(path, raw)
		return t, nil
	}

	// Stale cache beats no data.
	if t2, err2 := s.loadCache(path, 0); err2 == nil {
		return t2, nil
	}
	return nil, err
}

func (s *Source) loadCache(path string, maxAge time.Duration) (*Table, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if maxAge > 0 && time.Since(fi.ModTime()) > maxAge {
		return nil, fmt.Errorf("cache older than %v", maxAge)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

func (s *Source) fetch(ctx context.Context) (*Table, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("delta T fetch: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("delta T fetch: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, nil, fmt.Errorf("delta T fetch: status %d", resp.StatusCode)
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("delta T fetch: %w", err)
	}
	t, err := Parse(strings.NewReader(string(raw)))
	if err != nil {
		return nil, nil, err
	}
	return t, raw, nil
}

func (s *Source) writeCache(path string, raw []byte) {
	// Cache write failures are not fatal; the fetched table is still usable.
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return
	}
	_ = os.WriteFile(path, raw, 0o644)
}

// entry is one table row: delta T seconds at a UTC instant.
type entry struct {
	at time.Time
	dt float64
}

// Table holds delta T observations ordered by time.
type Table struct {
	entries []entry
}

// Fallback returns an empty table; all lookups use the polynomial.
func Fallback() *Table {
	return &Table{}
}

// Parse reads a deltat.data style table: "year month day deltaT" per line.
func Parse(r io.Reader) (*Table, error) {
	var entries []entry
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 4 {
			continue
		}
		year, err1 := strconv.Atoi(fields[0])
		month, err2 := strconv.Atoi(fields[1])
		day, err3 := strconv.Atoi(fields[2])
		dt, err4 := strconv.ParseFloat(fields[3], 64)
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
			continue
		}
		if month < 1 || month > 12 || day < 1 || day > 31 {
			continue
		}
		entries = append(entries, entry{
			at: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC),
			dt: dt,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read delta T table: %w", err)
	}
	if len(entries) < 2 {
		return nil, fmt.Errorf("delta T table has %d usable rows", len(entries))
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].at.Before(entries[j].at) })
	return &Table{entries: entries}, nil
}

// DeltaT returns TT-UT1 in seconds at the given instant, interpolating the
// table linearly. Outside the table span it falls back to the polynomial.
func (t *Table) DeltaT(at time.Time) float64 {
	n := len(t.entries)
	if n == 0 || at.Before(t.entries[0].at) || at.After(t.entries[n-1].at) {
		return Polynomial(at)
	}
	i := sort.Search(n, func(i int) bool { return !t.entries[i].at.Before(at) })
	if i == 0 {
		return t.entries[0].dt
	}
	a, b := t.entries[i-1], t.entries[i]
	span := b.at.Sub(a.at).Seconds()
	if span == 0 {
		return a.dt
	}
	f := at.Sub(a.at).Seconds() / span
	return a.dt + f*(b.dt-a.dt)
}

// Polynomial is the Espenak-Meeus delta T approximation, valid this century.
func Polynomial(at time.Time) float64 {
	y := float64(at.Year()) + (float64(at.YearDay())-0.5)/365.25
	switch {
	case y < 1986:
		// Pre-modern dates are out of scope for a planning tool; pin to
		// the 1986 fit edge rather than carrying the full piecewise table.
		y = 1986
		fallthrough
	case y < 2005:
		u := y - 2000
		return 63.86 + 0.3345*u - 0.060374*u*u + 0.0017275*u*u*u +
			0.000651814*u*u*u*u + 0.00002373599*u*u*u*u*u
	case y < 2050:
		u := y - 2000
		return 62.92 + 0.32217*u + 0.005589*u*u
	default:
		u := (y - 1820) / 100
		return -20 + 32*u*u - 0.5628*(2150-y)
	}
}
