package target

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/soniakeys/unit"
)

const (
	// DefaultSesameURL is the CDS Sesame name resolver endpoint,
	// plain-text output, Simbad/NED/VizieR in order.
	DefaultSesameURL = "https://cds.unistra.fr/cgi-bin/nph-sesame/-op/SNV"

	// DefaultTimeout for resolver HTTP requests.
	DefaultTimeout = 30 * time.Second
)

// Resolver resolves target names and specifiers into sky positions.
type Resolver struct {
	client  *http.Client
	url     string
	timeout time.Duration
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithURL sets a custom Sesame endpoint.
func WithURL(url string) ResolverOption {
	return func(r *Resolver) {
		r.url = url
	}
}

// WithTimeout sets the HTTP request timeout.
func WithTimeout(d time.Duration) ResolverOption {
	return func(r *Resolver) {
		r.timeout = d
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) ResolverOption {
	return func(r *Resolver) {
		r.client = client
	}
}

// NewResolver creates a name resolver.
func NewResolver(opts ...ResolverOption) *Resolver {
	r := &Resolver{
		url:     DefaultSesameURL,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.client == nil {
		r.client = &http.Client{Timeout: r.timeout}
	}
	return r
}

// ResolveAll converts specifiers into targets, in order. Coordinate
// specifiers never touch the network. The first failure aborts.
func (r *Resolver) ResolveAll(ctx context.Context, specs []string) ([]Target, error) {
	targets := make([]Target, 0, len(specs))
	for _, spec := range specs {
		t, ok, err := Parse(spec)
		if err != nil {
			return nil, err
		}
		if !ok {
			t, err = r.Resolve(ctx, spec)
			if err != nil {
				return nil, err
			}
		}
		targets = append(targets, t)
	}
	return targets, nil
}

// Resolve looks up a proper name via Sesame.
func (r *Resolver) Resolve(ctx context.Context, name string) (Target, error) {
	reqURL := r.url + "?" + url.QueryEscape(name)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return Target{}, fmt.Errorf("resolve %q: %w", name, err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return Target{}, fmt.Errorf("resolve %q: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Target{}, fmt.Errorf("resolve %q: sesame returned status %d", name, resp.StatusCode)
	}

	raDeg, decDeg, err := parseSesameResponse(resp.Body)
	if err != nil {
		return Target{}, fmt.Errorf("resolve %q: %w", name, err)
	}

	return Target{
		Label: name,
		RA:    unit.RAFromDeg(raDeg),
		Dec:   unit.AngleFromDeg(decDeg),
	}, nil
}

// parseSesameResponse extracts the J2000 position from Sesame's plain-text
// output. The position line looks like:
//
//	%J 083.6330830 +22.0145000 = 05:34:31.93 +22:00:52.2
func parseSesameResponse(body io.Reader) (raDeg, decDeg float64, err error) {
	scanner := bufio.NewScanner(body)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "%J ") {
			continue
		}
		fields := strings.Fields(line[3:])
		if len(fields) < 2 {
			continue
		}
		ra, err1 := strconv.ParseFloat(fields[0], 64)
		dec, err2 := strconv.ParseFloat(fields[1], 64)
		if err1 != nil || err2 != nil {
			continue
		}
		return ra, dec, nil
	}
	if err := scanner.Err(); err != nil {
		return 0, 0, fmt.Errorf("read response: %w", err)
	}
	return 0, 0, fmt.Errorf("name not found")
}
