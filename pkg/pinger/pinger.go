// Package pinger notifies search engines that the sitemap changed.
package pinger

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"marinehub.app/configs/configslog"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Result is the outcome for one ping endpoint.
type Result struct {
	URL    string `json:"url"`
	Status int    `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Pinger pings every endpoint concurrently. Each endpoint has its own breaker
// so a dead engine stops being called for a while.
type Pinger struct {
	client    *http.Client
	endpoints []string
	breakers  map[string]*gobreaker.CircuitBreaker[int]
}

// New creates a Pinger. A nil client uses a 10 second timeout.
func New(endpoints []string, client *http.Client) *Pinger {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	breakers := make(map[string]*gobreaker.CircuitBreaker[int], len(endpoints))
	for _, ep := range endpoints {
		breakers[ep] = gobreaker.NewCircuitBreaker[int](gobreaker.Settings{
			Name:        "sitemap-ping:" + ep,
			MaxRequests: 1,
			Interval:    time.Hour,
			Timeout:     15 * time.Minute,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 3
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				configslog.Log.Warn("Ping circuit breaker state changed",
					zap.String("breaker", name), zap.String("from", from.String()), zap.String("to", to.String()))
			},
		})
	}
	return &Pinger{client: client, endpoints: endpoints, breakers: breakers}
}

// Endpoints returns the configured ping URLs.
func (p *Pinger) Endpoints() []string { return p.endpoints }

// Ping sends GET <endpoint>?sitemap=<sitemapURL> to all endpoints. It never
// fails as a whole; per-endpoint errors are reported in the results.
func (p *Pinger) Ping(ctx context.Context, sitemapURL string) []Result {
	results := make([]Result, len(p.endpoints))
	g, gctx := errgroup.WithContext(ctx)
	for i, ep := range p.endpoints {
		g.Go(func() error {
			results[i] = p.pingOne(gctx, ep, sitemapURL)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func (p *Pinger) pingOne(ctx context.Context, endpoint, sitemapURL string) Result {
	target := endpoint + "?sitemap=" + url.QueryEscape(sitemapURL)
	res := Result{URL: endpoint}

	status, err := p.breakers[endpoint].Execute(func() (int, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		if err != nil {
			return 0, err
		}
		resp, err := p.client.Do(req)
		if err != nil {
			return 0, err
		}
		defer resp.Body.Close()
		_, _ = io.Copy(io.Discard, resp.Body)
		if resp.StatusCode >= 500 {
			return resp.StatusCode, fmt.Errorf("ping returned %d", resp.StatusCode)
		}
		return resp.StatusCode, nil
	})
	res.Status = status
	if err != nil {
		res.Error = err.Error()
		configslog.Log.Warn("Sitemap ping failed", zap.String("endpoint", endpoint), zap.Error(err))
	}
	return res
}
