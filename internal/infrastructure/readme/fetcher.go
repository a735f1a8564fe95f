package readme

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/cenk/backoff"
	"github.com/go-resty/resty/v2"
	"github.com/rs/dnscache"
	circuit "github.com/rubyist/circuitbreaker"

	"github.com/bravo68web/odinpkg/internal/config"
	"github.com/bravo68web/odinpkg/internal/domain/service"
	"github.com/bravo68web/odinpkg/pkg/logger"
)

var (
	// ErrUpstreamDown is returned while a host's breaker is open
	ErrUpstreamDown = errors.New("readme host unavailable")

	// ErrTooLarge is returned when a readme exceeds the configured size
	ErrTooLarge = errors.New("readme too large")

	// ErrBlockedAddress is returned when a readme host resolves to an
	// address that is not publicly routable
	ErrBlockedAddress = errors.New("readme host address not allowed")
)

// Fetcher downloads readme sources. Each request is attempted once; hosts
// that keep failing are short-circuited by a per-host breaker.
type Fetcher struct {
	client    *resty.Client
	maxBytes  int64
	threshold int64

	mu       sync.RWMutex
	breakers map[string]*circuit.Breaker
	stop     chan struct{}
	once     sync.Once
	log      *logger.Logger
}

// NewFetcher creates a fetcher from readme configuration
func NewFetcher(cfg config.ReadmeConfig) *Fetcher {
	resolver := &dnscache.Resolver{}
	stop := make(chan struct{})
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				resolver.Refresh(true)
			case <-stop:
				return
			}
		}
	}()

	client := resty.New().
		SetTransport(cachedDNSTransport(resolver, cfg.AllowPrivateHosts)).
		SetTimeout(cfg.FetchTimeout).
		SetRetryCount(0).
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(5)).
		SetHeader("Accept", "text/markdown, text/plain, */*").
		SetHeader("User-Agent", "odinpkg-readme-fetcher")

	return &Fetcher{
		client:    client,
		maxBytes:  cfg.MaxBytes,
		threshold: cfg.BreakerThreshold,
		breakers:  make(map[string]*circuit.Breaker),
		stop:      stop,
		log:       logger.Get().WithFields(logger.Component("readme-fetcher")),
	}
}

// publicAddress reports whether ip may be fetched from. Loopback, private,
// link-local (cloud metadata), multicast and unspecified addresses are refused.
func publicAddress(ip net.IP) bool {
	return ip != nil &&
		!ip.IsLoopback() &&
		!ip.IsPrivate() &&
		!ip.IsLinkLocalUnicast() &&
		!ip.IsLinkLocalMulticast() &&
		!ip.IsInterfaceLocalMulticast() &&
		!ip.IsMulticast() &&
		!ip.IsUnspecified()
}

// cachedDNSTransport dials the addresses the DNS cache resolved, checking each
// one. Redirects dial through here too. No proxy is used so the check cannot
// be bypassed.
func cachedDNSTransport(resolver *dnscache.Resolver, allowPrivate bool) *http.Transport {
	dialer := &net.Dialer{
		Timeout:   10 * time.Second,
		KeepAlive: 30 * time.Second,
	}
	return &http.Transport{
		DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			host, port, err := net.SplitHostPort(addr)
			if err != nil {
				return nil, err
			}
			ips, err := resolver.LookupHost(ctx, host)
			if err != nil {
				return nil, err
			}
			var blocked bool
			for _, ip := range ips {
				if !allowPrivate && !publicAddress(net.ParseIP(ip)) {
					blocked = true
					continue
				}
				conn, err := dialer.DialContext(ctx, network, net.JoinHostPort(ip, port))
				if err == nil {
					return conn, nil
				}
			}
			if blocked {
				return nil, fmt.Errorf("%s: %w", host, ErrBlockedAddress)
			}
			return nil, fmt.Errorf("failed to dial any resolved address of %s", host)
		},
		MaxIdleConns:        50,
		MaxIdleConnsPerHost: 5,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
}

// Close stops the DNS cache refresher
func (f *Fetcher) Close() error {
	f.once.Do(func() { close(f.stop) })
	return nil
}

func (f *Fetcher) getBreaker(host string) *circuit.Breaker {
	f.mu.RLock()
	breaker, exists := f.breakers[host]
	f.mu.RUnlock()

	if exists {
		return breaker
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if breaker, exists := f.breakers[host]; exists {
		return breaker
	}

	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.InitialInterval = 30 * time.Second
	expBackoff.MaxInterval = 5 * time.Minute
	expBackoff.Multiplier = 2.0
	expBackoff.Reset()

	breaker = circuit.NewBreakerWithOptions(&circuit.Options{
		BackOff:    expBackoff,
		ShouldTrip: circuit.ThresholdTripFunc(f.threshold),
	})
	f.breakers[host] = breaker
	return breaker
}

// Fetch downloads the readme at rawURL
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return "", fmt.Errorf("invalid readme url %q", rawURL)
	}

	breaker := f.getBreaker(u.Host)
	if !breaker.Ready() {
		return "", fmt.Errorf("circuit breaker open for %s: %w", u.Host, ErrUpstreamDown)
	}

	// client errors are the caller's fault and do not count against the host
	var body string
	var clientErr error
	err = breaker.Call(func() error {
		var fetchErr error
		body, fetchErr = f.get(ctx, rawURL)
		var status statusError
		if errors.As(fetchErr, &status) && status.code < http.StatusInternalServerError {
			clientErr = fetchErr
			return nil
		}
		if errors.Is(fetchErr, ErrBlockedAddress) {
			clientErr = fetchErr
			return nil
		}
		return fetchErr
	}, 0)
	if err != nil {
		f.log.Warn("readme fetch failed", logger.Host(u.Host), logger.Error(err))
		return "", err
	}
	if clientErr != nil {
		return "", clientErr
	}
	return body, nil
}

type statusError struct {
	code int
	url  string
}

func (e statusError) Error() string {
	return fmt.Sprintf("fetching %s: unexpected status %d", e.url, e.code)
}

func (f *Fetcher) get(ctx context.Context, rawURL string) (string, error) {
	resp, err := f.client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(rawURL)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", rawURL, err)
	}
	body := resp.RawBody()
	defer body.Close()

	if resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		return "", statusError{code: resp.StatusCode(), url: rawURL}
	}

	data, err := io.ReadAll(io.LimitReader(body, f.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", rawURL, err)
	}
	if int64(len(data)) > f.maxBytes {
		return "", fmt.Errorf("%w: more than %d bytes", ErrTooLarge, f.maxBytes)
	}
	return string(data), nil
}

// BreakerStates reports the breaker state of every host fetched so far
func (f *Fetcher) BreakerStates() map[string]string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	states := make(map[string]string, len(f.breakers))
	for host, breaker := range f.breakers {
		if breaker.Tripped() {
			states[host] = "open"
		} else {
			states[host] = "closed"
		}
	}
	return states
}

var _ service.ReadmeFetcher = (*Fetcher)(nil)
