// Package proxy forwards MCP traffic to the remote Keboola MCP server,
// injecting the storage token and the branch header derived from a
// fresh resolution on every single request. A long-lived session
// therefore observes a local branch switch on the very next call, and
// an unmapped branch blocks the request instead of reaching production.
package proxy

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httputil"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/esnerda/kbc-branch-mcp/internal/dispatch"
	"github.com/esnerda/kbc-branch-mcp/internal/logger"
	"github.com/esnerda/kbc-branch-mcp/internal/resolver"
)

const tokenHeader = "X-StorageAPI-Token" //nolint:gosec // header name, not a credential

type contextKey struct{}

// Forwarder is an HTTP handler that proxies requests to the remote MCP
// endpoint with branch context applied per request.
type Forwarder struct {
	target   *url.URL
	token    string
	resolver *resolver.Resolver
	log      logger.Logger
	proxy    *httputil.ReverseProxy
}

// NewForwarder creates a forwarder to targetURL
func NewForwarder(targetURL, token string, res *resolver.Resolver, log logger.Logger) (*Forwarder, error) {
	if log == nil {
		log = logger.Nop()
	}
	target, err := url.Parse(targetURL)
	if err != nil {
		return nil, err
	}

	f := &Forwarder{
		target:   target,
		token:    token,
		resolver: res,
		log:      log,
	}
	f.proxy = &httputil.ReverseProxy{
		Rewrite: f.rewrite,
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			f.log.Error("upstream request failed", "error", err)
			writeError(w, http.StatusBadGateway, "UPSTREAM_ERROR", err.Error(), nil)
		},
	}
	return f, nil
}

// ServeHTTP resolves the current branch and forwards the request. The
// resolution happens here, per request, never cached across requests.
func (f *Forwarder) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.NewString()
	log := f.log.With("request_id", requestID)

	res, err := f.resolver.RequireResolution(r.Context())
	if err != nil {
		var noMapping resolver.NoMappingError
		if errors.As(err, &noMapping) {
			log.Warn("request blocked: branch not linked", "git_branch", noMapping.LocalBranch)
			writeError(w, http.StatusPreconditionFailed, "NO_MAPPING", err.Error(), map[string]any{
				"git_branch":         noMapping.LocalBranch,
				"available_mappings": noMapping.Available,
			})
			return
		}
		log.Error("branch resolution failed", "error", err)
		writeError(w, http.StatusBadGateway, "RESOLUTION_ERROR", err.Error(), nil)
		return
	}

	log.Debug("forwarding request",
		"git_branch", res.LocalBranch,
		"keboola_branch_id", res.RemoteID(),
		"production", res.IsProduction)

	ctx := context.WithValue(r.Context(), contextKey{}, res)
	f.proxy.ServeHTTP(w, r.WithContext(ctx))
}

func (f *Forwarder) rewrite(pr *httputil.ProxyRequest) {
	pr.SetURL(f.target)
	pr.Out.Host = f.target.Host
	pr.Out.Header.Set(tokenHeader, f.token)

	if res, ok := pr.In.Context().Value(contextKey{}).(resolver.Resolution); ok {
		dispatch.ApplyHeaders(pr.Out, res)
	}
}

// Serve runs the forwarder on addr until ctx is cancelled
func (f *Forwarder) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           f,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		f.log.Info("proxy listening", "addr", addr, "target", f.target.String())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func writeError(w http.ResponseWriter, status int, code, message string, details map[string]any) {
	payload := map[string]any{
		"error":   code,
		"message": message,
	}
	for k, v := range details {
		payload[k] = v
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
