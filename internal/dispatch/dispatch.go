// Package dispatch applies a branch resolution to an execution sink:
// the environment of a kbc subprocess, or the headers of a forwarded
// HTTP request. Overlays are transient, one per operation, and are
// recomputed from a fresh resolution every time.
package dispatch

import (
	"net/http"
	"strings"

	"github.com/esnerda/kbc-branch-mcp/internal/resolver"
)

const (
	// BranchIDEnvVar is the variable the Keboola CLI reads to target a
	// development branch
	BranchIDEnvVar = "KBC_BRANCH_ID"
	// BranchIDHeader is the header the remote MCP server reads to
	// target a development branch; absence means production
	BranchIDHeader = "X-KBC-Branch-Id"
)

// Env is an environment overlay: variables to set and variables that
// must not survive from the parent process
type Env struct {
	Set   map[string]string
	Unset []string
}

// EnvOverlay builds the subprocess environment overlay for a
// resolution. For production the branch variable is explicitly unset:
// a stale value inherited from the parent process would silently point
// the CLI at the wrong branch.
func EnvOverlay(res resolver.Resolution) Env {
	if res.IsProduction {
		return Env{Unset: []string{BranchIDEnvVar}}
	}
	return Env{Set: map[string]string{BranchIDEnvVar: *res.RemoteBranchID}}
}

// Apply merges the overlay over a base environment snapshot in the
// "KEY=value" form of os.Environ. The base is not mutated and the
// process environment is never touched.
func (e Env) Apply(base []string) []string {
	drop := make(map[string]bool, len(e.Unset)+len(e.Set))
	for _, key := range e.Unset {
		drop[key] = true
	}
	for key := range e.Set {
		drop[key] = true
	}

	out := make([]string, 0, len(base)+len(e.Set))
	for _, kv := range base {
		key, _, ok := strings.Cut(kv, "=")
		if ok && drop[key] {
			continue
		}
		out = append(out, kv)
	}
	for key, value := range e.Set {
		out = append(out, key+"="+value)
	}
	return out
}

// HeaderOverlay builds the outbound header overlay for a resolution.
// For production the branch header key is entirely absent, never
// present with an empty value.
func HeaderOverlay(res resolver.Resolution) http.Header {
	h := http.Header{}
	if !res.IsProduction {
		h.Set(BranchIDHeader, *res.RemoteBranchID)
	}
	return h
}

// ApplyHeaders applies the resolution to an outbound request. The
// branch header is always deleted first so a value carried over from
// the inbound request cannot leak through on production.
func ApplyHeaders(req *http.Request, res resolver.Resolution) {
	req.Header.Del(BranchIDHeader)
	for key, values := range HeaderOverlay(res) {
		for _, v := range values {
			req.Header.Set(key, v)
		}
	}
}
