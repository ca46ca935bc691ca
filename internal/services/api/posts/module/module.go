// Package module wires posts into the API using modkit
package module

import (
	"context"
	"net/http"

	dirclient "chirp/internal/adapters/directory"
	modkit "chirp/internal/modkit"
	"chirp/internal/modkit/httpkit"
	"chirp/internal/platform/net/middleware"
	str "chirp/internal/platform/strings"
	postshttp "chirp/internal/services/api/posts/http"
	postsrepo "chirp/internal/services/api/posts/repo"
	postssvc "chirp/internal/services/api/posts/service"
	identdom "chirp/internal/services/directory/domain"
	ratedom "chirp/internal/services/ratelimit/domain"
	ratemem "chirp/internal/services/ratelimit/memory"
	rateredis "chirp/internal/services/ratelimit/redis"
)

// Module implements the modkit.Module interface
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws       []func(http.Handler) http.Handler
	ports     any
	swaggerOn bool

	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)

	svc postssvc.Service
}

// Ports declares optional injected ports for this module.
// Any nil field falls back to the config-driven default
type Ports struct {
	Auth     middleware.AuthPort
	Limiter  ratedom.AdmitterPort
	Recorder ratedom.RecorderPort
	Resolver identdom.ResolverPort
}

// New constructs a posts module with the provided dependencies and options
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("posts"),
		modkit.WithPrefix("/posts"),
	}, opts...)...)

	cfg := FromConfig(deps.Cfg)

	var injected Ports
	if p, ok := b.Ports.(Ports); ok {
		injected = p
	}

	limiter := injected.Limiter
	recorder := injected.Recorder
	rateCfg := ratedom.Config{Limit: cfg.RateLimit, Window: cfg.RateWindow}
	if limiter == nil {
		if deps.RD != nil {
			limiter = rateredis.New(deps.RD.Client(), rateCfg)
			if recorder == nil {
				recorder = rateredis.NewStats(deps.RD.Client(), rateCfg.Prefix)
			}
		} else {
			mem := ratemem.New(rateCfg)
			// single-node fallback lives for the whole process, keep it trimmed
			mem.StartJanitor(context.Background())
			limiter = mem
		}
	}

	resolver := injected.Resolver
	if resolver == nil {
		resolver = dirclient.NewClient(dirclient.Options{
			BaseURL:    cfg.DirBaseURL,
			Token:      cfg.DirToken,
			UserAgent:  cfg.DirUserAgent,
			Timeout:    cfg.DirTimeout,
			MaxRetries: cfg.DirMaxRetries,
			RetryBase:  cfg.DirRetryBase,
		})
	}

	svc := postssvc.New(
		deps.PG,
		postsrepo.NewPG(),
		limiter,
		recorder,
		resolver,
		postssvc.Config{OpTimeout: cfg.OpTimeout},
	)

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		swaggerOn: b.SwaggerOn,
		subrouter: b.Subrouter,
		svc:       svc,
	}
	m.ports = adaptPostsPort{svc: svc}

	external := b.Register
	m.register = func(r httpkit.Router) {
		postshttp.Register(r, m.svc, injected.Auth)
		if external != nil {
			external(r)
		}
	}
	return m
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	r.Route(m.prefix, func(rr httpkit.Router) {
		for _, mw := range m.mws {
			rr.Use(mw)
		}
		if m.subrouter != nil {
			rr = m.subrouter(rr)
		}
		if m.register != nil {
			m.register(rr)
		}
	})
}

// Name returns the module name
func (m *Module) Name() string { return str.MustString(m.name, "module name") }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return str.MustPrefix(m.prefix) }

// Middlewares returns the module middlewares
func (m *Module) Middlewares() []func(http.Handler) http.Handler { return m.mws }
