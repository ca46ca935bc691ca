// Package api provides the HTTP API for the application
package api

import (
	"chirp/internal/platform/config"
	"chirp/internal/platform/logger"
	phttp "chirp/internal/platform/net/http"
	"chirp/internal/platform/store"

	"chirp/internal/modkit"
	"chirp/internal/modkit/httpkit"
	"chirp/internal/modkit/module"
	"chirp/internal/modkit/swaggerkit"

	"chirp/internal/services/api/auth"
	metamod "chirp/internal/services/api/meta/module"
	postsmod "chirp/internal/services/api/posts/module"
)

// Options are the API options
type Options struct {
	Config         config.Conf
	Store          *store.Store
	Logger         *logger.Logger
	EnableSwagger  bool
	EnableProfiler bool
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) {
	// shared deps for modules
	deps := modkit.Deps{
		Cfg: opt.Config,
		PG:  opt.Store.PG,
		RD:  opt.Store.RD,
	}

	verifier := auth.NewVerifier(opt.Config.MustString("AUTH_SECRET"))
	authPort := httpkit.NewPortFunc(verifier.TokenFunc())

	posts := postsmod.New(
		deps,
		modkit.WithPorts(postsmod.Ports{Auth: authPort}),
	)

	mods := []module.Module{
		metamod.New(deps),
		posts,
	}

	// versioned API with a common middleware stack
	httpkit.MountAPIV1(r, httpkit.CommonStack(), func(api httpkit.Router) {
		// Swagger + profiler
		swaggerkit.Mount(r, opt.EnableSwagger)
		phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

		for _, m := range mods {
			// register each module's ports under its own name (for cross-module lookups)
			module.Register(m.Name(), m.Ports())

			// mount module routes under its Prefix()
			m.MountRoutes(api)
		}
	})
}
