// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	accountfeature "github.com/dalemusser/lorehub/internal/app/features/account"
	arcsfeature "github.com/dalemusser/lorehub/internal/app/features/arcs"
	featsfeature "github.com/dalemusser/lorehub/internal/app/features/characterfeats"
	charactersfeature "github.com/dalemusser/lorehub/internal/app/features/characters"
	eventsfeature "github.com/dalemusser/lorehub/internal/app/features/events"
	groupsfeature "github.com/dalemusser/lorehub/internal/app/features/groups"
	healthfeature "github.com/dalemusser/lorehub/internal/app/features/health"
	historiesfeature "github.com/dalemusser/lorehub/internal/app/features/histories"
	inventoriesfeature "github.com/dalemusser/lorehub/internal/app/features/inventories"
	organizationsfeature "github.com/dalemusser/lorehub/internal/app/features/organizations"
	powersfeature "github.com/dalemusser/lorehub/internal/app/features/powers"
	powersectionsfeature "github.com/dalemusser/lorehub/internal/app/features/powersections"
	rpgsfeature "github.com/dalemusser/lorehub/internal/app/features/rpgs"
	sheetsfeature "github.com/dalemusser/lorehub/internal/app/features/sheets"
	usersfeature "github.com/dalemusser/lorehub/internal/app/features/users"
	"github.com/dalemusser/lorehub/internal/app/system/auth"
	"github.com/dalemusser/lorehub/internal/app/system/refs"
	"github.com/dalemusser/lorehub/internal/app/system/requestid"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup,
// and Startup have completed. It initializes the session store, applies
// the request-id and session middleware, and mounts the JSON API for
// every feature area: campaigns, arcs, events, characters, feats,
// organizations, power sections, powers, histories, sheets,
// inventories, groups, and users.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	if appCfg.SessionName != "" {
		auth.SessionName = appCfg.SessionName
	}
	if err := auth.InitSessionStore(appCfg.SessionKey, appCfg.SessionDomain, secure, logger); err != nil {
		logger.Error("session store init failed", zap.Error(err))
		return nil, err
	}

	db := deps.MongoDatabase
	refMgr := refs.New(db, logger, appCfg.GroupInheritance)

	r := chi.NewRouter()
	r.Use(requestid.Middleware)

	// Loads the SessionUser into context when a valid cookie is
	// present; handlers read it via auth.CurrentUser(r).
	r.Use(auth.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators.
	r.Mount("/health", healthfeature.Routes(healthfeature.NewHandler(deps.MongoClient, logger)))

	// Registration and sign-in.
	r.Mount("/", accountfeature.Routes(accountfeature.NewHandler(db, logger, appCfg.BcryptCost)))

	// Campaigns and their sub-entities.
	r.Mount("/api/rpgs", rpgsfeature.Routes(rpgsfeature.NewHandler(db, logger)))
	r.Mount("/api/arcs", arcsfeature.Routes(arcsfeature.NewHandler(db, logger, refMgr)))
	r.Mount("/api/events", eventsfeature.Routes(eventsfeature.NewHandler(db, logger, refMgr)))
	r.Mount("/api/characters", charactersfeature.Routes(charactersfeature.NewHandler(db, logger, refMgr)))
	r.Mount("/api/character-feats", featsfeature.Routes(featsfeature.NewHandler(db, logger)))
	r.Mount("/api/organizations", organizationsfeature.Routes(organizationsfeature.NewHandler(db, logger, refMgr)))
	r.Mount("/api/power-sections", powersectionsfeature.Routes(powersectionsfeature.NewHandler(db, logger, refMgr)))
	r.Mount("/api/powers", powersfeature.Routes(powersfeature.NewHandler(db, logger)))
	r.Mount("/api/histories", historiesfeature.Routes(historiesfeature.NewHandler(db, logger, refMgr)))

	// Character-scoped documents.
	sheetsHandler := sheetsfeature.NewHandler(db, logger)
	r.Mount("/api/sheets", sheetsfeature.Routes(sheetsHandler))

	inventoriesHandler := inventoriesfeature.NewHandler(db, logger)
	r.Mount("/api/inventories", inventoriesfeature.Routes(inventoriesHandler))
	r.Mount("/api/items", inventoriesfeature.ItemRoutes(inventoriesHandler))

	// Sharing and rosters.
	r.Mount("/api/groups", groupsfeature.Routes(groupsfeature.NewHandler(db, logger)))
	r.Mount("/api/users", usersfeature.Routes(usersfeature.NewHandler(db, logger)))

	return r, nil
}
