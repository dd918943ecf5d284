package http

import (
	"context"
	"net/http"
	"time"

	"github.com/Val-k7/autoserve-hub-sub000/internal/config"
	"github.com/Val-k7/autoserve-hub-sub000/internal/domain"
	"github.com/Val-k7/autoserve-hub-sub000/internal/infra/db"
	"github.com/Val-k7/autoserve-hub-sub000/internal/infra/manifest"
	"github.com/Val-k7/autoserve-hub-sub000/internal/infra/policyopa"
	"github.com/Val-k7/autoserve-hub-sub000/internal/infra/ratelimit"
	"github.com/Val-k7/autoserve-hub-sub000/internal/usecase"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Server struct {
	cfg config.Config
	log *zap.Logger
	r   *gin.Engine

	dbMode bool

	syncUC  *usecase.SyncRepository
	adminUC *usecase.RepositoryAdmin

	repos     RepositoryDirectory
	apps      CatalogDirectory
	installed InstalledStore

	limiter           domain.RateLimiter
	rateLimitRequests int
	rateLimitWindow   time.Duration

	policyInitErr error
}

func NewServer(cfg config.Config, store *db.Store, logger *zap.Logger) *Server {
	r := gin.New()
	r.Use(gin.Recovery())

	s := &Server{cfg: cfg, log: logger, r: r}
	s.initDeps(store)
	s.routes()
	return s
}

type ServerDeps struct {
	Sync        *usecase.SyncRepository
	Admin       *usecase.RepositoryAdmin
	Repos       RepositoryDirectory
	Apps        CatalogDirectory
	Installed   InstalledStore
	RateLimiter domain.RateLimiter
	DBMode      bool
}

func NewServerWithDeps(cfg config.Config, deps ServerDeps) *Server {
	r := gin.New()
	r.Use(gin.Recovery())

	s := &Server{
		cfg:       cfg,
		log:       zap.NewNop(),
		r:         r,
		dbMode:    deps.DBMode,
		syncUC:    deps.Sync,
		adminUC:   deps.Admin,
		repos:     deps.Repos,
		apps:      deps.Apps,
		installed: deps.Installed,
	}
	s.initRateLimit(deps.RateLimiter)
	s.routes()
	return s
}

func (s *Server) initDeps(store *db.Store) {
	if s.log == nil {
		s.log = zap.NewNop()
	}

	var gdb *gorm.DB
	if store != nil {
		gdb = store.DB
	}
	s.dbMode = gdb != nil
	repoRepo := db.NewRepositoryRepository(gdb)
	cacheRepo := db.NewManifestCacheRepository(gdb)
	appRepo := db.NewCatalogAppRepository(gdb)
	installedRepo := db.NewInstalledAppRepository(gdb)

	var policy usecase.AdmissionPolicy
	if s.cfg.SyncPolicyBundlePath != "" {
		engine, err := policyopa.NewEngineFromBundlePath(context.Background(), s.cfg.SyncPolicyBundlePath)
		if err != nil {
			s.policyInitErr = err
		} else {
			policy = engine
			s.log.Info("sync policy loaded",
				zap.String("bundle_path", s.cfg.SyncPolicyBundlePath),
				zap.String("bundle_hash", engine.BundleHash()))
		}
	}

	fetcher := manifest.NewFetcher(s.cfg.ManifestUserAgent, &http.Client{})

	s.syncUC = &usecase.SyncRepository{
		Repos:        repoRepo,
		Cache:        cacheRepo,
		Apps:         appRepo,
		Fetcher:      fetcher,
		Policy:       policy,
		Log:          s.log,
		TrustedHost:  s.cfg.TrustedManifestHost,
		FetchTimeout: s.cfg.ManifestFetchTimeout(),
		CacheTTL:     s.cfg.ManifestCacheTTL(),
	}
	s.adminUC = &usecase.RepositoryAdmin{
		Repos:       repoRepo,
		TrustedHost: s.cfg.TrustedManifestHost,
	}
	s.repos = repoRepo
	s.apps = appRepo
	s.installed = installedRepo

	s.initRateLimit(nil)
}

func (s *Server) initRateLimit(override domain.RateLimiter) {
	if override != nil {
		s.limiter = override
	}
	if s.limiter == nil && s.cfg.RateLimitRequests > 0 {
		if s.cfg.RedisAddr != "" {
			if limiter, err := ratelimit.NewRedisLimiter(s.cfg.RedisAddr, s.cfg.RedisPassword, s.cfg.RedisDB, nil); err == nil {
				s.limiter = limiter
			}
		}
		if s.limiter == nil {
			s.limiter = ratelimit.NewMemoryLimiter(ratelimit.MemoryLimiterConfig{
				MaxKeys: s.cfg.RateLimitMaxKeys,
			})
		}
	}
	s.rateLimitRequests = s.cfg.RateLimitRequests
	s.rateLimitWindow = s.cfg.RateLimitWindow()
}

// The dashboard runs on another origin, so every route answers preflight
// probes with permissive headers and an empty body.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func (s *Server) routes() {
	s.r.Use(corsMiddleware())

	s.r.GET("/healthz", func(c *gin.Context) {
		mode := "no-db"
		if s.dbMode {
			mode = "db"
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "mode": mode})
	})

	v1 := s.r.Group("/v1")
	{
		v1.POST("/sync", s.handleSync)

		v1.GET("/repositories", s.handleListRepositories)
		v1.POST("/repositories", s.handleCreateRepository)
		v1.GET("/repositories/:repository_id", s.handleGetRepository)
		v1.DELETE("/repositories/:repository_id", s.handleDeleteRepository)

		v1.GET("/apps", s.handleListApps)
		v1.GET("/apps/:app_id", s.handleGetApp)
		v1.POST("/apps/:app_id/install", s.handleInstallApp)

		v1.GET("/installed", s.handleListInstalled)
		v1.POST("/installed/:install_id/start", s.handleStartInstalled)
		v1.POST("/installed/:install_id/stop", s.handleStopInstalled)
		v1.DELETE("/installed/:install_id", s.handleUninstall)
	}
}

func (s *Server) Run() error {
	if s.policyInitErr != nil {
		return s.policyInitErr
	}
	return s.r.Run(s.cfg.HTTPAddr)
}
