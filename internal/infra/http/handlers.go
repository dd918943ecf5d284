package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/Val-k7/autoserve-hub-sub000/internal/domain"
	"github.com/Val-k7/autoserve-hub-sub000/internal/usecase"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type RepositoryDirectory interface {
	List(ctx context.Context) ([]domain.Repository, error)
	GetByID(ctx context.Context, id string) (*domain.Repository, error)
}

type CatalogDirectory interface {
	List(ctx context.Context, repositoryID, category string) ([]domain.CatalogApp, error)
	GetByID(ctx context.Context, id string) (*domain.CatalogApp, error)
}

type InstalledStore interface {
	List(ctx context.Context) ([]domain.InstalledApp, error)
	GetByID(ctx context.Context, id string) (*domain.InstalledApp, error)
	Install(ctx context.Context, app domain.InstalledApp) (*domain.InstalledApp, error)
	UpdateState(ctx context.Context, id string, state domain.InstallState) error
	Delete(ctx context.Context, id string) error
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type syncRequest struct {
	RepositoryID string `json:"repositoryId"`
}

type syncResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	SuccessCount int    `json:"successCount"`
	ErrorCount   int    `json:"errorCount"`
	Cached       bool   `json:"cached,omitempty"`
}

type syncFailureResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type createRepositoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url"`
}

type repositoryResponse struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Description  string  `json:"description,omitempty"`
	URL          string  `json:"url"`
	SourceType   string  `json:"source_type"`
	Official     bool    `json:"official"`
	Enabled      bool    `json:"enabled"`
	SyncStatus   string  `json:"sync_status"`
	LastError    *string `json:"last_error,omitempty"`
	LastSyncedAt *string `json:"last_synced_at,omitempty"`
	CreatedAt    string  `json:"created_at"`
}

type catalogAppResponse struct {
	ID           string                 `json:"id"`
	RepositoryID string                 `json:"repository_id"`
	AppID        string                 `json:"app_id"`
	Name         string                 `json:"name"`
	Description  *string                `json:"description"`
	Icon         *string                `json:"icon"`
	Category     *string                `json:"category"`
	Version      *string                `json:"version"`
	Author       *string                `json:"author"`
	Website      *string                `json:"website"`
	Docs         *string                `json:"docs"`
	SourceRepo   *string                `json:"source_repo"`
	Image        *string                `json:"image"`
	Compose      *string                `json:"compose"`
	EnvVars      []domain.EnvVar        `json:"env_vars"`
	Ports        []domain.PortMapping   `json:"ports"`
	Volumes      []domain.VolumeMapping `json:"volumes"`
	Dependencies []string               `json:"dependencies"`
	UpdatedAt    string                 `json:"updated_at"`
}

type installedAppResponse struct {
	ID           string `json:"id"`
	CatalogAppID string `json:"catalog_app_id"`
	RepositoryID string `json:"repository_id"`
	AppID        string `json:"app_id"`
	Name         string `json:"name"`
	State        string `json:"state"`
	InstalledAt  string `json:"installed_at"`
}

// handleSync is the invocation interface for the manifest sync engine. It
// keeps the function's envelope contract: 200 with counts whenever the run
// reached reconciliation, 500 with a bare error string otherwise.
func (s *Server) handleSync(c *gin.Context) {
	if s.syncUC == nil {
		c.JSON(http.StatusInternalServerError, syncFailureResponse{Error: "sync engine unavailable"})
		return
	}
	if !s.allowSync(c) {
		return
	}

	var req syncRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.RepositoryID == "" {
		c.JSON(http.StatusInternalServerError, syncFailureResponse{Error: "repositoryId is required"})
		return
	}

	result, err := s.syncUC.Execute(c.Request.Context(), usecase.SyncRepositoryRequest{
		RepositoryID: req.RepositoryID,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, syncFailureResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, syncResponse{
		Success:      result.Success,
		Message:      result.Message,
		SuccessCount: result.SuccessCount,
		ErrorCount:   result.ErrorCount,
		Cached:       result.Cached,
	})
}

func (s *Server) allowSync(c *gin.Context) bool {
	if s.limiter == nil || s.rateLimitRequests <= 0 {
		return true
	}
	decision, err := s.limiter.Allow(c.Request.Context(), "sync:"+c.ClientIP(), s.rateLimitRequests, s.rateLimitWindow)
	if err != nil {
		// fail open: a broken limiter should not take sync down
		s.log.Warn("rate limiter unavailable", zap.Error(err))
		return true
	}
	if decision.Allowed {
		return true
	}
	retryAfter := int(time.Until(decision.ResetAt).Seconds())
	if retryAfter < 1 {
		retryAfter = 1
	}
	c.Header("Retry-After", strconv.Itoa(retryAfter))
	c.JSON(http.StatusTooManyRequests, syncFailureResponse{Error: "rate limit exceeded, retry later"})
	return false
}

func (s *Server) handleListRepositories(c *gin.Context) {
	repos, err := s.repos.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]repositoryResponse, 0, len(repos))
	for _, repo := range repos {
		out = append(out, toRepositoryResponse(repo))
	}
	c.JSON(http.StatusOK, gin.H{"repositories": out})
}

func (s *Server) handleGetRepository(c *gin.Context) {
	repo, err := s.repos.GetByID(c.Request.Context(), c.Param("repository_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toRepositoryResponse(*repo))
}

func (s *Server) handleCreateRepository(c *gin.Context) {
	var req createRepositoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_JSON", "invalid json")
		return
	}
	repo, err := s.adminUC.Create(c.Request.Context(), usecase.CreateRepositoryRequest{
		Name:        req.Name,
		Description: req.Description,
		URL:         req.URL,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toRepositoryResponse(*repo))
}

func (s *Server) handleDeleteRepository(c *gin.Context) {
	if err := s.adminUC.Delete(c.Request.Context(), c.Param("repository_id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleListApps(c *gin.Context) {
	apps, err := s.apps.List(c.Request.Context(), c.Query("repository_id"), c.Query("category"))
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]catalogAppResponse, 0, len(apps))
	for _, app := range apps {
		out = append(out, toCatalogAppResponse(app))
	}
	c.JSON(http.StatusOK, gin.H{"apps": out})
}

func (s *Server) handleGetApp(c *gin.Context) {
	app, err := s.apps.GetByID(c.Request.Context(), c.Param("app_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCatalogAppResponse(*app))
}

func (s *Server) handleInstallApp(c *gin.Context) {
	app, err := s.apps.GetByID(c.Request.Context(), c.Param("app_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	now := time.Now().UTC()
	installed, err := s.installed.Install(c.Request.Context(), domain.InstalledApp{
		CatalogAppID: app.ID,
		RepositoryID: app.RepositoryID,
		AppID:        app.AppID,
		Name:         app.Name,
		State:        domain.InstallStateStopped,
		InstalledAt:  now,
		UpdatedAt:    now,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toInstalledAppResponse(*installed))
}

func (s *Server) handleListInstalled(c *gin.Context) {
	apps, err := s.installed.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]installedAppResponse, 0, len(apps))
	for _, app := range apps {
		out = append(out, toInstalledAppResponse(app))
	}
	c.JSON(http.StatusOK, gin.H{"installed": out})
}

func (s *Server) handleStartInstalled(c *gin.Context) {
	s.setInstallState(c, domain.InstallStateRunning)
}

func (s *Server) handleStopInstalled(c *gin.Context) {
	s.setInstallState(c, domain.InstallStateStopped)
}

func (s *Server) setInstallState(c *gin.Context, state domain.InstallState) {
	id := c.Param("install_id")
	if err := s.installed.UpdateState(c.Request.Context(), id, state); err != nil {
		writeError(c, err)
		return
	}
	app, err := s.installed.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toInstalledAppResponse(*app))
}

func (s *Server) handleUninstall(c *gin.Context) {
	if err := s.installed.Delete(c.Request.Context(), c.Param("install_id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func toRepositoryResponse(repo domain.Repository) repositoryResponse {
	resp := repositoryResponse{
		ID:          repo.ID,
		Name:        repo.Name,
		Description: repo.Description,
		URL:         repo.URL,
		SourceType:  repo.SourceType,
		Official:    repo.Official,
		Enabled:     repo.Enabled,
		SyncStatus:  string(repo.SyncStatus),
		LastError:   repo.LastError,
		CreatedAt:   repo.CreatedAt.UTC().Format(time.RFC3339),
	}
	if repo.LastSyncedAt != nil {
		formatted := repo.LastSyncedAt.UTC().Format(time.RFC3339)
		resp.LastSyncedAt = &formatted
	}
	return resp
}

func toCatalogAppResponse(app domain.CatalogApp) catalogAppResponse {
	return catalogAppResponse{
		ID:           app.ID,
		RepositoryID: app.RepositoryID,
		AppID:        app.AppID,
		Name:         app.Name,
		Description:  app.Description,
		Icon:         app.Icon,
		Category:     app.Category,
		Version:      app.Version,
		Author:       app.Author,
		Website:      app.Website,
		Docs:         app.Docs,
		SourceRepo:   app.SourceRepo,
		Image:        app.Image,
		Compose:      app.Compose,
		EnvVars:      app.EnvVars,
		Ports:        app.Ports,
		Volumes:      app.Volumes,
		Dependencies: app.Dependencies,
		UpdatedAt:    app.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func toInstalledAppResponse(app domain.InstalledApp) installedAppResponse {
	return installedAppResponse{
		ID:           app.ID,
		CatalogAppID: app.CatalogAppID,
		RepositoryID: app.RepositoryID,
		AppID:        app.AppID,
		Name:         app.Name,
		State:        string(app.State),
		InstalledAt:  app.InstalledAt.UTC().Format(time.RFC3339),
	}
}

func writeError(c *gin.Context, err error) {
	status, code := http.StatusInternalServerError, "INTERNAL"
	switch {
	case errors.Is(err, domain.ErrNotFound):
		status, code = http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrInvalidName):
		status, code = http.StatusBadRequest, "INVALID_NAME"
	case errors.Is(err, domain.ErrUntrustedURL):
		status, code = http.StatusBadRequest, "UNTRUSTED_URL"
	case errors.Is(err, domain.ErrInvalidManifest):
		status, code = http.StatusBadRequest, "INVALID_MANIFEST"
	case errors.Is(err, domain.ErrOfficialRepository):
		status, code = http.StatusForbidden, "OFFICIAL_REPOSITORY"
	case errors.Is(err, domain.ErrAlreadyInstalled):
		status, code = http.StatusConflict, "ALREADY_INSTALLED"
	case errors.Is(err, domain.ErrStoreUnavailable):
		status, code = http.StatusServiceUnavailable, "STORE_UNAVAILABLE"
	}
	writeErrorCode(c, status, code, err.Error())
}

func writeErrorCode(c *gin.Context, status int, code, message string) {
	c.JSON(status, errorResponse{
		Code:    code,
		Message: message,
	})
}
