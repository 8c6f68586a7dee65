package http

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Miraines/MoonyAndStarry/tube-service/internal/adapters/transport/http/middleware"
	"github.com/Miraines/MoonyAndStarry/tube-service/internal/adapters/transport/http/response"
	accountsvc "github.com/Miraines/MoonyAndStarry/tube-service/internal/app/account/service"
	authsvc "github.com/Miraines/MoonyAndStarry/tube-service/internal/app/auth/service"
	customErrors "github.com/Miraines/MoonyAndStarry/tube-service/internal/domain/auth/errors"
	"github.com/Miraines/MoonyAndStarry/tube-service/internal/domain/auth/model"
)

type Handler struct {
	auth         authsvc.Service
	accounts     accountsvc.Service
	db           *gorm.DB
	redisCli     *redis.Client
	uploadDir    string
	cookieDomain string
	log          *zap.Logger
}

func NewHandler(
	auth authsvc.Service,
	accounts accountsvc.Service,
	db *gorm.DB,
	redisCli *redis.Client,
	uploadDir, cookieDomain string,
	log *zap.Logger,
) *Handler {
	return &Handler{
		auth:         auth,
		accounts:     accounts,
		db:           db,
		redisCli:     redisCli,
		uploadDir:    uploadDir,
		cookieDomain: cookieDomain,
		log:          log,
	}
}

func (h *Handler) setTokenCookies(c *gin.Context, pair model.TokenPair) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AccessCookie, pair.AccessToken, int(pair.AccessTTL.Seconds()), "/", h.cookieDomain, true, true)

	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.RefreshCookie, pair.RefreshToken, int(pair.RefreshTTL.Seconds()), "/", h.cookieDomain, true, true)
}

func (h *Handler) clearTokenCookies(c *gin.Context) {
	c.SetCookie(middleware.AccessCookie, "", -1, "/", h.cookieDomain, true, true)
	c.SetCookie(middleware.RefreshCookie, "", -1, "/", h.cookieDomain, true, true)
}

// stageFile saves the multipart file under field into the upload dir and
// returns its path, or "" when the request carries no such file.
func (h *Handler) stageFile(c *gin.Context, field string) (string, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) ||
			errors.Is(err, http.ErrMissingBoundary) {
			return "", nil
		}
		return "", customErrors.NewInvalidArgument(fmt.Sprintf("read %s: %v", field, err))
	}
	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		return "", customErrors.WrapInternal(err, "stage upload")
	}
	name := fmt.Sprintf("%d-%s%s", time.Now().UnixNano(), uuid.NewString(), strings.ToLower(filepath.Ext(fh.Filename)))
	dst := filepath.Join(h.uploadDir, name)
	if err := c.SaveUploadedFile(fh, dst); err != nil {
		return "", customErrors.WrapInternal(err, "stage upload")
	}
	return dst, nil
}

// discard removes staged files the uploader did not consume.
func (h *Handler) discard(paths ...string) {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			h.log.Warn("remove staged upload", zap.String("path", p), zap.Error(err))
		}
	}
}

func mustAccount(c *gin.Context) (model.PublicAccount, bool) {
	acc, ok := middleware.CurrentAccount(c)
	if !ok {
		response.Abort(c, http.StatusUnauthorized, "unauthorized request")
	}
	return acc, ok
}

func (h *Handler) Health(c *gin.Context) {
	ctx := c.Request.Context()
	checks := gin.H{"database": "ok", "redis": "ok"}
	healthy := true

	if err := h.db.WithContext(ctx).Exec("SELECT 1").Error; err != nil {
		h.log.Warn("health: database", zap.Error(err))
		checks["database"] = "unavailable"
		healthy = false
	}
	if err := h.redisCli.Ping(ctx).Err(); err != nil {
		h.log.Warn("health: redis", zap.Error(err))
		checks["redis"] = "unavailable"
		healthy = false
	}
	checks["time"] = time.Now().Unix()

	if !healthy {
		c.JSON(http.StatusServiceUnavailable, response.Envelope{
			Success: false, Status: http.StatusServiceUnavailable, Message: "unhealthy", Data: checks,
		})
		return
	}
	response.OK(c, http.StatusOK, "ok", checks)
}
