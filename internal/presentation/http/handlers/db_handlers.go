package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/smartengage/smartengage-go/internal/infrastructure/caching"
	"github.com/smartengage/smartengage-go/internal/infrastructure/observability/logging"
	"github.com/smartengage/smartengage-go/internal/infrastructure/observability/performance"
	"github.com/smartengage/smartengage-go/internal/infrastructure/persistence/database"
)

// DBHandlers contains the database and runtime status HTTP handlers
type DBHandlers struct {
	db          *database.DB
	sessions    *caching.VisitorStateManager
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

// NewDBHandlers creates status handlers with injected dependencies
func NewDBHandlers(db *database.DB, sessions *caching.VisitorStateManager, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *DBHandlers {
	return &DBHandlers{
		db:          db,
		sessions:    sessions,
		logger:      logger,
		perfTracker: perfTracker,
	}
}

// GetDatabaseStatus handles GET /api/v1/db/status
func (h *DBHandlers) GetDatabaseStatus(c *gin.Context) {
	status := "ok"
	if err := h.db.Ping(); err != nil {
		status = "unreachable"
		h.logger.Database().Error("Database ping failed", "error", err.Error())
	}

	c.JSON(http.StatusOK, gin.H{
		"database": status,
		"sessions": h.sessions.Status(),
		"uptime":   h.perfTracker.Uptime().String(),
	})
}
