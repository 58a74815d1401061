package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/smartengage/smartengage-go/internal/application/services"
	"github.com/smartengage/smartengage-go/internal/domain/popup"
	"github.com/smartengage/smartengage-go/internal/infrastructure/observability/logging"
	"github.com/smartengage/smartengage-go/internal/infrastructure/observability/performance"
)

// PopupHandlers contains the popup configuration HTTP handlers
type PopupHandlers struct {
	popupService *services.PopupService
	logger       *logging.ChanneledLogger
	perfTracker  *performance.Tracker
}

// NewPopupHandlers creates popup handlers with injected dependencies
func NewPopupHandlers(popupService *services.PopupService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *PopupHandlers {
	return &PopupHandlers{
		popupService: popupService,
		logger:       logger,
		perfTracker:  perfTracker,
	}
}

// GetAll handles GET /api/v1/popups
func (h *PopupHandlers) GetAll(c *gin.Context) {
	configs, err := h.popupService.GetAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load popups"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"popups": configs})
}

// GetEnabled handles GET /api/v1/popups/enabled
func (h *PopupHandlers) GetEnabled(c *gin.Context) {
	configs, err := h.popupService.GetEnabled()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load popups"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"popups": configs})
}

// GetByID handles GET /api/v1/popups/:id
func (h *PopupHandlers) GetByID(c *gin.Context) {
	cfg, err := h.popupService.GetByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, popup.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "popup not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load popup"})
		return
	}
	c.JSON(http.StatusOK, cfg)
}

// Create handles POST /api/v1/popups
func (h *PopupHandlers) Create(c *gin.Context) {
	var cfg popup.Config
	if err := c.ShouldBindJSON(&cfg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid popup payload"})
		return
	}
	if cfg.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	created, err := h.popupService.Create(&cfg)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create popup"})
		return
	}
	c.JSON(http.StatusCreated, created)
}

// Update handles PUT /api/v1/popups/:id
func (h *PopupHandlers) Update(c *gin.Context) {
	var cfg popup.Config
	if err := c.ShouldBindJSON(&cfg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid popup payload"})
		return
	}

	updated, err := h.popupService.Update(c.Param("id"), &cfg)
	if err != nil {
		if errors.Is(err, popup.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "popup not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update popup"})
		return
	}
	c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /api/v1/popups/:id
func (h *PopupHandlers) Delete(c *gin.Context) {
	if err := h.popupService.Delete(c.Param("id")); err != nil {
		if errors.Is(err, popup.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "popup not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete popup"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
