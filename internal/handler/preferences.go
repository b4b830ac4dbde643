package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/azurelens/backend-go/internal/domain"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PreferencesHandler manages per-client naming schemes and tag policies
type PreferencesHandler struct {
	store  Store
	logger *zap.Logger
}

// NewPreferencesHandler creates a new PreferencesHandler
func NewPreferencesHandler(store Store, logger *zap.Logger) *PreferencesHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PreferencesHandler{store: store, logger: logger}
}

// GetScheme returns the client's naming scheme
func (h *PreferencesHandler) GetScheme(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"detail": "Database not available"})
		return
	}
	clientID := c.Param("client_id")

	scheme, err := h.store.GetNamingScheme(c.Request.Context(), clientID)
	if err != nil {
		if errors.Is(err, domain.ErrSchemeNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Naming scheme not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	c.JSON(http.StatusOK, scheme)
}

// PutScheme stores or replaces the client's naming scheme
func (h *PreferencesHandler) PutScheme(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"detail": "Database not available"})
		return
	}
	clientID := c.Param("client_id")

	var scheme domain.NamingScheme
	if err := c.ShouldBindJSON(&scheme); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	if err := validateScheme(scheme); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	if err := h.store.UpsertNamingScheme(c.Request.Context(), clientID, scheme); err != nil {
		h.logger.Error("failed to store naming scheme", zap.String("client_id", clientID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	c.JSON(http.StatusOK, scheme)
}

// GetTagPolicy returns the client's tag policy. Clients without a stored
// policy get the default policy.
func (h *PreferencesHandler) GetTagPolicy(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"detail": "Database not available"})
		return
	}
	clientID := c.Param("client_id")

	policy, err := h.store.GetTagPolicy(c.Request.Context(), clientID)
	if err != nil {
		if errors.Is(err, domain.ErrTagPolicyNotFound) {
			c.JSON(http.StatusOK, domain.DefaultTagPolicy())
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	c.JSON(http.StatusOK, policy)
}

// PutTagPolicy stores or replaces the client's tag policy
func (h *PreferencesHandler) PutTagPolicy(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"detail": "Database not available"})
		return
	}
	clientID := c.Param("client_id")

	var policy domain.TagPolicy
	if err := c.ShouldBindJSON(&policy); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	if len(policy.Required) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "policy must declare at least one required tag"})
		return
	}
	for _, tag := range policy.Required {
		if tag.Key == "" {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "required tag key must not be empty"})
			return
		}
	}

	if err := h.store.UpsertTagPolicy(c.Request.Context(), clientID, policy); err != nil {
		h.logger.Error("failed to store tag policy", zap.String("client_id", clientID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	c.JSON(http.StatusOK, policy)
}

// validateScheme rejects schemes the analyzer cannot evaluate
func validateScheme(scheme domain.NamingScheme) error {
	if len(scheme.Components) == 0 {
		return errors.New("scheme must declare at least one component")
	}
	seen := make(map[int]bool, len(scheme.Components))
	for _, comp := range scheme.Components {
		if comp.Position < 0 {
			return fmt.Errorf("component %q has negative position", comp.Type)
		}
		if seen[comp.Position] {
			return fmt.Errorf("duplicate component position %d", comp.Position)
		}
		seen[comp.Position] = true
	}
	return nil
}
