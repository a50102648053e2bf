package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-authgate/hybridauth/internal/models"
	"github.com/go-authgate/hybridauth/internal/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// IdentityAdmin is the store surface for inspecting and removing identity records.
type IdentityAdmin interface {
	FindActiveByUsername(ctx context.Context, username string) ([]models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	DeleteUser(ctx context.Context, id string) error
}

type IdentityHandler struct {
	identities IdentityAdmin
	log        *zap.Logger
}

func NewIdentityHandler(identities IdentityAdmin, log *zap.Logger) *IdentityHandler {
	return &IdentityHandler{identities: identities, log: log}
}

// ListRecords shows the active records sharing a username, so an operator
// can see why a sign-in was refused as ambiguous.
func (h *IdentityHandler) ListRecords(c *gin.Context) {
	username := c.Param("username")

	users, err := h.identities.FindActiveByUsername(c.Request.Context(), username)
	switch {
	case errors.Is(err, models.ErrInvalidProvider):
		c.JSON(http.StatusConflict, gin.H{
			"error":   "invalid_provider",
			"message": err.Error(),
		})
		return
	case err != nil:
		h.log.Error("failed to list identity records",
			zap.String("username", username),
			zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "identity_lookup_failed",
			"message": "Identity store is unavailable",
		})
		return
	}

	if users == nil {
		users = []models.User{}
	}
	c.JSON(http.StatusOK, gin.H{
		"username": username,
		"count":    len(users),
		"records":  users,
	})
}

// DeleteRecord soft-deletes one identity record. Tokens already issued for it
// stop verifying.
func (h *IdentityHandler) DeleteRecord(c *gin.Context) {
	id := c.Param("id")
	ctx := c.Request.Context()

	if _, err := h.identities.GetUserByID(ctx, id); err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
			return
		}
		h.log.Error("failed to load identity record", zap.String("user_id", id), zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "identity_lookup_failed"})
		return
	}

	if err := h.identities.DeleteUser(ctx, id); err != nil {
		h.log.Error("failed to delete identity record", zap.String("user_id", id), zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "identity_lookup_failed"})
		return
	}

	h.log.Info("identity record deleted",
		zap.String("user_id", id),
		zap.String("by", models.GetUsernameFromContext(c)))
	c.Status(http.StatusNoContent)
}

// OrgAccess reports the caller's membership on the org named in the path.
// Access control happens in middleware.RequirePermission.
func (h *IdentityHandler) OrgAccess(c *gin.Context) {
	user := models.GetUserFromContext(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	org := c.Param("org")
	perm := models.Permission("")
	for _, m := range user.Memberships {
		if m.Scope == models.ScopeOrg && m.ResourceID == org &&
			(perm == "" || m.Permission.Includes(perm)) {
			perm = m.Permission
		}
	}
	if user.Admin {
		perm = models.PermissionAdmin
	}

	c.JSON(http.StatusOK, gin.H{
		"org":        org,
		"permission": perm,
	})
}
