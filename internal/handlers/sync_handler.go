package handlers

import (
	"net/http"

	"campus-restaurant/internal/redis"

	"github.com/gin-gonic/gin"
)

// SyncHandler exposes the change tokens clients poll to decide whether
// their order board or menu view is stale.
type SyncHandler struct {
	cache *redis.Client
}

func NewSyncHandler(cache *redis.Client) *SyncHandler {
	return &SyncHandler{cache: cache}
}

func (h *SyncHandler) Updates(c *gin.Context) {
	tokens, err := h.cache.GetChangeTokens()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, tokens)
}
