package votes

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mikepea/linky/pkg/linky/cache"
	"github.com/mikepea/linky/pkg/linky/logging"
	"github.com/mikepea/linky/pkg/linky/metrics"
	"github.com/mikepea/linky/pkg/linky/models"
	"github.com/mikepea/linky/pkg/linky/store"
)

// Handler handles vote requests
type Handler struct {
	store *store.Store
	cache *cache.Cache
}

// NewHandler creates a new votes handler
func NewHandler(s *store.Store, c *cache.Cache) *Handler {
	return &Handler{store: s, cache: c}
}

// VoteRequest represents a like or dislike on a link.
// VoteType is checked by the store after the link lookup, so an unknown link
// reports 404 even when the type is also wrong.
type VoteRequest struct {
	LinkID   *int64          `json:"link_id" binding:"required"`
	VoteType models.VoteType `json:"vote_type"`
}

// VoteResponse is returned after a vote is added or removed
type VoteResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// respondError maps store errors to status codes. Unexpected errors are
// logged and reported with a fixed message.
func respondError(c *gin.Context, err error, failure string) {
	switch {
	case errors.Is(err, store.ErrLinkNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Link not found"})
	case errors.Is(err, store.ErrNoVotes):
		c.JSON(http.StatusNotFound, gin.H{"error": "No votes found for this link"})
	case errors.Is(err, store.ErrInvalidVoteType):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid vote type"})
	default:
		logging.Logger.ErrorContext(c.Request.Context(), failure, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": failure})
	}
}

// AddVote records a like or dislike
// @Summary Vote on a link
// @Description Add a like or dislike to a link. Votes are not tied to a caller; every call counts.
// @Tags votes
// @Accept json
// @Produce json
// @Param request body VoteRequest true "Vote"
// @Success 200 {object} VoteResponse
// @Failure 400 {object} map[string]string "Invalid vote type"
// @Failure 404 {object} map[string]string "Link not found"
// @Failure 500 {object} map[string]string "Failed to add vote"
// @Router /vote [post]
func (h *Handler) AddVote(c *gin.Context) {
	ctx := c.Request.Context()

	var req VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// negative ids name no link
	if *req.LinkID < 0 {
		respondError(c, store.ErrLinkNotFound, "Failed to add vote")
		return
	}

	if _, err := h.store.AddVote(ctx, uint(*req.LinkID), req.VoteType); err != nil {
		respondError(c, err, "Failed to add vote")
		return
	}
	h.cache.Invalidate(ctx, cache.RankedLinksKey)
	metrics.VotesAdded.WithLabelValues(string(req.VoteType)).Inc()

	c.JSON(http.StatusOK, VoteResponse{
		Status:  "success",
		Message: fmt.Sprintf("Vote %sd successfully", req.VoteType),
	})
}

// RemoveVote removes the most recent vote on a link
// @Summary Remove a vote
// @Description Remove the most recent vote on a link and decrement the matching counter (never below zero).
// @Tags votes
// @Produce json
// @Param link_id path int true "Link ID"
// @Success 200 {object} VoteResponse
// @Failure 400 {object} map[string]string "Invalid link ID"
// @Failure 404 {object} map[string]string "Link not found or no votes"
// @Failure 500 {object} map[string]string "Failed to remove vote"
// @Router /vote/{link_id} [delete]
func (h *Handler) RemoveVote(c *gin.Context) {
	ctx := c.Request.Context()

	linkID, err := strconv.ParseInt(c.Param("link_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid link ID"})
		return
	}
	if linkID < 0 {
		respondError(c, store.ErrLinkNotFound, "Failed to remove vote")
		return
	}

	_, removed, err := h.store.RemoveVote(ctx, uint(linkID))
	if err != nil {
		respondError(c, err, "Failed to remove vote")
		return
	}
	h.cache.Invalidate(ctx, cache.RankedLinksKey)
	metrics.VotesRemoved.WithLabelValues(string(removed.VoteType)).Inc()

	c.JSON(http.StatusOK, VoteResponse{
		Status:  "success",
		Message: "Vote removed successfully",
	})
}

// RegisterRoutes registers vote routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/vote", h.AddVote)
	rg.DELETE("/vote/:link_id", h.RemoveVote)
}
