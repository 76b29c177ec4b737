package links

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mikepea/linky/pkg/linky/cache"
	"github.com/mikepea/linky/pkg/linky/logging"
	"github.com/mikepea/linky/pkg/linky/metrics"
	"github.com/mikepea/linky/pkg/linky/models"
	"github.com/mikepea/linky/pkg/linky/ranking"
	"github.com/mikepea/linky/pkg/linky/store"
)

const (
	// Defaults echoed back to the client when a field is omitted
	responseDefault = "Not Provided"
	// Defaults written to storage when a field is omitted
	storedTitleDefault       = "No Title Provided"
	storedDescriptionDefault = "No Description Provided"
)

// Handler handles link-related requests
type Handler struct {
	store *store.Store
	cache *cache.Cache
}

// NewHandler creates a new links handler
func NewHandler(s *store.Store, c *cache.Cache) *Handler {
	return &Handler{store: s, cache: c}
}

// ProcessLinkRequest represents the request to submit a link.
// URL must be present but may be empty.
type ProcessLinkRequest struct {
	URL         *string `json:"url" binding:"required"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

// ProcessLinkResponse is returned after a link is stored
type ProcessLinkResponse struct {
	ID          uint   `json:"id"`
	OriginalURL string `json:"original_url"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Message     string `json:"message"`
}

// LinkResponse represents a link in API responses
type LinkResponse struct {
	ID          uint   `json:"id"`
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Likes       uint   `json:"likes"`
	Dislikes    uint   `json:"dislikes"`
}

func linkToResponse(link models.Link) LinkResponse {
	return LinkResponse{
		ID:          link.ID,
		URL:         link.URL,
		Title:       link.Title,
		Description: link.Description,
		Likes:       link.Likes,
		Dislikes:    link.Dislikes,
	}
}

func orDefault(s *string, def string) string {
	if s == nil || *s == "" {
		return def
	}
	return *s
}

// List returns all links ranked by score
// @Summary List links
// @Description Get all links sorted by likes minus dislikes, highest first. Equal scores keep submission order.
// @Tags links
// @Produce json
// @Success 200 {array} LinkResponse
// @Failure 500 {object} map[string]string "Failed to retrieve links"
// @Router /links [get]
func (h *Handler) List(c *gin.Context) {
	ctx := c.Request.Context()

	var responses []LinkResponse
	err := h.cache.CacheAside(ctx, cache.RankedLinksKey, &responses, func() error {
		links, err := h.store.Links.List(ctx)
		if err != nil {
			return err
		}
		ranked := ranking.Rank(links)
		responses = make([]LinkResponse, len(ranked))
		for i, link := range ranked {
			responses[i] = linkToResponse(link)
		}
		return nil
	})
	if err != nil {
		logging.Logger.ErrorContext(ctx, "list links failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve links"})
		return
	}

	c.JSON(http.StatusOK, responses)
}

// ProcessLink stores a submitted link
// @Summary Submit a link
// @Description Store a new link with zero likes and dislikes. Omitted title or description are stored as "No Title Provided" / "No Description Provided" and echoed as "Not Provided".
// @Tags links
// @Accept json
// @Produce json
// @Param request body ProcessLinkRequest true "Link details"
// @Success 200 {object} ProcessLinkResponse
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 500 {object} map[string]string "Processing failed"
// @Router /process-link [post]
func (h *Handler) ProcessLink(c *gin.Context) {
	ctx := c.Request.Context()

	var req ProcessLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	link, err := h.store.Links.Create(ctx,
		*req.URL,
		orDefault(req.Title, storedTitleDefault),
		orDefault(req.Description, storedDescriptionDefault),
	)
	if err != nil {
		logging.Logger.ErrorContext(ctx, "create link failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Processing failed"})
		return
	}
	h.cache.Invalidate(ctx, cache.RankedLinksKey)
	metrics.LinksCreated.Inc()

	c.JSON(http.StatusOK, ProcessLinkResponse{
		ID:          link.ID,
		OriginalURL: *req.URL,
		Title:       orDefault(req.Title, responseDefault),
		Description: orDefault(req.Description, responseDefault),
		Status:      "processed",
		Message:     "Link processed successfully",
	})
}

// RegisterRoutes registers link routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/links", h.List)
	rg.POST("/process-link", h.ProcessLink)
}
