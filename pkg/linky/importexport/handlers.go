package importexport

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mikepea/linky/pkg/linky/cache"
	"github.com/mikepea/linky/pkg/linky/flatfile"
	"github.com/mikepea/linky/pkg/linky/logging"
	"github.com/mikepea/linky/pkg/linky/store"
)

// Handler handles import/export requests
type Handler struct {
	store *store.Store
	cache *cache.Cache
}

// NewHandler creates a new import/export handler
func NewHandler(s *store.Store, c *cache.Cache) *Handler {
	return &Handler{store: s, cache: c}
}

// Archive is the legacy flat-file content of both files in one document
type Archive struct {
	Links []flatfile.LinkRecord `json:"links"`
	Votes []flatfile.VoteRecord `json:"votes"`
}

// ImportResult represents the result of an import operation
type ImportResult struct {
	LinksImported int `json:"links_imported"`
	VotesImported int `json:"votes_imported"`
	Reconciled    int `json:"reconciled"`
	Skipped       int `json:"skipped"`
}

// Import loads links and votes in the legacy flat-file format
// @Summary Import links and votes
// @Description Import links.json / votes.json content. Links are upserted by id, votes appended, and counters recomputed from the vote log.
// @Tags importexport
// @Accept json
// @Produce json
// @Param replace query bool false "Delete existing links and votes first"
// @Param keep_counters query bool false "Keep imported like/dislike counters instead of recomputing them"
// @Param request body Archive true "Links and votes"
// @Success 200 {object} ImportResult
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 500 {object} map[string]string "Import failed"
// @Router /import [post]
func (h *Handler) Import(c *gin.Context) {
	ctx := c.Request.Context()

	var req Archive
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.Links) == 0 && len(req.Votes) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nothing to import"})
		return
	}

	votes, skipped := flatfile.ToVotes(req.Votes)
	opts := store.ImportOptions{
		Replace:      c.Query("replace") == "true",
		KeepCounters: c.Query("keep_counters") == "true",
	}

	result, err := h.store.Import(ctx, flatfile.ToLinks(req.Links), votes, opts)
	if err != nil {
		logging.Logger.ErrorContext(ctx, "import failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Import failed"})
		return
	}
	h.cache.Invalidate(ctx, cache.RankedLinksKey)

	logging.Logger.InfoContext(ctx, "import completed",
		slog.Int("links", result.LinksImported),
		slog.Int("votes", result.VotesImported),
		slog.Int("reconciled", result.Reconciled),
		slog.Int("skipped", skipped),
	)

	c.JSON(http.StatusOK, ImportResult{
		LinksImported: result.LinksImported,
		VotesImported: result.VotesImported,
		Reconciled:    result.Reconciled,
		Skipped:       skipped,
	})
}

// Export returns every link and vote in the legacy flat-file format
// @Summary Export links and votes
// @Description Export all links and votes in the links.json / votes.json format
// @Tags importexport
// @Produce json
// @Param download query bool false "Send as a file attachment"
// @Success 200 {object} Archive
// @Failure 500 {object} map[string]string "Export failed"
// @Router /export [get]
func (h *Handler) Export(c *gin.Context) {
	ctx := c.Request.Context()

	links, votes, err := h.store.Export(ctx)
	if err != nil {
		logging.Logger.ErrorContext(ctx, "export failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Export failed"})
		return
	}

	// Set content disposition for download
	if c.Query("download") == "true" {
		c.Header("Content-Disposition", "attachment; filename=linky-export.json")
	}

	c.JSON(http.StatusOK, Archive{
		Links: flatfile.FromLinks(links),
		Votes: flatfile.FromVotes(votes),
	})
}

// RegisterRoutes registers import/export routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/import", h.Import)
	rg.GET("/export", h.Export)
}
