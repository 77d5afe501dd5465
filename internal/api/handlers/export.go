package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/cardvault/ptcg-companion/internal/api/response"
	"github.com/cardvault/ptcg-companion/internal/charts"
	"github.com/cardvault/ptcg-companion/internal/collection"
	"github.com/cardvault/ptcg-companion/internal/deck"
	"github.com/cardvault/ptcg-companion/internal/export"
	"github.com/cardvault/ptcg-companion/internal/wishlist"
)

// ExportHandler writes collection data and charts to the export directory.
type ExportHandler struct {
	outputDir  string
	collection *collection.Store
	decks      *deck.Store
	wishlist   *wishlist.Store
	evaluator  *BadgeEvaluator
	cards      CardSource
}

// NewExportHandler creates an ExportHandler rooted at outputDir.
func NewExportHandler(outputDir string, col *collection.Store, decks *deck.Store, wl *wishlist.Store, evaluator *BadgeEvaluator, cards CardSource) *ExportHandler {
	return &ExportHandler{
		outputDir:  outputDir,
		collection: col,
		decks:      decks,
		wishlist:   wl,
		evaluator:  evaluator,
		cards:      cards,
	}
}

// exportRequest is the request body for export endpoints.
type exportRequest struct {
	Format     string `json:"format"`
	PrettyJSON bool   `json:"prettyJson"`
}

// options builds export options with a timestamped file name.
func (h *ExportHandler) options(r *http.Request, name string) (export.Options, error) {
	req := exportRequest{Format: string(export.FormatCSV)}
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return export.Options{}, err
		}
	}

	format := export.Format(req.Format)
	switch format {
	case export.FormatCSV, export.FormatJSON:
	default:
		return export.Options{}, fmt.Errorf("unsupported export format: %s", req.Format)
	}

	filename := fmt.Sprintf("%s-%s.%s", name, time.Now().Format("20060102-150405"), format)
	return export.Options{
		Format:     format,
		FilePath:   filepath.Join(h.outputDir, filename),
		PrettyJSON: req.PrettyJSON,
		Overwrite:  true,
	}, nil
}

// exportResult reports where an export landed.
type exportResult struct {
	FilePath string `json:"filePath"`
}

// ExportCollection writes the collection to a CSV or JSON file.
func (h *ExportHandler) ExportCollection(w http.ResponseWriter, r *http.Request) {
	opts, err := h.options(r, "collection")
	if err != nil {
		response.BadRequest(w, err)
		return
	}
	if err := export.ExportCollection(h.collection, opts); err != nil {
		response.InternalError(w, err)
		return
	}
	response.Success(w, exportResult{FilePath: opts.FilePath})
}

// ExportDecks writes all deck lists to a CSV or JSON file.
func (h *ExportHandler) ExportDecks(w http.ResponseWriter, r *http.Request) {
	opts, err := h.options(r, "decks")
	if err != nil {
		response.BadRequest(w, err)
		return
	}
	if err := export.ExportDecks(h.decks, opts); err != nil {
		response.InternalError(w, err)
		return
	}
	response.Success(w, exportResult{FilePath: opts.FilePath})
}

// ExportWishlist writes the wishlist to a CSV or JSON file.
func (h *ExportHandler) ExportWishlist(w http.ResponseWriter, r *http.Request) {
	opts, err := h.options(r, "wishlist")
	if err != nil {
		response.BadRequest(w, err)
		return
	}
	if err := export.ExportWishlist(h.wishlist, opts); err != nil {
		response.InternalError(w, err)
		return
	}
	response.Success(w, exportResult{FilePath: opts.FilePath})
}

// chartPath builds a timestamped HTML file path in the export directory.
func (h *ExportHandler) chartPath(name string) string {
	return filepath.Join(h.outputDir, fmt.Sprintf("%s-%s.html", name, time.Now().Format("20060102-150405")))
}

// ChartValueHistory renders the value history line chart.
func (h *ExportHandler) ChartValueHistory(w http.ResponseWriter, r *http.Request) {
	path := h.chartPath("value-history")
	if err := charts.RenderValueHistory(h.collection.ValueHistory(), path); err != nil {
		response.InternalError(w, err)
		return
	}
	response.Success(w, exportResult{FilePath: path})
}

// ChartSetCompletion renders the per-set completion bar chart.
func (h *ExportHandler) ChartSetCompletion(w http.ResponseWriter, r *http.Request) {
	sets, err := h.cards.Sets()
	if err != nil {
		response.InternalError(w, err)
		return
	}

	var completions []charts.SetCompletion
	for _, set := range sets {
		if len(h.collection.SetEntries(set.ID)) == 0 {
			continue
		}
		completions = append(completions, charts.SetCompletion{
			SetName:    set.Name,
			Percentage: h.collection.SetProgress(set.ID, set.Total),
		})
	}

	path := h.chartPath("set-completion")
	if err := charts.RenderSetCompletion(completions, path); err != nil {
		response.InternalError(w, err)
		return
	}
	response.Success(w, exportResult{FilePath: path})
}

// ChartTypeDistribution renders the type distribution pie chart.
func (h *ExportHandler) ChartTypeDistribution(w http.ResponseWriter, r *http.Request) {
	path := h.chartPath("type-distribution")
	if err := charts.RenderTypeDistribution(h.evaluator.Stats(), path); err != nil {
		response.InternalError(w, err)
		return
	}
	response.Success(w, exportResult{FilePath: path})
}
