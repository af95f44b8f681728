package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/andymabb/Petra/internal/calendar"
	"github.com/andymabb/Petra/internal/config"
	"github.com/andymabb/Petra/internal/database"
	"github.com/andymabb/Petra/internal/feed"
	"github.com/andymabb/Petra/internal/logger"
	"github.com/andymabb/Petra/internal/seasonal"
)

// maxBlockBody caps the size of a block write request.
const maxBlockBody = 1 << 20

// Handlers contains all HTTP handlers and their dependencies.
type Handlers struct {
	db       *database.DB
	resolver *seasonal.Resolver
	clock    calendar.Clock
	cfg      *config.Config
	logger   *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(db *database.DB, cfg *config.Config, clock calendar.Clock, logger *slog.Logger) *Handlers {
	return &Handlers{
		db:       db,
		resolver: seasonal.NewResolver(clock, logger),
		clock:    clock,
		cfg:      cfg,
		logger:   logger,
	}
}

// Resolver returns the resolver shared by the API and site handlers.
func (h *Handlers) Resolver() *seasonal.Resolver {
	return h.resolver
}

// DayInfo describes how a date resolves.
type DayInfo struct {
	Date        string `json:"date"`
	DayOfYear   int    `json:"day_of_year"`
	AdjustedDay int    `json:"adjusted_day"`
	LeapYear    bool   `json:"leap_year"`
	TestMode    bool   `json:"test_mode"`
}

func newDayInfo(date time.Time, testMode bool) DayInfo {
	return DayInfo{
		Date:        calendar.FormatDate(date),
		DayOfYear:   calendar.DayOfYear(date),
		AdjustedDay: calendar.AdjustedDayOfYear(date),
		LeapYear:    calendar.IsLeapYear(date.Year()),
		TestMode:    testMode,
	}
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Health(r.Context()); err != nil {
		h.log(r).Warn("health check failed", slog.Any("error", err))
		WriteError(w, http.StatusServiceUnavailable, "Database unhealthy", "HEALTH_CHECK_FAILED")
		return
	}

	WriteSuccess(w, map[string]string{"status": "healthy"})
}

// GetDay handles GET /api/v1/day?testDate=YYYY-MM-DD
func (h *Handlers) GetDay(w http.ResponseWriter, r *http.Request) {
	date, testMode := h.resolver.EffectiveDate(seasonal.ParamsFromQuery(r.URL.Query()))
	WriteSuccess(w, newDayInfo(date, testMode))
}

// GetDayForDate handles GET /api/v1/day/{date}
func (h *Handlers) GetDayForDate(w http.ResponseWriter, r *http.Request) {
	dateStr := chi.URLParam(r, "date")

	date, err := calendar.ParseDateString(dateStr)
	if err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid date format: %s. Use YYYY-MM-DD", dateStr))
		return
	}

	WriteSuccess(w, newDayInfo(date, false))
}

// BlocksResponse is the visibility of every stored block for one day.
type BlocksResponse struct {
	DayInfo
	ShowAll bool                     `json:"show_all"`
	Matched int                      `json:"matched"`
	Blocks  []database.SeasonalBlock `json:"blocks"`
}

// ListBlocks handles GET /api/v1/blocks?testDate=&showAll&visible=true
func (h *Handlers) ListBlocks(w http.ResponseWriter, r *http.Request) {
	blocks, err := h.db.ListBlocks(r.Context())
	if err != nil {
		h.log(r).Error("failed to list blocks", slog.Any("error", err))
		WriteInternalError(w, "Failed to retrieve blocks")
		return
	}

	regions := make([]seasonal.Region, len(blocks))
	for i := range blocks {
		regions[i] = &blocks[i]
	}
	res := h.resolver.Run(regions, seasonal.ParamsFromQuery(r.URL.Query()))

	if r.URL.Query().Get("visible") == "true" {
		visible := blocks[:0]
		for _, b := range blocks {
			if b.Visible {
				visible = append(visible, b)
			}
		}
		blocks = visible
	}

	WriteSuccess(w, BlocksResponse{
		DayInfo: newDayInfo(res.Date, res.TestMode),
		ShowAll: res.ShowAll,
		Matched: res.Matched,
		Blocks:  blocks,
	})
}

// GetBlock handles GET /api/v1/blocks/{slug}
func (h *Handlers) GetBlock(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	block, err := h.db.GetBlockBySlug(r.Context(), slug)
	if err != nil {
		if database.IsNotFound(err) {
			WriteNotFound(w, fmt.Sprintf("Block %q not found", slug))
			return
		}
		h.log(r).Error("failed to get block", slog.String("slug", slug), slog.Any("error", err))
		WriteInternalError(w, "Failed to retrieve block")
		return
	}

	WriteSuccess(w, block)
}

// BlockRequest is the body of POST /api/v1/blocks.
type BlockRequest struct {
	Slug     string `json:"slug"`
	Title    string `json:"title"`
	StartDay int    `json:"start_day"`
	EndDay   int    `json:"end_day"`
	BodyHTML string `json:"body_html"`
}

// UpsertBlock handles POST /api/v1/blocks
func (h *Handlers) UpsertBlock(w http.ResponseWriter, r *http.Request) {
	var req BlockRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	block := &database.SeasonalBlock{
		Slug:     strings.TrimSpace(req.Slug),
		Title:    req.Title,
		StartDay: req.StartDay,
		EndDay:   req.EndDay,
		BodyHTML: req.BodyHTML,
	}

	if err := h.db.UpsertBlock(r.Context(), block); err != nil {
		if errors.Is(err, database.ErrInvalidRange) || errors.Is(err, database.ErrSlugRequired) {
			WriteBadRequest(w, err.Error())
			return
		}
		h.log(r).Error("failed to save block", slog.String("slug", block.Slug), slog.Any("error", err))
		WriteInternalError(w, "Failed to save block")
		return
	}

	h.log(r).Info("block saved",
		slog.String("slug", block.Slug),
		slog.Int("start_day", block.StartDay),
		slog.Int("end_day", block.EndDay),
	)
	WriteSuccess(w, block)
}

// DeleteBlock handles DELETE /api/v1/blocks/{slug}
func (h *Handlers) DeleteBlock(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	if err := h.db.DeleteBlock(r.Context(), slug); err != nil {
		if database.IsNotFound(err) {
			WriteNotFound(w, fmt.Sprintf("Block %q not found", slug))
			return
		}
		h.log(r).Error("failed to delete block", slog.String("slug", slug), slog.Any("error", err))
		WriteInternalError(w, "Failed to delete block")
		return
	}

	WriteSuccess(w, map[string]string{"message": "Block deleted"})
}

// GetCalendar handles GET /api/v1/calendar/{year} (an optional .ics
// suffix is accepted).
func (h *Handlers) GetCalendar(w http.ResponseWriter, r *http.Request) {
	yearStr := strings.TrimSuffix(chi.URLParam(r, "year"), ".ics")
	year, err := strconv.Atoi(yearStr)
	if err != nil || year < 1 || year > 9999 {
		WriteBadRequest(w, fmt.Sprintf("Invalid year: %s", yearStr))
		return
	}

	blocks, err := h.db.ListBlocks(r.Context())
	if err != nil {
		h.log(r).Error("failed to list blocks", slog.Any("error", err))
		WriteInternalError(w, "Failed to retrieve blocks")
		return
	}

	data, err := feed.Encode(feed.Build(year, blocks, h.clock.Now()))
	if err != nil {
		h.log(r).Error("failed to encode calendar", slog.Int("year", year), slog.Any("error", err))
		WriteInternalError(w, "Failed to build calendar")
		return
	}

	w.Header().Set("Content-Type", feed.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="seasonal-%d.ics"`, year))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (h *Handlers) log(r *http.Request) *slog.Logger {
	return logger.FromContext(r.Context(), h.logger)
}

// decodeJSON decodes a size-limited JSON request body, rejecting unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	if r.Body == nil {
		return errors.New("request body is empty")
	}
	defer r.Body.Close()

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBlockBody))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
