package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/upeo/website-backend/pkg/logging"
)

// AdminDashboardHandler serves the admin overview: lead volume and catalog
// counts. It queries the database directly rather than going through the
// repositories, since all it needs are aggregates.
type AdminDashboardHandler struct {
	db     *sql.DB
	logger *logging.Logger
}

// NewAdminDashboardHandler creates a new admin dashboard handler.
func NewAdminDashboardHandler(db *sql.DB, logger *logging.Logger) *AdminDashboardHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &AdminDashboardHandler{
		db:     db,
		logger: logger,
	}
}

// DashboardResponse contains the admin overview metrics.
type DashboardResponse struct {
	Leads       LeadStats     `json:"leads"`
	Resources   ResourceStats `json:"resources"`
	GeneratedAt time.Time     `json:"generated_at"`
}

// LeadStats contains lead-related dashboard metrics.
type LeadStats struct {
	Total       int            `json:"total"`
	NewThisWeek int            `json:"new_this_week"`
	BySource    map[string]int `json:"by_source,omitempty"`
}

// ResourceStats contains catalog-related dashboard metrics.
type ResourceStats struct {
	Total     int            `json:"total"`
	Published int            `json:"published"`
	Drafts    int            `json:"drafts"`
	ByType    map[string]int `json:"by_type,omitempty"`
}

// GetDashboard handles GET /admin/dashboard requests.
func (h *AdminDashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	leads, err := h.leadStats(ctx)
	if err != nil {
		h.logger.Error("dashboard lead stats failed", "error", err)
		http.Error(w, "failed to load dashboard", http.StatusInternalServerError)
		return
	}

	resources, err := h.resourceStats(ctx)
	if err != nil {
		h.logger.Error("dashboard resource stats failed", "error", err)
		http.Error(w, "failed to load dashboard", http.StatusInternalServerError)
		return
	}

	response := DashboardResponse{
		Leads:       leads,
		Resources:   resources,
		GeneratedAt: time.Now().UTC(),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func (h *AdminDashboardHandler) leadStats(ctx context.Context) (LeadStats, error) {
	stats := LeadStats{BySource: map[string]int{}}

	if err := h.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM leads`,
	).Scan(&stats.Total); err != nil {
		return stats, err
	}

	if err := h.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM leads WHERE created_at >= NOW() - INTERVAL '7 days'`,
	).Scan(&stats.NewThisWeek); err != nil {
		return stats, err
	}

	rows, err := h.db.QueryContext(ctx,
		`SELECT COALESCE(source, 'unknown'), COUNT(*) FROM leads GROUP BY 1 ORDER BY 2 DESC`,
	)
	if err != nil {
		return stats, err
	}
	defer rows.Close()
	for rows.Next() {
		var source string
		var count int
		if err := rows.Scan(&source, &count); err != nil {
			return stats, err
		}
		stats.BySource[source] = count
	}
	return stats, rows.Err()
}

func (h *AdminDashboardHandler) resourceStats(ctx context.Context) (ResourceStats, error) {
	stats := ResourceStats{ByType: map[string]int{}}

	rows, err := h.db.QueryContext(ctx,
		`SELECT type, published, COUNT(*) FROM resources GROUP BY type, published`,
	)
	if err != nil {
		return stats, err
	}
	defer rows.Close()
	for rows.Next() {
		var typ string
		var published bool
		var count int
		if err := rows.Scan(&typ, &published, &count); err != nil {
			return stats, err
		}
		stats.Total += count
		stats.ByType[typ] += count
		if published {
			stats.Published += count
		} else {
			stats.Drafts += count
		}
	}
	return stats, rows.Err()
}
