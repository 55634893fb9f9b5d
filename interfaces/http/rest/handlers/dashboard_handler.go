package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"statdash/application/queries"
	"statdash/application/queries/bus"
	"statdash/application/services"
	"statdash/domain/analytics"
	"statdash/pkg/common"
	apperrors "statdash/pkg/errors"
)

// DashboardHandler handles the /api/dashboard routes
type DashboardHandler struct {
	queryBus *bus.QueryBus
	errors   *apperrors.ErrorHandler
	logger   *zap.Logger
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(queryBus *bus.QueryBus, errorHandler *apperrors.ErrorHandler, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		queryBus: queryBus,
		errors:   errorHandler,
		logger:   logger,
	}
}

// GetReport handles GET /api/dashboard
func (h *DashboardHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	report, err := bus.AskAs[*analytics.FullReport](r.Context(), h.queryBus, queries.GenerateReportQuery{})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, r, http.StatusOK, report)
}

// GetSpaceStats handles GET /api/dashboard/space-stats
func (h *DashboardHandler) GetSpaceStats(w http.ResponseWriter, r *http.Request) {
	stats, err := bus.AskAs[*analytics.SpaceStatistics](r.Context(), h.queryBus, queries.GetSpaceStatisticsQuery{})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, r, http.StatusOK, stats)
}

// GetStructure handles GET /api/dashboard/structure/{structureID}
func (h *DashboardHandler) GetStructure(w http.ResponseWriter, r *http.Request) {
	query := queries.AnalyzeStructureQuery{StructureID: chi.URLParam(r, "structureID")}
	analysis, err := bus.AskAs[*services.StructureAnalysis](r.Context(), h.queryBus, query)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, r, http.StatusOK, analysis)
}

// GetNumericProperties handles GET /api/dashboard/structure/{structureID}/numeric-properties
func (h *DashboardHandler) GetNumericProperties(w http.ResponseWriter, r *http.Request) {
	query := queries.GetNumericPropertiesQuery{StructureID: chi.URLParam(r, "structureID")}
	stats, err := bus.AskAs[map[string]analytics.NumericPropertyStats](r.Context(), h.queryBus, query)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, r, http.StatusOK, stats)
}

// GetReferences handles GET /api/dashboard/structure/{structureID}/references
func (h *DashboardHandler) GetReferences(w http.ResponseWriter, r *http.Request) {
	query := queries.GetReferencesQuery{StructureID: chi.URLParam(r, "structureID")}
	refs, err := bus.AskAs[analytics.ReferenceAnalysis](r.Context(), h.queryBus, query)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, r, http.StatusOK, refs)
}

// GetTemporal handles GET /api/dashboard/structure/{structureID}/temporal
func (h *DashboardHandler) GetTemporal(w http.ResponseWriter, r *http.Request) {
	query := queries.GetTemporalActivityQuery{StructureID: chi.URLParam(r, "structureID")}
	activity, err := bus.AskAs[analytics.TemporalAnalysis](r.Context(), h.queryBus, query)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, r, http.StatusOK, activity)
}

// Compare handles GET /api/dashboard/compare?structureIds=a&structureIds=b
func (h *DashboardHandler) Compare(w http.ResponseWriter, r *http.Request) {
	ids := structureIDsParam(r)
	if len(ids) == 0 {
		h.errors.Handle(w, r, apperrors.NewValidationError("structureIds must be a list of structure IDs"))
		return
	}

	comparison, err := bus.AskAs[map[string]services.StructureComparison](r.Context(), h.queryBus,
		queries.CompareStructuresQuery{StructureIDs: ids})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, r, http.StatusOK, comparison)
}

// GetCollections handles GET /api/dashboard/collections
func (h *DashboardHandler) GetCollections(w http.ResponseWriter, r *http.Request) {
	stats, err := bus.AskAs[*services.CollectionStatistics](r.Context(), h.queryBus, queries.GetCollectionStatisticsQuery{})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, r, http.StatusOK, stats)
}

// Search handles GET /api/dashboard/search?query=&structureId=&limit=
func (h *DashboardHandler) Search(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	limit := 0
	if raw := params.Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			h.errors.Handle(w, r, apperrors.NewValidationError("limit must be an integer"))
			return
		}
		limit = parsed
	}

	query := queries.SearchObjectsQuery{
		Query:       strings.TrimSpace(params.Get("query")),
		StructureID: params.Get("structureId"),
		Limit:       limit,
	}

	result, err := bus.AskAs[*services.SearchResult](r.Context(), h.queryBus, query)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, r, http.StatusOK, result)
}

// structureIDsParam accepts repeated structureIds, the bracketed form and comma separated lists
func structureIDsParam(r *http.Request) []string {
	params := r.URL.Query()
	raw := append(params["structureIds"], params["structureIds[]"]...)

	var ids []string
	for _, value := range raw {
		for _, id := range strings.Split(value, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
	}
	return ids
}
