package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/go-chi/render"
	"github.com/google/uuid"

	api "github.com/erbench/erbench/api/v1alpha1"
	apiMappers "github.com/erbench/erbench/internal/handlers/mappers"
	"github.com/erbench/erbench/internal/service"
)

// listDefaultRows is the page size of the GET variant, matching what
// workers pull in one shot.
const listDefaultRows = 100

type PredictionHandler struct {
	srv *service.PredictionService
}

func NewPredictionHandler(srv *service.PredictionService) *PredictionHandler {
	return &PredictionHandler{srv: srv}
}

// ListPredictions answers GET /jobs/{id}/predictions: the top page by
// probability descending unless URL parameters say otherwise.
func (h *PredictionHandler) ListPredictions(w http.ResponseWriter, r *http.Request) {
	id, ok := jobID(w, r)
	if !ok {
		return
	}

	req := queryFromURL(r, "tableA_id", "tableB_id")
	if req.Rows == 0 {
		req.Rows = listDefaultRows
	}
	h.queryPredictions(w, r, id, req)
}

// QueryPredictions answers POST /jobs/{id}/predictions/query with a full
// query request body.
func (h *PredictionHandler) QueryPredictions(w http.ResponseWriter, r *http.Request) {
	id, ok := jobID(w, r)
	if !ok {
		return
	}

	var req api.QueryRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, api.Error{Error: "invalid query request"})
		return
	}
	h.queryPredictions(w, r, id, req)
}

func (h *PredictionHandler) queryPredictions(w http.ResponseWriter, r *http.Request, id uuid.UUID, req api.QueryRequest) {
	predictions, plan, total, err := h.srv.Query(r.Context(), id, req)
	if err != nil {
		renderError(w, r, err, "Failed to fetch predictions")
		return
	}
	render.JSON(w, r, api.PredictionListResponse{
		Page: api.Page{First: plan.Offset, Rows: plan.Limit, Total: total},
		Data: apiMappers.PredictionListToApi(predictions),
	})
}

// AppendPredictions answers POST /jobs/{id}/predictions with a bulk insert.
// Duplicate tuples are skipped, so resending a batch succeeds.
func (h *PredictionHandler) AppendPredictions(w http.ResponseWriter, r *http.Request) {
	id, ok := jobID(w, r)
	if !ok {
		return
	}

	var rows []api.Prediction
	if err := render.DecodeJSON(r.Body, &rows); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, api.Error{Error: "invalid predictions payload"})
		return
	}

	if err := h.srv.Append(r.Context(), id, rows); err != nil {
		renderError(w, r, err, "Failed to save predictions")
		return
	}
	w.WriteHeader(http.StatusOK)
}

// ExportCSV answers GET /jobs/{id}/predictions/csv with the full prediction
// set as a downloadable CSV.
func (h *PredictionHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	id, ok := jobID(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.srv.ExportCSV(r.Context(), id, &buf); err != nil {
		renderError(w, r, err, "Failed to generate CSV")
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="job-%s-predictions.csv"`, id))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
