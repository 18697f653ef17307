package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"go.uber.org/zap"

	api "github.com/erbench/erbench/api/v1alpha1"
	"github.com/erbench/erbench/internal/service"
)

// renderError maps service error types onto HTTP status codes. Anything
// unrecognized is a store failure and surfaces as an opaque 500.
func renderError(w http.ResponseWriter, r *http.Request, err error, storeMessage string) {
	switch err.(type) {
	case *service.ErrMissingField, *service.ErrInvalidStatus, *service.ErrInvalidTransition:
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, api.Error{Error: err.Error()})
	case *service.ErrResourceNotFound:
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, api.Error{Error: err.Error()})
	default:
		zap.S().Named("handlers").Errorw(storeMessage, "error", err)
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, api.Error{Error: storeMessage})
	}
}

// jobID parses the {id} route parameter. A malformed id cannot reference any
// job, so it reports not-found rather than bad-request.
func jobID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, api.Error{Error: "Job not found"})
		return uuid.UUID{}, false
	}
	return id, true
}

// queryFromURL builds a query request from URL parameters, for the GET
// variants of the list endpoints. Filter values map as plain equality.
func queryFromURL(r *http.Request, filterFields ...string) api.QueryRequest {
	q := r.URL.Query()
	req := api.QueryRequest{
		SortField: q.Get("sortField"),
		SortOrder: api.SortOrder(q.Get("sortOrder")),
	}
	if first, err := strconv.Atoi(q.Get("first")); err == nil {
		req.First = first
	}
	if rows, err := strconv.Atoi(q.Get("rows")); err == nil {
		req.Rows = rows
	}
	for _, field := range filterFields {
		if v := q.Get(field); v != "" {
			if req.Filters == nil {
				req.Filters = make(map[string]api.FilterSpec)
			}
			req.Filters[field] = api.FilterSpec{Value: v}
		}
	}
	return req
}
