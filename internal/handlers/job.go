package handlers

import (
	"net/http"

	"github.com/go-chi/render"

	api "github.com/erbench/erbench/api/v1alpha1"
	apiMappers "github.com/erbench/erbench/internal/handlers/mappers"
	"github.com/erbench/erbench/internal/handlers/validator"
	"github.com/erbench/erbench/internal/service"
	"github.com/erbench/erbench/internal/service/mappers"
)

type JobHandler struct {
	srv *service.JobService
}

func NewJobHandler(srv *service.JobService) *JobHandler {
	return &JobHandler{srv: srv}
}

// ListJobs answers GET /jobs with URL-parameter paging and equality filters.
func (h *JobHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	req := queryFromURL(r, "status", "datasetId", "filteringAlgoId", "matchingAlgoId")
	h.queryJobs(w, r, req)
}

// QueryJobs answers POST /jobs/query with a full query request body.
func (h *JobHandler) QueryJobs(w http.ResponseWriter, r *http.Request) {
	var req api.QueryRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, api.Error{Error: "invalid query request"})
		return
	}
	h.queryJobs(w, r, req)
}

func (h *JobHandler) queryJobs(w http.ResponseWriter, r *http.Request, req api.QueryRequest) {
	jobs, plan, total, err := h.srv.QueryJobs(r.Context(), req)
	if err != nil {
		renderError(w, r, err, "Failed to fetch jobs")
		return
	}
	render.JSON(w, r, api.JobListResponse{
		Page: api.Page{First: plan.Offset, Rows: plan.Limit, Total: total},
		Data: apiMappers.JobListToApi(jobs),
	})
}

// SubmitJob answers POST /jobs. Existing completed jobs with the same
// configuration short-circuit creation: the response is then the array of
// matches with status 200 instead of the created job with 201.
func (h *JobHandler) SubmitJob(w http.ResponseWriter, r *http.Request) {
	var body api.SubmitJobRequest
	if err := render.DecodeJSON(r.Body, &body); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, api.Error{Error: "invalid submit request"})
		return
	}

	v := validator.NewValidator()
	if err := v.Struct(body); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, api.Error{Error: err.Error()})
		return
	}

	created, matches, err := h.srv.Submit(r.Context(), mappers.SubmitForm{
		DatasetID:       body.DatasetId,
		FilteringAlgoID: body.FilteringAlgoId,
		FilteringParams: body.FilteringParams,
		MatchingAlgoID:  body.MatchingAlgoId,
		MatchingParams:  body.MatchingParams,
		NotifyEmail:     body.NotifyEmail,
		Force:           body.Force,
	})
	if err != nil {
		renderError(w, r, err, "Failed to create job")
		return
	}

	if len(matches) > 0 {
		render.JSON(w, r, apiMappers.JobListToApi(matches))
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, apiMappers.JobToApi(*created))
}

// GetJob answers GET /jobs/{id} with the dataset, algorithms and result
// attached.
func (h *JobHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	id, ok := jobID(w, r)
	if !ok {
		return
	}

	job, err := h.srv.GetJob(r.Context(), id)
	if err != nil {
		renderError(w, r, err, "Failed to fetch job")
		return
	}
	render.JSON(w, r, apiMappers.JobToApi(*job))
}

// UpdateJob answers PUT /jobs/{id}: a status transition plus the scheduler
// handles reported by the worker.
func (h *JobHandler) UpdateJob(w http.ResponseWriter, r *http.Request) {
	id, ok := jobID(w, r)
	if !ok {
		return
	}

	var body api.UpdateJobRequest
	if err := render.DecodeJSON(r.Body, &body); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, api.Error{Error: "invalid update request"})
		return
	}

	v := validator.NewValidator()
	v.Register(validator.NewJobValidationRules()...)
	if err := v.Struct(body); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, api.Error{Error: err.Error()})
		return
	}

	job, err := h.srv.SetStatus(r.Context(), mappers.StatusUpdateForm{
		JobID:            id,
		Status:           body.Status,
		FilteringSlurmID: body.FilteringSlurmId,
		MatchingSlurmID:  body.MatchingSlurmId,
	})
	if err != nil {
		renderError(w, r, err, "Failed to update job")
		return
	}
	render.JSON(w, r, apiMappers.JobToApi(*job))
}

// GetJobResult answers GET /jobs/{id}/result.
func (h *JobHandler) GetJobResult(w http.ResponseWriter, r *http.Request) {
	id, ok := jobID(w, r)
	if !ok {
		return
	}

	result, err := h.srv.GetResult(r.Context(), id)
	if err != nil {
		renderError(w, r, err, "Failed to fetch result")
		return
	}
	render.JSON(w, r, apiMappers.ResultToApi(*result))
}

// UpdateJobResult answers PUT /jobs/{id}/result: a status transition
// carrying the metric subset measured so far. Metrics are persisted when the
// job enters matching or completed; omitted fields never clear stored values.
func (h *JobHandler) UpdateJobResult(w http.ResponseWriter, r *http.Request) {
	id, ok := jobID(w, r)
	if !ok {
		return
	}

	var body api.UpdateJobResultRequest
	if err := render.DecodeJSON(r.Body, &body); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, api.Error{Error: "invalid result request"})
		return
	}

	v := validator.NewValidator()
	v.Register(validator.NewJobValidationRules()...)
	if err := v.Struct(body); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, api.Error{Error: err.Error()})
		return
	}

	result, fields := mappers.ResultForm(id, body)
	if _, err := h.srv.SetStatus(r.Context(), mappers.StatusUpdateForm{
		JobID:        id,
		Status:       body.Status,
		Result:       result,
		ResultFields: fields,
	}); err != nil {
		renderError(w, r, err, "Failed to update results")
		return
	}
	w.WriteHeader(http.StatusOK)
}

// ListDatasets answers GET /datasets.
func (h *JobHandler) ListDatasets(w http.ResponseWriter, r *http.Request) {
	datasets, err := h.srv.ListDatasets(r.Context())
	if err != nil {
		renderError(w, r, err, "Failed to fetch datasets")
		return
	}
	render.JSON(w, r, apiMappers.DatasetListToApi(datasets))
}

// ListAlgorithms answers GET /algorithms.
func (h *JobHandler) ListAlgorithms(w http.ResponseWriter, r *http.Request) {
	algorithms, err := h.srv.ListAlgorithms(r.Context())
	if err != nil {
		renderError(w, r, err, "Failed to fetch algorithms")
		return
	}
	render.JSON(w, r, apiMappers.AlgorithmListToApi(algorithms))
}
