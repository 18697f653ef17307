package v1alpha1

import (
	"encoding/json"
	"strconv"
	"strings"
)

// FilterSpec is a single per-field filter: a raw value and the comparison
// operator to apply. Unknown match modes are ignored by the query engine.
type FilterSpec struct {
	Value     any    `json:"value"`
	MatchMode string `json:"matchMode,omitempty"`
}

// SortOrder accepts either the numeric literals 1/-1 (as JSON number or
// string) or the strings "asc"/"desc", case-insensitive.
type SortOrder string

func (s *SortOrder) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case float64:
		*s = SortOrder(strconv.Itoa(int(v)))
	case string:
		*s = SortOrder(v)
	default:
		*s = ""
	}
	return nil
}

// Descending reports whether the order resolves to descending. Anything that
// is not "-1" or "desc" counts as ascending.
func (s SortOrder) Descending() bool {
	v := strings.ToLower(strings.TrimSpace(string(s)))
	return v == "-1" || v == "desc"
}

// QueryRequest is the declarative filter/sort/page request shared by the
// jobs and predictions collections.
type QueryRequest struct {
	First     int                   `json:"first,omitempty"`
	Rows      int                   `json:"rows,omitempty"`
	SortField string                `json:"sortField,omitempty"`
	SortOrder SortOrder             `json:"sortOrder,omitempty"`
	Filters   map[string]FilterSpec `json:"filters,omitempty"`
}

// Page describes the window a query response covers.
type Page struct {
	First int   `json:"first"`
	Rows  int   `json:"rows"`
	Total int64 `json:"total"`
}

// JobListResponse is the page envelope for job queries.
type JobListResponse struct {
	Page Page  `json:"page"`
	Data []Job `json:"data"`
}

// PredictionListResponse is the page envelope for prediction queries.
type PredictionListResponse struct {
	Page Page         `json:"page"`
	Data []Prediction `json:"data"`
}
