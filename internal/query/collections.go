package query

// Jobs is the schema of the jobs collection. Sorted by creation time unless
// the request says otherwise; ties resolve in insertion order at the store.
var Jobs = Schema{
	DefaultSortField: "createdAt",
	DefaultRows:      DefaultRows,
	Fields: map[string]FieldSpec{
		"createdAt":       {Column: "created_at", Kind: KindString, Sortable: true},
		"status":          {Column: "status", Kind: KindString, Sortable: true},
		"datasetId":       {Column: "dataset_id", Kind: KindString, Sortable: true},
		"filteringAlgoId": {Column: "filtering_algo_id", Kind: KindString, Sortable: true},
		"matchingAlgoId":  {Column: "matching_algo_id", Kind: KindString, Sortable: true},
		"filteringParams": {Column: "filtering_params", Kind: KindJSON},
		"matchingParams":  {Column: "matching_params", Kind: KindJSON},
		"notifyEmail":     {Column: "notify_email", Kind: KindString, Modes: []Op{OpContains}},
	},
}

// Predictions is the schema of the per-job predictions collection. The
// default order is probability descending, the order workers and the CSV
// export care about.
var Predictions = Schema{
	DefaultSortField: "probability",
	DefaultSortDesc:  true,
	DefaultRows:      DefaultRows,
	Fields: map[string]FieldSpec{
		"tableA_id":   {Column: "table_a_id", Kind: KindString, Sortable: true, Modes: []Op{OpContains}},
		"tableB_id":   {Column: "table_b_id", Kind: KindString, Sortable: true, Modes: []Op{OpContains}},
		"probability": {Column: "probability", Kind: KindNumeric, Sortable: true, Modes: []Op{OpGte, OpLte}},
	},
}
