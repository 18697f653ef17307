// Package query turns the declarative filter/sort/page requests accepted by
// the API into a normalized plan the store can execute. Each filter resolves
// to a tagged predicate; anything the collection schema does not recognize
// (unknown field, unsupported match mode, unparseable numeric) drops the
// filter instead of failing the request.
package query

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	api "github.com/erbench/erbench/api/v1alpha1"
)

const DefaultRows = 20

type FieldKind int

const (
	KindString FieldKind = iota
	KindNumeric
	// KindJSON matches a jsonb column against the canonical JSON encoding
	// of the filter value, so key order never matters. Equality only.
	KindJSON
)

// Op is the comparison a single predicate applies.
type Op int

const (
	OpUnset Op = iota
	OpEquals
	OpContains
	OpGte
	OpLte
)

var opNames = map[string]Op{
	"":         OpEquals,
	"equals":   OpEquals,
	"contains": OpContains,
	"gte":      OpGte,
	"lte":      OpLte,
}

// FieldSpec declares how one API field maps onto the collection.
type FieldSpec struct {
	Column   string
	Kind     FieldKind
	Sortable bool
	// Modes lists the match modes this field accepts. Empty means equals only.
	Modes []Op
}

func (f FieldSpec) allows(op Op) bool {
	if op == OpEquals {
		return true
	}
	for _, m := range f.Modes {
		if m == op {
			return true
		}
	}
	return false
}

// Schema describes one queryable collection.
type Schema struct {
	DefaultSortField string
	DefaultSortDesc  bool
	DefaultRows      int
	Fields           map[string]FieldSpec
}

// Predicate is a single resolved filter. Str carries the operand for string
// fields, Num for numeric ones (Numeric set).
type Predicate struct {
	Column  string
	Op      Op
	Numeric bool
	Str     string
	Num     float64
}

// Plan is a fully normalized query: every field name resolved to a column,
// every value parsed, defaults applied.
type Plan struct {
	Offset      int
	Limit       int
	OrderColumn string
	Desc        bool
	Predicates  []Predicate
}

// Plan normalizes a request against the schema.
func (s Schema) Plan(req api.QueryRequest) Plan {
	p := Plan{
		Offset: req.First,
		Limit:  req.Rows,
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	if p.Limit <= 0 {
		p.Limit = s.DefaultRows
	}
	if p.Limit <= 0 {
		p.Limit = DefaultRows
	}

	sortField := req.SortField
	spec, ok := s.Fields[sortField]
	if !ok || !spec.Sortable {
		sortField = s.DefaultSortField
		spec = s.Fields[sortField]
	}
	p.OrderColumn = spec.Column
	if req.SortOrder == "" {
		p.Desc = s.DefaultSortDesc
	} else {
		p.Desc = req.SortOrder.Descending()
	}

	for name, filter := range req.Filters {
		field, ok := s.Fields[name]
		if !ok {
			continue
		}
		pred, ok := resolve(field, filter)
		if !ok {
			continue
		}
		p.Predicates = append(p.Predicates, pred)
	}

	return p
}

func resolve(field FieldSpec, filter api.FilterSpec) (Predicate, bool) {
	if filter.Value == nil {
		return Predicate{}, false
	}

	op, ok := opNames[strings.ToLower(filter.MatchMode)]
	if !ok || !field.allows(op) {
		return Predicate{}, false
	}

	switch field.Kind {
	case KindJSON:
		if op != OpEquals {
			return Predicate{}, false
		}
		data, err := json.Marshal(filter.Value)
		if err != nil {
			return Predicate{}, false
		}
		return Predicate{Column: field.Column, Op: op, Str: string(data)}, true
	case KindNumeric:
		if op == OpContains {
			return Predicate{}, false
		}
		num, ok := toFloat(filter.Value)
		if !ok {
			return Predicate{}, false
		}
		return Predicate{Column: field.Column, Op: op, Numeric: true, Num: num}, true
	default:
		if op == OpGte || op == OpLte {
			return Predicate{}, false
		}
		str := toString(filter.Value)
		if str == "" {
			return Predicate{}, false
		}
		return Predicate{Column: field.Column, Op: op, Str: str}, true
	}
}

func toFloat(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case int:
		return float64(val), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func toString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64, int, bool:
		return fmt.Sprint(val)
	default:
		return ""
	}
}
