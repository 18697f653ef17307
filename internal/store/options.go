package store

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/erbench/erbench/internal/query"
)

type BaseQuerier struct {
	QueryFn []func(tx *gorm.DB) *gorm.DB
}

type JobQueryFilter BaseQuerier

func NewJobQueryFilter() *JobQueryFilter {
	return &JobQueryFilter{QueryFn: make([]func(tx *gorm.DB) *gorm.DB, 0)}
}

func (f *JobQueryFilter) ByStatus(status string) *JobQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("status = ?", status)
	})
	return f
}

func (f *JobQueryFilter) ByDatasetID(code string) *JobQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("dataset_id = ?", code)
	})
	return f
}

func (f *JobQueryFilter) ByFilteringAlgoID(code string) *JobQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("filtering_algo_id = ?", code)
	})
	return f
}

func (f *JobQueryFilter) ByMatchingAlgoID(code string) *JobQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("matching_algo_id = ?", code)
	})
	return f
}

// predicateScopes translates the filters of a normalized query plan into
// gorm scopes. Pagination and ordering stay out so the same scopes serve
// both the row scan and the total count.
func predicateScopes(p query.Plan) []func(tx *gorm.DB) *gorm.DB {
	fns := make([]func(tx *gorm.DB) *gorm.DB, 0, len(p.Predicates))
	for _, pred := range p.Predicates {
		pred := pred
		fns = append(fns, func(tx *gorm.DB) *gorm.DB {
			switch pred.Op {
			case query.OpContains:
				return tx.Where(pred.Column+` LIKE ? ESCAPE '\'`, "%"+escapeLike(pred.Str)+"%")
			case query.OpGte:
				return tx.Where(pred.Column+" >= ?", pred.Num)
			case query.OpLte:
				return tx.Where(pred.Column+" <= ?", pred.Num)
			default:
				if pred.Numeric {
					return tx.Where(pred.Column+" = ?", pred.Num)
				}
				return tx.Where(pred.Column+" = ?", pred.Str)
			}
		})
	}
	return fns
}

// orderScope applies the plan's sort order with stable tie breaks on the
// given columns, which together must reflect insertion order.
func orderScope(p query.Plan, tieBreaks ...string) func(tx *gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		dir := "asc"
		if p.Desc {
			dir = "desc"
		}
		tx = tx.Order(fmt.Sprintf("%s %s", p.OrderColumn, dir))
		for _, col := range tieBreaks {
			if col == p.OrderColumn {
				continue
			}
			tx = tx.Order(col)
		}
		return tx
	}
}

func escapeLike(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '%', '_', '\\':
			out = append(out, '\\')
		}
		out = append(out, s[i])
	}
	return string(out)
}
