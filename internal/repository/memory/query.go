package memory

import (
	"fmt"
	"slices"
	"time"

	"policfy-be/internal/repository/specification"

	"github.com/google/uuid"
)

// matcher reports whether row satisfies a filtering specification. It returns
// an error for specification types it does not understand.
type matcher[T any] func(row *T, spec specification.Specification) (bool, error)

type accessors[T any] struct {
	id        func(row *T) uuid.UUID
	createdAt func(row *T) time.Time
	match     matcher[T]
}

// selectRows evaluates specs against rows the way the GORM repositories
// would: filters are ANDed, OrderBy sorts, Pagination slices last.
func selectRows[T any](rows []*T, acc accessors[T], specs []specification.Specification) ([]*T, error) {
	var (
		order *specification.OrderBy
		page  *specification.Pagination
	)

	selected := make([]*T, 0, len(rows))
rowLoop:
	for _, row := range rows {
		for _, spec := range specs {
			switch s := spec.(type) {
			case specification.OrderBy:
				order = &s
				continue
			case specification.Pagination:
				page = &s
				continue
			case specification.ByID:
				if acc.id(row) != s.ID {
					continue rowLoop
				}
				continue
			case specification.ByIDs:
				if !slices.Contains(s.IDs, acc.id(row)) {
					continue rowLoop
				}
				continue
			case specification.CreatedSince:
				if acc.createdAt(row).Before(s.Since) {
					continue rowLoop
				}
				continue
			}

			ok, err := acc.match(row, spec)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue rowLoop
			}
		}
		selected = append(selected, row)
	}

	// Stable default order keeps map iteration from leaking into results.
	slices.SortStableFunc(selected, func(a, b *T) int {
		return acc.createdAt(a).Compare(acc.createdAt(b))
	})

	if order != nil {
		if order.Field != "created_at" {
			return nil, fmt.Errorf("memory: unsupported order field %q", order.Field)
		}
		if order.Desc {
			slices.Reverse(selected)
		}
	}

	if page != nil {
		start := min(page.Offset, len(selected))
		end := len(selected)
		if page.Limit > 0 {
			end = min(start+page.Limit, len(selected))
		}
		selected = selected[start:end]
	}

	return selected, nil
}

func unsupported(spec specification.Specification) error {
	return fmt.Errorf("memory: unsupported specification %T", spec)
}
