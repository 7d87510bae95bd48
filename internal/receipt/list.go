package receipt

import (
	"context"
	"fmt"

	"recepcion/pkg/types"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// SummaryRepository serves record summaries filtered by a search term, ordered
// newest first.
type SummaryRepository interface {
	CountSummaries(ctx context.Context, search string) (int, error)
	Summaries(ctx context.Context, search string, limit, offset int) ([]types.RecordSummary, error)
}

// Search keeps the summaries matching term. An empty term keeps everything.
func Search(items []types.RecordSummary, term string) []types.RecordSummary {
	out := make([]types.RecordSummary, 0, len(items))
	for _, item := range items {
		if item.Matches(term) {
			out = append(out, item)
		}
	}
	return out
}

// NormalizePageSize falls back to DefaultPageSize for non-positive sizes and
// caps the result at MaxPageSize.
func NormalizePageSize(size int) int {
	if size < 1 {
		return DefaultPageSize
	}
	if size > MaxPageSize {
		return MaxPageSize
	}
	return size
}

// ClampPage moves page into [1, totalPages]. With no results the only valid
// page is 1 and totalPages is 0.
func ClampPage(page, total, size int) (int, int) {
	size = NormalizePageSize(size)
	totalPages := (total + size - 1) / size

	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}
	return page, totalPages
}

// Paginate returns the requested page of items. Out of range pages are
// clamped to the nearest valid page rather than rejected.
func Paginate(items []types.RecordSummary, page, size int) types.RecordPage {
	size = NormalizePageSize(size)
	page, totalPages := ClampPage(page, len(items), size)

	start := (page - 1) * size
	end := min(start+size, len(items))

	pageItems := make([]types.RecordSummary, 0, end-start)
	pageItems = append(pageItems, items[start:end]...)

	return types.RecordPage{
		Items:      pageItems,
		Page:       page,
		PageSize:   size,
		Total:      len(items),
		TotalPages: totalPages,
	}
}

type Lister struct {
	repo     SummaryRepository
	pageSize int
}

func NewLister(repo SummaryRepository, defaultPageSize int) *Lister {
	return &Lister{repo: repo, pageSize: NormalizePageSize(defaultPageSize)}
}

func (l *Lister) List(ctx context.Context, q types.ListQuery) (types.RecordPage, error) {
	size := q.PageSize
	if size < 1 {
		size = l.pageSize
	}
	size = NormalizePageSize(size)

	total, err := l.repo.CountSummaries(ctx, q.Search)
	if err != nil {
		return types.RecordPage{}, fmt.Errorf("count summaries: %w", err)
	}

	page, totalPages := ClampPage(q.Page, total, size)

	items := make([]types.RecordSummary, 0)
	if total > 0 {
		items, err = l.repo.Summaries(ctx, q.Search, size, (page-1)*size)
		if err != nil {
			return types.RecordPage{}, fmt.Errorf("fetch summaries page %d: %w", page, err)
		}
	}

	return types.RecordPage{
		Items:      items,
		Page:       page,
		PageSize:   size,
		Total:      total,
		TotalPages: totalPages,
	}, nil
}

// All returns every summary matching search, used by exports.
func (l *Lister) All(ctx context.Context, search string) ([]types.RecordSummary, error) {
	total, err := l.repo.CountSummaries(ctx, search)
	if err != nil {
		return nil, fmt.Errorf("count summaries: %w", err)
	}
	if total == 0 {
		return []types.RecordSummary{}, nil
	}

	items, err := l.repo.Summaries(ctx, search, total, 0)
	if err != nil {
		return nil, fmt.Errorf("fetch summaries: %w", err)
	}
	return items, nil
}
