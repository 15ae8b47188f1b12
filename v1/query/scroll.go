package query

import (
	"context"
	"fmt"

	"github.com/erpvec/erpvec/v1/filter"
	"github.com/erpvec/erpvec/v1/vectordb"
)

// Scroll returns one page of records matching the compiled filter. The
// store page is fetched at the requested limit and the residual
// predicates are applied afterwards, so a returned page may hold fewer
// records than Limit even when more pages exist. Scrolling the same
// cursor twice yields the same page: no record is skipped or duplicated
// across a full walk.
func (e *Engine) Scroll(ctx context.Context, req ScrollRequest) (*ScrollPage, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = e.cfg.PageSize
	}

	page, err := e.db.Scroll(ctx, vectordb.ScrollRequest{
		CollectionName: e.cfg.Collection,
		Filter:         req.Filter,
		Limit:          limit,
		Cursor:         req.Cursor,
		WithPayload:    true,
	})
	if err != nil {
		return nil, fmt.Errorf("scroll failed: %w", err)
	}

	return &ScrollPage{
		Records: filter.ApplyResidual(page.Points, req.Residual),
		Cursor:  page.NextCursor,
		HasMore: page.NextCursor != "",
	}, nil
}

// ScrollAll walks every page for the given filter and hands each
// post-residual batch to fn. It stops early when fn returns an error or
// the context ends.
func (e *Engine) ScrollAll(ctx context.Context, req ScrollRequest, fn func(points []vectordb.Point) error) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		page, err := e.Scroll(ctx, req)
		if err != nil {
			return err
		}
		if len(page.Records) > 0 {
			if err := fn(page.Records); err != nil {
				return err
			}
		}
		if !page.HasMore {
			return nil
		}
		req.Cursor = page.Cursor
	}
}
