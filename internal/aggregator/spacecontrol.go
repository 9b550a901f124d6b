package aggregator

import (
	"context"
	"fmt"

	"github.com/paulmach/orb"
	"golang.org/x/sync/errgroup"

	"github.com/pable/go-pitch-metrics/internal/model"
)

type spaceControlOptions struct {
	workers int
}

// SpaceControlOption configures ComputeSpaceControl.
type SpaceControlOption func(*spaceControlOptions)

// WithWorkers computes groups on up to n goroutines. n <= 1 runs sequentially.
func WithWorkers(n int) SpaceControlOption {
	return func(o *spaceControlOptions) { o.workers = n }
}

// ComputeSpaceControl computes the convex hull area of every group of events
// with both coordinates defined. groupBy defaults to the SpaceControlCandidates
// present in the table. Groups with fewer than 3 points, or whose points span
// no area, get an undefined value; they never fail the call.
func ComputeSpaceControl(ctx context.Context, t *model.Table, groupBy []model.Column, opts ...SpaceControlOption) ([]model.SpaceControlRecord, error) {
	if t == nil {
		return nil, errNilTable
	}
	var o spaceControlOptions
	for _, opt := range opts {
		opt(&o)
	}

	cols, err := ResolveGroupColumns(t.Schema, groupBy, SpaceControlCandidates, true)
	if err != nil {
		return nil, fmt.Errorf("space control: %w", err)
	}
	if err := t.Schema.Require(model.ColX, model.ColY); err != nil {
		return nil, fmt.Errorf("space control: %w", err)
	}

	groups := partition(t.Events, cols, func(e *model.Event) bool { return e.X.Valid && e.Y.Valid })
	out := make([]model.SpaceControlRecord, len(groups))

	if o.workers <= 1 {
		for i, g := range groups {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			out[i] = spaceControl(t.Events, g)
		}
		return out, nil
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(o.workers)
	for i, g := range groups {
		if egCtx.Err() != nil {
			break
		}
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			out[i] = spaceControl(t.Events, g)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func spaceControl(events []model.Event, g group) model.SpaceControlRecord {
	points := make([]orb.Point, len(g.rows))
	for j, i := range g.rows {
		points[j] = orb.Point{events[i].X.Value, events[i].Y.Value}
	}
	return model.SpaceControlRecord{
		Key:          g.key,
		Points:       len(points),
		SpaceControl: HullArea(points),
	}
}
