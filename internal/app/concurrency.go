package app

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Relationship side names, used as keys in Show results and error prefixes.
const (
	SideSource = "source"
	SideTarget = "target"
)

// fetcher reads one record of the current context.
type fetcher[T any] func(context.Context) (T, error)

// bySide fetches the source and target value of a relationship concurrently.
// The first failure cancels the other side and is prefixed with the side
// that produced it.
//
//	nodes, err := bySide(ctx, rel.SourceNode, rel.TargetNode)
//	nodes[SideSource].ID
func bySide[T any](ctx context.Context, source, target fetcher[T]) (map[string]T, error) {
	g, gctx := errgroup.WithContext(ctx)

	var src, tgt T
	g.Go(func() (err error) {
		if src, err = source(gctx); err != nil {
			return fmt.Errorf("%s: %w", SideSource, err)
		}
		return nil
	})
	g.Go(func() (err error) {
		if tgt, err = target(gctx); err != nil {
			return fmt.Errorf("%s: %w", SideTarget, err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return map[string]T{SideSource: src, SideTarget: tgt}, nil
}

// both fetches two independent records concurrently and returns zero values
// for both when either fails.
func both[A, B any](ctx context.Context, fa fetcher[A], fb fetcher[B]) (a A, b B, err error) {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		a, err = fa(gctx)
		return err
	})
	g.Go(func() (err error) {
		b, err = fb(gctx)
		return err
	})

	if err = g.Wait(); err != nil {
		var (
			zeroA A
			zeroB B
		)
		return zeroA, zeroB, err
	}

	return a, b, nil
}
