package fetch

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Pair holds the results of two requests joined with Join2.
type Pair[A, B any] struct {
	First  A
	Second B
}

// Join2 starts a and b together and waits for both to return. It fails with
// the first error and never cancels the sibling request.
func Join2[A, B any](ctx context.Context, a Func[A], b Func[B]) (Pair[A, B], error) {
	var out Pair[A, B]
	var g errgroup.Group

	g.Go(func() error {
		v, err := a(ctx)
		if err != nil {
			return err
		}
		out.First = v
		return nil
	})
	g.Go(func() error {
		v, err := b(ctx)
		if err != nil {
			return err
		}
		out.Second = v
		return nil
	})

	if err := g.Wait(); err != nil {
		return Pair[A, B]{}, err
	}
	return out, nil
}
