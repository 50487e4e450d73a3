package property

import (
	"context"
	"errors"
	"runtime"
	"testing"

	"golang.org/x/sync/errgroup"
)

// RunAll checks props concurrently, each with its own random source, and
// returns their results in order. The error joins the failures of all
// properties that did not pass.
func RunAll(ctx context.Context, c *Checker, cfg Config, props ...Checkable) ([]Result, error) {
	results := make([]Result, len(props))

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, p := range props {
		g.Go(func() error {
			results[i] = c.Check(ctx, p, cfg)
			return nil
		})
	}
	_ = g.Wait()

	var errs []error
	for _, res := range results {
		if !res.Passed() {
			errs = append(errs, errors.New(res.String()))
		}
	}
	return results, errors.Join(errs...)
}

// Run checks p with c and fails t unless the property is satisfied.
func (c *Checker) Run(t testing.TB, p Checkable, cfg Config) Result {
	t.Helper()
	res := c.Check(context.Background(), p, cfg)
	if !res.Passed() {
		t.Fatalf("%s", res)
	}
	return res
}

// Run checks p with a default Checker and fails t unless the property is
// satisfied.
func Run(t testing.TB, p Checkable, cfg Config) Result {
	t.Helper()
	return NewChecker().Run(t, p, cfg)
}
