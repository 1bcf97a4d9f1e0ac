package dcerpc

import (
	"context"

	"github.com/specterops/dcerpc/internal/wire"
	"golang.org/x/sync/errgroup"
)

// Call describes one request for CallMany: an opnum plus its stub
// encoder, identified afterward by its position in the input slice.
type Call struct {
	Opnum      uint16
	EncodeStub func(buf wire.Buf, offset int) int
}

// CallMany fires every call in calls concurrently on the same Ctx
// (§5, §11.3: "call_id... is the sole correlation token if the user
// chooses to multiplex"). It is additive to CallAsync: ordinary
// callers keep calling CallAsync one at a time and rely on implicit
// serialization instead.
//
// Results are returned in the same order as calls; a single failure
// cancels ctx for the remaining in-flight calls via errgroup and is
// returned as err.
func CallMany(ctx context.Context, c *Ctx, calls []Call) ([]*CallResult, error) {
	results := make([]*CallResult, len(calls))
	g, gctx := errgroup.WithContext(ctx)

	for i, call := range calls {
		i, call := i, call
		g.Go(func() error {
			res, err := c.CallAsync(gctx, call.Opnum, call.EncodeStub)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
