package selection

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/substratehq/graphview/pkg/graph"
	"github.com/substratehq/graphview/pkg/logger"
)

// Impact aggregates the estimated blast radius of removing the selected
// nodes. Per-node counts are purely summed; ordering of the underlying
// requests carries no meaning.
type Impact struct {
	RefsDetached        int `json:"refsDetached"`
	RelationshipsPruned int `json:"relationshipsPruned"`
	AffectedDocuments   int `json:"affectedDocuments"`
}

// PreviewFunc fetches the impact counts for one node from the backend.
type PreviewFunc func(ctx context.Context, node graph.Node) (Impact, error)

// previewParallelism bounds concurrent preview requests per aggregation.
const previewParallelism = 4

// AggregatePreview fans out one preview request per node and sums the
// results. Individual failures are soft: a failed request contributes zero
// to every count and increments the returned failure tally instead of
// aborting the aggregation. Cancellation of ctx stops outstanding requests.
func AggregatePreview(ctx context.Context, nodes []graph.Node, fetch PreviewFunc) (Impact, int) {
	var agg Impact
	var failed int

	results := make([]*Impact, len(nodes))

	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(previewParallelism)
	for i, node := range nodes {
		eg.Go(func() error {
			impact, err := fetch(gctx, node)
			if err != nil {
				logger.Warn("[Selection] Preview request failed", "node_id", node.ID, "err", err)
				return nil
			}
			results[i] = &impact
			return nil
		})
	}
	// Workers only return nil; Wait is used for joining.
	_ = eg.Wait()

	for _, r := range results {
		if r == nil {
			failed++
			continue
		}
		agg.RefsDetached += r.RefsDetached
		agg.RelationshipsPruned += r.RelationshipsPruned
		agg.AffectedDocuments += r.AffectedDocuments
	}
	return agg, failed
}
