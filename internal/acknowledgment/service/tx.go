package service

import (
	"context"
	"hash/fnv"
	"sync"
	"time"

	id "siteops/pkg/domain"
	dErrors "siteops/pkg/domain-errors"
)

// StoreTx provides a transactional boundary for acknowledgment mutations.
// Stores called with the context passed to fn join the unit of work.
type StoreTx interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

const (
	numDocumentShards = 64
	defaultTxTimeout  = 5 * time.Second
)

// shardedTx serializes units of work per document for the in-memory store.
// It cannot roll back: writes made before fn fails stay applied, so callers
// must be able to re-plan from current state (reconciliation re-diffs on retry).
type shardedTx struct {
	shards  [numDocumentShards]sync.Mutex
	timeout time.Duration
}

func newShardedTx(timeout time.Duration) *shardedTx {
	return &shardedTx{timeout: timeout}
}

func (t *shardedTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	timeout := t.timeout
	if timeout == 0 {
		timeout = defaultTxTimeout
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	shard := t.selectShard(ctx)
	t.shards[shard].Lock()
	defer t.shards[shard].Unlock()

	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}
	return fn(ctx)
}

// selectShard picks a shard from the document in ctx, or shard 0.
func (t *shardedTx) selectShard(ctx context.Context) uint32 {
	docID, ok := ctx.Value(txDocumentKeyCtx).(id.DocumentID)
	if !ok {
		return 0
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(docID.String()))
	return h.Sum32() % numDocumentShards
}

type txDocumentKey struct{}

var txDocumentKeyCtx = txDocumentKey{}

func withDocument(ctx context.Context, docID id.DocumentID) context.Context {
	return context.WithValue(ctx, txDocumentKeyCtx, docID)
}
