package match

import "context"

// Repository describes match fact persistence needs from use cases.
type Repository interface {
	// SourceDigests returns the stored digest of every id that already exists.
	SourceDigests(ctx context.Context, ids []int64) (map[int64]string, error)
	// LoadBatch inserts absent rows in one transaction and never updates existing ones.
	LoadBatch(ctx context.Context, batch Batch) (LoadResult, error)
}
