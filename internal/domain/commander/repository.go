package commander

import "context"

// Repository describes commander persistence needs from use cases.
type Repository interface {
	Catalog(ctx context.Context) (Catalog, error)
	InsertIfAbsent(ctx context.Context, commanders []Commander) (int, error)
}
