package elimination

import "context"

type Repository interface {
	InsertIfAbsent(ctx context.Context, methods []Method) (int, error)
}
