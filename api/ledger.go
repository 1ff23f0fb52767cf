package api

import "context"

// ledger 按用户隔离的记录存取
type ledger[T any] interface {
	List(ctx context.Context, userID string) ([]T, error)
	Create(ctx context.Context, item *T) error
	Update(ctx context.Context, userID, id string, fields map[string]interface{}) (*T, error)
	Delete(ctx context.Context, userID, id string) error
}
