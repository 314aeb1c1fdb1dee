package view

import "context"

// Repository defines read access to views.
type Repository interface {
	FindAll(ctx context.Context) ([]*View, error)
	FindByID(ctx context.Context, id string) (*View, error)
	FindChildren(ctx context.Context, parentViewID string) ([]*View, error)
}
