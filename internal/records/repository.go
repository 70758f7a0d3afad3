package records

import "context"

// Repository stores rows of any registered resource.
type Repository interface {
	// List returns rows whose columns equal every filter value.
	List(ctx context.Context, res Resource, filter map[string]string) ([]Record, error)
	Create(ctx context.Context, res Resource, rec Record) (Record, error)
	Get(ctx context.Context, res Resource, id string) (Record, error)
	Update(ctx context.Context, res Resource, id string, rec Record) (Record, error)
	// Delete removes the row if present. Missing rows are not an error.
	Delete(ctx context.Context, res Resource, id string) error
}
