package petstore

import "context"

// PetStore defines the persistence interface for pet records.
// Each method issues exactly one logical storage operation and is not retried.
type PetStore interface {
	// GetPet fetches one record by id. found is false when no record exists.
	GetPet(ctx context.Context, id string) (pet Pet, found bool, err error)

	// ListPets returns every stored record in storage order. Never nil.
	ListPets(ctx context.Context) ([]Pet, error)

	// PutPet writes the record unconditionally, replacing any record with the same id.
	PutPet(ctx context.Context, pet Pet) error

	// UpdatePet assigns every field by name on the record keyed by id.
	// Fields not named are kept. A missing record is created.
	UpdatePet(ctx context.Context, id string, fields map[string]any) error

	// DeletePet removes the record keyed by id. Deleting a missing record is not an error.
	DeletePet(ctx context.Context, id string) error
}
