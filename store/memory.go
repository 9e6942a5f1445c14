package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/sicko7947/petstore"
)

// MemoryStore implements petstore.PetStore using in-memory storage (for testing and local runs)
type MemoryStore struct {
	pets map[string]petstore.Pet
	mu   sync.RWMutex
}

// NewMemoryStore creates a new in-memory pet store
func NewMemoryStore() petstore.PetStore {
	return &MemoryStore{
		pets: make(map[string]petstore.Pet),
	}
}

func (s *MemoryStore) GetPet(ctx context.Context, id string) (petstore.Pet, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pet, exists := s.pets[id]
	if !exists {
		return nil, false, nil
	}

	// Deep copy
	return pet.Clone(), true, nil
}

func (s *MemoryStore) ListPets(ctx context.Context) ([]petstore.Pet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pets := make([]petstore.Pet, 0, len(s.pets))
	for _, pet := range s.pets {
		pets = append(pets, pet.Clone())
	}

	return pets, nil
}

func (s *MemoryStore) PutPet(ctx context.Context, pet petstore.Pet) error {
	id := pet.ID()
	if id == "" {
		return fmt.Errorf("pet has no %s", AttrID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pets[id] = normalize(pet)
	return nil
}

func (s *MemoryStore) UpdatePet(ctx context.Context, id string, fields map[string]any) error {
	if len(fields) == 0 {
		return fmt.Errorf("update requires at least one field")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	pet, exists := s.pets[id]
	if !exists {
		pet = petstore.Pet{AttrID: id}
	}

	for name, value := range normalize(fields) {
		pet[name] = value
	}
	s.pets[id] = pet

	return nil
}

func (s *MemoryStore) DeletePet(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.pets, id)
	return nil
}

// normalize deep copies a record and turns json.Number values into decimals,
// matching what a DynamoDB round trip would return.
func normalize(fields map[string]any) petstore.Pet {
	return petstore.Pet(petstore.NormalizeNumbers(petstore.CloneValue(map[string]any(fields))).(map[string]any))
}
