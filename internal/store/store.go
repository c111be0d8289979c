// Package store holds the authoritative in-memory product catalog. The
// store is the single source of truth: the cache layer only ever holds a
// stale-tolerant copy of its data.
package store

import (
	"sort"
	"sync"

	"github.com/shopfabrik/catalog-service/internal/apperrors"
	"github.com/shopfabrik/catalog-service/internal/models"
)

// Store is a mutex-guarded product collection with a monotonic id
// generator. Ids are never reused, even after deletion.
type Store struct {
	mu       sync.RWMutex
	products map[int]models.Product
	nextID   int
}

// New creates an empty store. The first assigned id is 1.
func New() *Store {
	return &Store{products: make(map[int]models.Product)}
}

// List returns all products, or only those in the given category when
// category is non-empty. Results are sorted by id.
func (s *Store) List(category string) []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]models.Product, 0, len(s.products))
	for _, p := range s.products {
		if category != "" && p.Category != category {
			continue
		}
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

// Get returns the product with the given id, or an ErrNotFound.
func (s *Store) Get(id int) (models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return models.Product{}, apperrors.NewProductNotFoundError(id)
	}
	return p, nil
}

// Create validates the input, assigns the next id and stores the product.
func (s *Store) Create(in models.CreateProduct) (models.Product, error) {
	if err := validateCreate(in); err != nil {
		return models.Product{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	p := models.Product{
		ID:          s.nextID,
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Category:    in.Category,
		Stock:       in.Stock,
	}
	s.products[p.ID] = p
	return p, nil
}

// Update applies the non-nil fields of patch to the product with the
// given id. Supplied fields are validated with the same rules as Create.
func (s *Store) Update(id int, patch models.UpdateProduct) (models.Product, error) {
	if err := validateUpdate(patch); err != nil {
		return models.Product{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return models.Product{}, apperrors.NewProductNotFoundError(id)
	}

	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	if patch.Stock != nil {
		p.Stock = *patch.Stock
	}

	s.products[id] = p
	return p, nil
}

// Delete removes the product with the given id. The id is not reclaimed.
func (s *Store) Delete(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[id]; !ok {
		return apperrors.NewProductNotFoundError(id)
	}
	delete(s.products, id)
	return nil
}

// Len returns the number of products currently in the store.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.products)
}

func validateCreate(in models.CreateProduct) error {
	if in.Name == "" {
		return apperrors.NewValidationError("name", "is required")
	}
	if in.Price <= 0 {
		return apperrors.NewValidationError("price", "must be greater than zero")
	}
	if in.Category == "" {
		return apperrors.NewValidationError("category", "is required")
	}
	if in.Stock < 0 {
		return apperrors.NewValidationError("stock", "must not be negative")
	}
	return nil
}

func validateUpdate(patch models.UpdateProduct) error {
	if patch.Name != nil && *patch.Name == "" {
		return apperrors.NewValidationError("name", "must not be empty")
	}
	if patch.Price != nil && *patch.Price <= 0 {
		return apperrors.NewValidationError("price", "must be greater than zero")
	}
	if patch.Category != nil && *patch.Category == "" {
		return apperrors.NewValidationError("category", "must not be empty")
	}
	if patch.Stock != nil && *patch.Stock < 0 {
		return apperrors.NewValidationError("stock", "must not be negative")
	}
	return nil
}
