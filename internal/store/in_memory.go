package store

import (
	"context"
	"sort"
	"sync"

	cerrors "github.com/prasit/catalog_service/internal/errors"
)

// inMemory implements ProductStore using a map guarded by a mutex.
// It mirrors the PostgreSQL implementation's semantics, including the
// uniqueness constraint and the newest-first ordering with id tie-break.
type inMemory struct {
	mu       sync.RWMutex
	products map[string]Product
	nextID   int64
}

// NewInMemoryStore creates a new in-memory ProductStore.
func NewInMemoryStore() ProductStore {
	return &inMemory{
		products: make(map[string]Product),
		nextID:   1,
	}
}

func (s *inMemory) FindByCode(_ context.Context, code string) (*Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[code]
	if !ok {
		return nil, cerrors.ErrProductNotFound
	}
	return &p, nil
}

func (s *inMemory) Insert(_ context.Context, params InsertParams) (*Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.products[params.ProductCode]; exists {
		return nil, cerrors.ErrDuplicateCode
	}
	product := Product{
		ID:            s.nextID,
		ProductCode:   params.ProductCode,
		Name:          params.Name,
		Price:         params.Price,
		ImageFilename: params.ImageFilename,
		CreatedAt:     params.CreatedAt,
	}
	s.nextID++
	s.products[params.ProductCode] = product

	return &product, nil
}

func (s *inMemory) FindAll(_ context.Context) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]Product, 0, len(s.products))
	for _, p := range s.products {
		list = append(list, p)
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].ID > list[j].ID
	})
	return list, nil
}

func (s *inMemory) DeleteByCode(_ context.Context, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[code]; !ok {
		return cerrors.ErrProductNotFound
	}
	delete(s.products, code)
	return nil
}
