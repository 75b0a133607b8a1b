package service

import (
	"context"
	"sort"

	"github.com/m04kA/SMC-VenueBookingService/internal/domain"
)

// MemoryCatalog неизменяемый in-memory справочник услуг.
// Используется в режиме хранилища "memory": засевается из конфигурации
// при старте и дальше не меняется, поэтому мьютекс не нужен.
type MemoryCatalog struct {
	byName map[string]*domain.Service
}

// NewMemoryCatalog создает справочник из списка услуг
func NewMemoryCatalog(services []domain.Service) *MemoryCatalog {
	byName := make(map[string]*domain.Service, len(services))
	for i := range services {
		s := services[i]
		byName[s.Name] = &s
	}
	return &MemoryCatalog{byName: byName}
}

// ListActive возвращает активные услуги в порядке отображения
func (c *MemoryCatalog) ListActive(_ context.Context) ([]*domain.Service, error) {
	result := make([]*domain.Service, 0, len(c.byName))
	for _, s := range c.byName {
		if s.IsActive {
			copied := *s
			result = append(result, &copied)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].SortOrder != result[j].SortOrder {
			return result[i].SortOrder < result[j].SortOrder
		}
		return result[i].Name < result[j].Name
	})
	return result, nil
}

// GetByName возвращает услугу по имени
func (c *MemoryCatalog) GetByName(_ context.Context, name string) (*domain.Service, error) {
	s, ok := c.byName[name]
	if !ok {
		return nil, ErrServiceNotFound
	}
	copied := *s
	return &copied, nil
}
