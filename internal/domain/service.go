package domain

// Service справочная услуга площадки.
// Для ядра бронирования это read-only данные: услуги прикрепляются
// к заявке по имени в момент создания.
type Service struct {
	ID        int64
	Name      string
	AdultOnly bool
	IsActive  bool
	SortOrder int
}
