package booking

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-VenueBookingService/internal/domain"
	"github.com/m04kA/SMC-VenueBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-VenueBookingService/pkg/psqlbuilder"
)

// Repository postgres-репозиторий бронирований.
// Реализует тот же контракт, что и MemoryRepository; атомарность метлы
// и выдачи id обеспечивается самой БД.
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

var bookingColumns = []string{
	"id",
	"full_name",
	"phone",
	"guests",
	"starts_at",
	"ends_at",
	"status",
	"hold_deadline",
	"origin_chat_id",
	"services",
	"created_at",
	"updated_at",
}

// Create сохраняет новое бронирование и возвращает копию с присвоенным id.
// id выдается последовательностью БД и не переиспользуется после удаления.
func (r *Repository) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"full_name",
			"phone",
			"guests",
			"starts_at",
			"ends_at",
			"status",
			"hold_deadline",
			"origin_chat_id",
			"services",
		).
		Values(
			b.Customer.FullName,
			b.Customer.Phone,
			b.Customer.Guests,
			b.Span.Start,
			b.Span.End,
			b.Status,
			b.HoldDeadline,
			b.OriginChatID,
			pq.Array(b.Services),
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	created := *b
	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&created.ID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	created.CreatedAt = createdAt.Time
	created.UpdatedAt = updatedAt.Time
	return &created, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	b, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}
	return b, nil
}

// List возвращает все бронирования, отсортированные по id
func (r *Repository) List(ctx context.Context) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// Update заменяет сохраненную запись бронирования.
// Неизвестный id - ErrBookingNotFound, никогда не игнорируется молча.
func (r *Repository) Update(ctx context.Context, b *domain.Booking) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("full_name", b.Customer.FullName).
		Set("phone", b.Customer.Phone).
		Set("guests", b.Customer.Guests).
		Set("starts_at", b.Span.Start).
		Set("ends_at", b.Span.End).
		Set("status", b.Status).
		Set("hold_deadline", b.HoldDeadline).
		Set("origin_chat_id", b.OriginChatID).
		Set("services", pq.Array(b.Services)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": b.ID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Update - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrBookingNotFound
	}
	return nil
}

// ListForSpan возвращает бронирования, пересекающиеся с интервалом,
// без фильтра по статусу, отсортированные по началу
func (r *Repository) ListForSpan(ctx context.Context, span domain.TimeSpan) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Lt{"starts_at": span.End}).
		Where(squirrel.Gt{"ends_at": span.Start}).
		OrderBy("starts_at ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListForSpan - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListForSpan - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// Conflicts возвращает бронирования со статусом confirmed или pending_review,
// чьи интервалы реально пересекаются с указанным (границы не конфликтуют).
// Именно этот запрос - авторитет при приеме новой заявки.
func (r *Repository) Conflicts(ctx context.Context, span domain.TimeSpan) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	activeStatuses := make([]string, len(domain.ActiveStatuses))
	for i, s := range domain.ActiveStatuses {
		activeStatuses[i] = string(s)
	}

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"status": activeStatuses}).
		Where(squirrel.Lt{"starts_at": span.End}).
		Where(squirrel.Gt{"ends_at": span.Start}).
		OrderBy("starts_at ASC")

	// Внутри сериализуемой транзакции блокируем строки до вставки
	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Conflicts - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: Conflicts - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// SweepExpiredHolds одним UPDATE переводит в expired все просроченные холды
// и возвращает их id. Условие по статусу в WHERE - это compare-and-swap:
// заявка, разрешенная обработчиком параллельно, под условие уже не попадает.
func (r *Repository) SweepExpiredHolds(ctx context.Context, now time.Time) ([]int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", domain.StatusExpired).
		Set("hold_deadline", nil).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"status": domain.StatusPendingReview}).
		Where(squirrel.LtOrEq{"hold_deadline": now}).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: SweepExpiredHolds - build update query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: SweepExpiredHolds - execute update: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	expired := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: SweepExpiredHolds - scan id: %v", ErrScanRow, err)
		}
		expired = append(expired, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: SweepExpiredHolds - rows error: %v", ErrScanRow, err)
	}
	return expired, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var (
		b            domain.Booking
		holdDeadline sql.NullTime
		services     pq.StringArray
		createdAt    sql.NullTime
		updatedAt    sql.NullTime
	)

	err := row.Scan(
		&b.ID,
		&b.Customer.FullName,
		&b.Customer.Phone,
		&b.Customer.Guests,
		&b.Span.Start,
		&b.Span.End,
		&b.Status,
		&holdDeadline,
		&b.OriginChatID,
		&services,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if holdDeadline.Valid {
		deadline := holdDeadline.Time
		b.HoldDeadline = &deadline
	}
	b.Services = []string(services)
	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time
	return &b, nil
}

func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}
	return bookings, nil
}
