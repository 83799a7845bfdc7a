package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/HMS-BookingService/internal/domain"
	"github.com/m04kA/HMS-BookingService/pkg/dbmetrics"
	"github.com/m04kA/HMS-BookingService/pkg/psqlbuilder"
)

// Коды ошибок Postgres, различаемые репозиторием
const (
	pgCodeUniqueViolation      = pq.ErrorCode("23505")
	pgCodeSerializationFailure = pq.ErrorCode("40001")
)

// bookingColumns колонки таблицы bookings в порядке сканирования
var bookingColumns = []string{
	"id",
	"provider_id",
	"client_id",
	"booking_date",
	"slot_time",
	"status",
	"notes",
	"completed_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование в статусе pending
// Если в контексте передана активная транзакция, использует её
// Создание с проверкой доступности слота должно выполняться в сериализуемой
// транзакции, чтобы два конкурентных запроса на один слот не прошли оба
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"provider_id",
			"client_id",
			"booking_date",
			"slot_time",
			"status",
			"notes",
		).
		Values(
			booking.ProviderID,
			booking.ClientID,
			booking.BookingDate,
			booking.SlotTime,
			booking.Status,
			booking.Notes,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		// FOR UPDATE не блокирует несуществующие строки: на пустую дату оба
		// конкурента проходят выборку, и проигравший упирается в уникальный
		// индекс uq_bookings_provider_slot
		if isUniqueViolation(err) {
			return nil, ErrSlotTaken
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return booking, nil
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

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	return booking, nil
}

// GetByProviderAndDate получает все бронирования исполнителя на дату
// Используется для вычисления занятых слотов. При rejectedFreesSlot=true
// отклонённые бронирования исключаются из выборки (см. config.toml)
//
// Внутри транзакции выборка блокируется через FOR UPDATE - так конкурентные
// создания бронирований на одну дату сериализуются
func (r *Repository) GetByProviderAndDate(ctx context.Context, providerID int64, date time.Time, rejectedFreesSlot bool) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"provider_id": providerID}).
		Where(squirrel.Eq{"booking_date": date}).
		OrderBy("slot_time ASC")

	if rejectedFreesSlot {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"status": string(domain.StatusRejected)})
	}

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByProviderAndDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByProviderAndDate - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// GetByClientID получает список бронирований клиента
// Опционально фильтрует по статусу
func (r *Repository) GetByClientID(ctx context.Context, clientID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"client_id": clientID}).
		OrderBy("booking_date DESC")

	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByClientID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByClientID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// GetByProviderWithFilter получает бронирования исполнителя с фильтрацией
// по периоду и статусу. Итоговая сортировка по дате и минутам слота
// выполняется на стороне сервиса: текстовые 12-часовые метки в SQL
// упорядочиваются лексикографически и дают неверный порядок
func (r *Repository) GetByProviderWithFilter(ctx context.Context, filter domain.ProviderBookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"provider_id": filter.ProviderID})

	if filter.StartDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"booking_date": *filter.StartDate})
	}
	if filter.EndDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"booking_date": *filter.EndDate})
	}

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	} else if !filter.IncludeRejected {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"status": string(domain.StatusRejected)})
	}

	if filter.SortDescending {
		selectBuilder = selectBuilder.OrderBy("booking_date DESC")
	} else {
		selectBuilder = selectBuilder.OrderBy("booking_date ASC")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByProviderWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByProviderWithFilter - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// UpdateStatus переводит бронирование из ожидаемого статуса в новый
// Guard на уровне SQL: WHERE status = from. Если строка не изменилась,
// статус уже другой - возвращается ErrStatusConflict
func (r *Repository) UpdateStatus(ctx context.Context, id int64, from, to domain.BookingStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", to).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": from}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	return r.execGuarded(ctx, executor, id, query, args, "UpdateStatus")
}

// Reject переводит бронирование в rejected с причиной в notes
// fromStatuses задает допустимые исходные статусы: для отклонения
// исполнителем это pending, для отмены - confirmed, для административного
// отклонения - все нетерминальные статусы
func (r *Repository) Reject(ctx context.Context, id int64, fromStatuses []domain.BookingStatus, reason *string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	from := make([]string, len(fromStatuses))
	for i, s := range fromStatuses {
		from[i] = string(s)
	}

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", domain.StatusRejected).
		Set("notes", reason).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": from}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Reject - build update query: %v", ErrBuildQuery, err)
	}

	return r.execGuarded(ctx, executor, id, query, args, "Reject")
}

// Complete переводит подтвержденное бронирование в completed
// completed_at устанавливается только этим переходом
func (r *Repository) Complete(ctx context.Context, id int64, completedAt time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", domain.StatusCompleted).
		Set("completed_at", completedAt).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": domain.StatusConfirmed}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Complete - build update query: %v", ErrBuildQuery, err)
	}

	return r.execGuarded(ctx, executor, id, query, args, "Complete")
}

// Delete удаляет бронирование (физическое удаление, в обход state machine)
// Доступно только административному потоку; никакие инварианты жизненного
// цикла здесь не проверяются
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// execGuarded выполняет guarded update и различает "нет строки" и
// "строка есть, но статус не совпал"
func (r *Repository) execGuarded(ctx context.Context, executor DBExecutor, id int64, query string, args []interface{}, op string) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}

	if rowsAffected > 0 {
		return nil
	}

	// Определяем причину: бронирование отсутствует или guard не прошел
	existsQuery, existsArgs, err := psqlbuilder.Select("1").
		From("bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %s - build exists query: %v", ErrBuildQuery, op, err)
	}

	var one int
	err = executor.QueryRowContext(ctx, existsQuery, existsArgs...).Scan(&one)
	if err == sql.ErrNoRows {
		return ErrBookingNotFound
	}
	if err != nil {
		return fmt.Errorf("%w: %s - exists check: %v", ErrExecQuery, op, err)
	}

	return ErrStatusConflict
}

// IsSerializationFailure сообщает, прервал ли Postgres транзакцию как
// проигравшую сериализацию (код 40001). Для создания бронирования это тот же
// конфликт за слот, что и нарушение уникального индекса
func IsSerializationFailure(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pgCodeSerializationFailure
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pgCodeUniqueViolation
}

// scanBooking сканирует одну строку результата в бронирование
func scanBooking(row *sql.Row) (*domain.Booking, error) {
	var booking domain.Booking
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&booking.ID,
		&booking.ProviderID,
		&booking.ClientID,
		&booking.BookingDate,
		&booking.SlotTime,
		&booking.Status,
		&booking.Notes,
		&booking.CompletedAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return &booking, nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		var booking domain.Booking
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&booking.ID,
			&booking.ProviderID,
			&booking.ClientID,
			&booking.BookingDate,
			&booking.SlotTime,
			&booking.Status,
			&booking.Notes,
			&booking.CompletedAt,
			&createdAt,
			&updatedAt,
		)

		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}

		booking.CreatedAt = createdAt.Time
		booking.UpdatedAt = updatedAt.Time

		bookings = append(bookings, &booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}
