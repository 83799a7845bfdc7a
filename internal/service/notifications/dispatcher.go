package notifications

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/HMS-BookingService/internal/integrations/mailer"
)

// Job задача на отправку одного уведомления
// Диспетчер сам разрешает полный контекст бронирования по BookingID
type Job struct {
	ID        uuid.UUID
	Kind      mailer.MessageKind
	BookingID int64
	Reason    string // Заполняется только для client_booking_rejected
}

// NewJob создает задачу с новым идентификатором для трассировки в логах
func NewJob(kind mailer.MessageKind, bookingID int64, reason string) Job {
	return Job{
		ID:        uuid.New(),
		Kind:      kind,
		BookingID: bookingID,
		Reason:    reason,
	}
}

// Result структурированный результат доставки уведомления
// Диспетчер никогда не паникует и не возвращает ошибку наружу иначе,
// чем через это значение
type Result struct {
	Success bool
	Err     error
}

// deliverTimeout максимальное время обработки одной задачи
const deliverTimeout = 15 * time.Second

// Dispatcher асинхронный диспетчер уведомлений
// Задачи принимаются без ожидания (fire-and-forget) в буферизованную
// очередь и обрабатываются одним фоновым worker'ом. Переполнение очереди
// приводит к отбрасыванию задачи с записью в лог - API из-за уведомлений
// не блокируется и не падает
type Dispatcher struct {
	bookingRepo    BookingRepository
	providerClient ProviderServiceClient
	clientClient   ClientServiceClient
	sender         MailSender
	metrics        MetricsObserver
	log            Logger

	queue chan Job
	wg    sync.WaitGroup
}

// NewDispatcher создает диспетчер и запускает worker
// metrics может быть nil, если метрики выключены
func NewDispatcher(
	bookingRepo BookingRepository,
	providerClient ProviderServiceClient,
	clientClient ClientServiceClient,
	sender MailSender,
	queueSize int,
	metrics MetricsObserver,
	log Logger,
) *Dispatcher {
	d := &Dispatcher{
		bookingRepo:    bookingRepo,
		providerClient: providerClient,
		clientClient:   clientClient,
		sender:         sender,
		metrics:        metrics,
		log:            log,
		queue:          make(chan Job, queueSize),
	}

	d.wg.Add(1)
	go d.worker()

	return d
}

// Dispatch ставит задачу в очередь, не дожидаясь результата
// При переполненной очереди задача отбрасывается
func (d *Dispatcher) Dispatch(job Job) {
	select {
	case d.queue <- job:
		d.log.Info("notifications: job=%s kind=%s booking=%d queued", job.ID, job.Kind, job.BookingID)
	default:
		d.log.Error("notifications: job=%s kind=%s booking=%d dropped: %v", job.ID, job.Kind, job.BookingID, ErrQueueFull)
		d.observe(job.Kind, "dropped")
	}
}

// Close останавливает прием задач и дожидается обработки очереди
func (d *Dispatcher) Close() {
	close(d.queue)
	d.wg.Wait()
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()

	for job := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), deliverTimeout)
		result := d.Deliver(ctx, job)
		cancel()

		if result.Success {
			d.log.Info("notifications: job=%s kind=%s booking=%d delivered", job.ID, job.Kind, job.BookingID)
			d.observe(job.Kind, "delivered")
		} else {
			// Ошибка доставки только логируется: статус бронирования уже
			// сохранен и является источником истины
			d.log.Error("notifications: job=%s kind=%s booking=%d failed: %v", job.ID, job.Kind, job.BookingID, result.Err)
			d.observe(job.Kind, "failed")
		}
	}
}

// Deliver синхронно разрешает контекст бронирования и отправляет письмо
// Все ошибки возвращаются структурированным результатом
func (d *Dispatcher) Deliver(ctx context.Context, job Job) Result {
	req, err := d.buildRequest(ctx, job)
	if err != nil {
		return Result{Success: false, Err: err}
	}

	if err := d.sender.Send(ctx, req); err != nil {
		return Result{Success: false, Err: err}
	}

	return Result{Success: true}
}

func (d *Dispatcher) observe(kind mailer.MessageKind, result string) {
	if d.metrics != nil {
		d.metrics.ObserveNotificationJob(string(kind), result)
	}
}
