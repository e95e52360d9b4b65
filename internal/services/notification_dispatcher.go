package services

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"kodbank/internal/config"
	"kodbank/internal/models"

	"github.com/google/uuid"
)

const mailServiceName = "smtp"

var ErrQueueFull = errors.New("notification queue is full")

// NotificationDispatcher delivers alerts on background workers. Requests only
// ever touch the bounded queue.
type NotificationDispatcher struct {
	queue          chan models.Notification
	sender         MailSenderInterface
	circuitBreaker CircuitBreakerInterface
	auditLogger    AuditLoggerInterface
	metrics        MetricsRecorderInterface
	workers        int
	timeout        time.Duration
	wg             sync.WaitGroup
	logger         *slog.Logger
}

func NewNotificationDispatcher(
	cfg *config.NotificationConfig,
	sender MailSenderInterface,
	circuitBreaker CircuitBreakerInterface,
	auditLogger AuditLoggerInterface,
	metrics MetricsRecorderInterface,
	logger *slog.Logger,
) *NotificationDispatcher {
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	queueSize := cfg.QueueSize
	if queueSize < 1 {
		queueSize = 1
	}

	return &NotificationDispatcher{
		queue:          make(chan models.Notification, queueSize),
		sender:         sender,
		circuitBreaker: circuitBreaker,
		auditLogger:    auditLogger,
		metrics:        metrics,
		workers:        workers,
		timeout:        cfg.Timeout,
		logger:         logger,
	}
}

// Enqueue hands the notification to the workers. A full queue drops it.
func (d *NotificationDispatcher) Enqueue(ctx context.Context, notification models.Notification) bool {
	if notification.ID == uuid.Nil {
		notification.ID = uuid.New()
	}
	notification.EnqueuedAt = time.Now()

	select {
	case d.queue <- notification:
		d.metrics.IncrementCounter(MetricNotification, map[string]string{"status": "enqueued"})
		d.metrics.RecordGauge(MetricNotificationQueue, float64(len(d.queue)), nil)
		return true
	default:
		d.auditLogger.LogNotificationDropped(ctx, notification.Kind, notification.To, ErrQueueFull.Error())
		d.metrics.IncrementCounter(MetricNotification, map[string]string{"status": "dropped"})
		return false
	}
}

// Start launches the workers. They exit when ctx is cancelled.
func (d *NotificationDispatcher) Start(ctx context.Context) {
	d.logger.Info("starting notification dispatcher",
		slog.Int("workers", d.workers),
		slog.Int("queue_size", cap(d.queue)),
	)

	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.run(ctx)
	}
}

// Wait blocks until every worker has returned
func (d *NotificationDispatcher) Wait() {
	d.wg.Wait()
	d.logger.Info("notification dispatcher stopped",
		slog.Int("undelivered", len(d.queue)),
	)
}

func (d *NotificationDispatcher) run(ctx context.Context) {
	defer d.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case notification := <-d.queue:
			d.metrics.RecordGauge(MetricNotificationQueue, float64(len(d.queue)), nil)
			d.deliver(ctx, notification)
		}
	}
}

func (d *NotificationDispatcher) deliver(ctx context.Context, notification models.Notification) {
	if d.circuitBreaker.IsOpen() {
		d.auditLogger.LogNotificationDropped(ctx, notification.Kind, notification.To, "circuit breaker open")
		d.metrics.IncrementCounter(MetricNotification, map[string]string{"status": "skipped"})
		return
	}

	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)
	defer cancel()

	before := d.circuitBreaker.GetState()
	err := d.sender.Send(sendCtx, notification.To, notification.Subject(), notification.Body())
	if err != nil {
		d.circuitBreaker.RecordFailure()
		d.logger.Warn("failed to deliver notification",
			slog.String("notification_id", notification.ID.String()),
			slog.String("kind", notification.Kind),
			slog.String("error", err.Error()),
		)
		d.metrics.IncrementCounter(MetricNotification, map[string]string{"status": "failed"})
	} else {
		d.circuitBreaker.RecordSuccess()
		d.metrics.IncrementCounter(MetricNotification, map[string]string{"status": "sent"})
	}

	if after := d.circuitBreaker.GetState(); after != before {
		d.auditLogger.LogCircuitBreakerStateChange(ctx, mailServiceName, before.String(), after.String())
		d.metrics.RecordGauge(MetricCircuitBreakerState, float64(after), map[string]string{"service": mailServiceName})
	}
}
