package service

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"it-inventory/internal/domain"
	"it-inventory/pkg/utils"
)

var auditFailures = promauto.NewCounter(prometheus.CounterOpts{
	Name: "audit_write_failures_total",
	Help: "Audit log entries that could not be persisted",
})

// AuditRecorder 异步写审计日志；失败只记日志和指标，不影响响应
type AuditRecorder struct {
	repo    domain.AuditRepository
	log     *zap.Logger
	timeout time.Duration

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

func NewAuditRecorder(repo domain.AuditRepository, log *zap.Logger) *AuditRecorder {
	return &AuditRecorder{repo: repo, log: log.Named("audit"), timeout: 5 * time.Second}
}

// Record 立即返回；Close 之后的记录被丢弃
func (r *AuditRecorder) Record(e domain.AuditLog) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		r.log.Warn("audit recorder closed, entry dropped", zap.String("action", e.Action))
		return
	}
	r.wg.Add(1)
	r.mu.Unlock()

	if e.ID == "" {
		e.ID = utils.NewID()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	go func() {
		defer r.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()
		if err := r.repo.Create(ctx, &e); err != nil {
			auditFailures.Inc()
			r.log.Error("write audit log failed",
				zap.String("entity", e.EntityType),
				zap.String("entityId", e.EntityID),
				zap.String("action", e.Action),
				zap.Error(err))
		}
	}()
}

// Close 等待进行中的写入完成或 ctx 结束
func (r *AuditRecorder) Close(ctx context.Context) error {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
