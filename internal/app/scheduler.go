package app

import (
	"context"
	"sync"
	"time"

	"github.com/Freeeeeet/lessonmarket/internal/schedule"
	"go.uber.org/zap"
)

// Reconciler то, что планировщик запускает по таймеру
type Reconciler interface {
	Reconcile(ctx context.Context) (schedule.ReconcileResult, error)
}

// Scheduler управляет фоновыми задачами
type Scheduler struct {
	reconciler Reconciler
	interval   time.Duration
	logger     *zap.Logger
	stopChan   chan struct{}
	stopOnce   sync.Once
	wg         sync.WaitGroup
}

// NewScheduler создаёт новый планировщик
func NewScheduler(reconciler Reconciler, interval time.Duration, logger *zap.Logger) *Scheduler {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	return &Scheduler{
		reconciler: reconciler,
		interval:   interval,
		logger:     logger,
		stopChan:   make(chan struct{}),
	}
}

// Start запускает фоновые задачи
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting background scheduler", zap.Duration("interval", s.interval))

	s.wg.Add(1)
	go s.runReconcileTask(ctx)
}

// Stop останавливает фоновые задачи и ждёт их завершения
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		s.logger.Info("Stopping background scheduler")
		close(s.stopChan)
	})
	s.wg.Wait()
}

// runReconcileTask периодически завершает прошедшие слоты и занятия
func (s *Scheduler) runReconcileTask(ctx context.Context) {
	defer s.wg.Done()

	// Первый запуск сразу при старте
	s.reconcile(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.reconcile(ctx)
		case <-s.stopChan:
			s.logger.Info("Reconcile task stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Reconcile task cancelled")
			return
		}
	}
}

func (s *Scheduler) reconcile(ctx context.Context) {
	result, err := s.reconciler.Reconcile(ctx)
	if err != nil {
		s.logger.Error("Failed to reconcile lesson statuses", zap.Error(err))
		return
	}

	if result.Empty() {
		s.logger.Debug("Nothing to reconcile")
	}
}
