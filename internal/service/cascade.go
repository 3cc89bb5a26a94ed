package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/rryowa/taskmanager/internal/metrics"
	"github.com/rryowa/taskmanager/internal/storage"
)

// CascadeService deletes the tasks of removed lists in the background.
// Failures are logged and counted, never retried.
type CascadeService struct {
	tasks   storage.TaskRepository
	log     *zap.SugaredLogger
	metrics *metrics.Metrics
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewCascadeService(
	tasks storage.TaskRepository,
	log *zap.SugaredLogger,
	m *metrics.Metrics,
	timeout time.Duration,
) *CascadeService {
	return &CascadeService{
		tasks:   tasks,
		log:     log,
		metrics: m,
		timeout: timeout,
	}
}

func (s *CascadeService) DeleteListTasks(listID string) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()

		deleted, err := s.tasks.DeleteTasksByList(ctx, listID)
		s.metrics.ObserveCascade(err)
		if err != nil {
			s.log.Errorw("failed to delete tasks of removed list", "listID", listID, "error", err)
			return
		}

		s.log.Infow("tasks of removed list deleted", "listID", listID, "deleted", deleted)
	}()
}

// Wait blocks until every scheduled cascade has finished or ctx is done.
func (s *CascadeService) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
