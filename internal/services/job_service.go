package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"bank-phone-extractor/internal/entities"
	"bank-phone-extractor/internal/events"
	"bank-phone-extractor/pkg/config"
	apperrors "bank-phone-extractor/pkg/errors"
	"bank-phone-extractor/pkg/eventbus"
)

type JobServiceInterface interface {
	Start(prefix, path string, opts StartOptions) (*entities.Job, error)
	StartText(prefix, text string) (*entities.Job, error)
	Get(id string) (*entities.Job, error)
	Cancel(id string) (*entities.Job, error)
	Results(id string) ([]entities.ExtractionResult, error)
	Wait(ctx context.Context, id string) (*entities.Job, error)
}

// StartOptions - параметры фоновой обработки файла.
type StartOptions struct {
	// Source - имя файла для отчёта, по умолчанию базовое имя path.
	Source    string
	ChunkSize int
	// RemoveSource удаляет файл после завершения задачи (загрузки через API).
	RemoveSource bool
}

// jobRun — живая задача: своя горутина, контекст отмены и счётчики прогресса.
type jobRun struct {
	mu      sync.Mutex
	job     entities.Job
	results []entities.ExtractionResult

	progress  atomic.Int32
	processed atomic.Int64
	total     atomic.Int64

	cancel context.CancelFunc
	done   chan struct{}
}

func (r *jobRun) snapshot() entities.Job {
	r.mu.Lock()
	job := r.job
	r.mu.Unlock()

	job.Progress = int(r.progress.Load())
	job.ProcessedRows = int(r.processed.Load())
	job.TotalRows = int(r.total.Load())
	return job
}

func (r *jobRun) setStatus(status entities.JobStatus) {
	r.mu.Lock()
	r.job.Status = status
	r.mu.Unlock()
	r.progress.Store(0)
}

type JobService struct {
	extractor *ExtractorService
	bus       *eventbus.Bus
	cfg       config.ExtractionConfig
	logger    *zap.Logger

	mu   sync.RWMutex
	jobs map[string]*jobRun
	wg   sync.WaitGroup
}

func NewJobService(extractor *ExtractorService, bus *eventbus.Bus, cfg config.ExtractionConfig, logger *zap.Logger) *JobService {
	return &JobService{
		extractor: extractor,
		bus:       bus,
		cfg:       cfg,
		logger:    logger,
		jobs:      make(map[string]*jobRun),
	}
}

// Start запускает загрузку и обработку файла в фоне.
func (s *JobService) Start(prefix, path string, opts StartOptions) (*entities.Job, error) {
	if _, err := s.extractor.ResolveBank(prefix); err != nil {
		return nil, err
	}
	source := opts.Source
	if source == "" {
		source = filepath.Base(path)
	}
	chunkSize := opts.ChunkSize
	if chunkSize <= 0 {
		chunkSize = s.cfg.ChunkSize
	}

	return s.launch(prefix, source, func(ctx context.Context, run *jobRun) ([]entities.ExtractionResult, *entities.LoadReport, error) {
		if opts.RemoveSource {
			defer s.removeSource(run.job.ID, path)
		}
		run.setStatus(entities.JobLoading)
		rows, report, err := s.extractor.loader.Load(ctx, path, func(percent int) {
			run.progress.Store(int32(percent))
			s.publish(ctx, events.JobProgressEvent{Job: run.snapshot()})
		})
		if err != nil {
			return nil, nil, err
		}
		run.setStatus(entities.JobProcessing)
		run.total.Store(int64(len(rows)))

		results, err := s.extractor.ProcessRows(ctx, prefix, rows, chunkSize, s.processingProgress(ctx, run))
		return results, report, err
	})
}

// StartText обрабатывает большой вставленный текст в фоне.
func (s *JobService) StartText(prefix, text string) (*entities.Job, error) {
	if _, err := s.extractor.ResolveBank(prefix); err != nil {
		return nil, err
	}

	return s.launch(prefix, "text", func(ctx context.Context, run *jobRun) ([]entities.ExtractionResult, *entities.LoadReport, error) {
		report := &entities.LoadReport{Format: FormatText, Encoding: EncodingUTF8}
		rows, err := parseLines(ctx, text, report, nil)
		if err != nil {
			return nil, nil, err
		}
		report.Rows = len(rows)

		run.setStatus(entities.JobProcessing)
		run.total.Store(int64(len(rows)))
		results, err := s.extractor.ProcessRows(ctx, prefix, rows, s.cfg.ChunkSize, s.processingProgress(ctx, run))
		return results, report, err
	})
}

func (s *JobService) removeSource(jobID, path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		s.logger.Warn("Не удалось удалить исходный файл задачи",
			zap.String("jobID", jobID),
			zap.String("path", path),
			zap.Error(err),
		)
	}
}

func (s *JobService) processingProgress(ctx context.Context, run *jobRun) ProgressFunc {
	return func(percent, processed, total int) {
		run.progress.Store(int32(percent))
		run.processed.Store(int64(processed))
		run.total.Store(int64(total))
		s.publish(ctx, events.JobProgressEvent{Job: run.snapshot()})
	}
}

type jobWork func(ctx context.Context, run *jobRun) ([]entities.ExtractionResult, *entities.LoadReport, error)

func (s *JobService) launch(prefix, source string, work jobWork) (*entities.Job, error) {
	ctx, cancel := context.WithCancel(context.Background())
	run := &jobRun{
		job: entities.Job{
			ID:         uuid.New().String(),
			Source:     source,
			BankPrefix: prefix,
			Status:     entities.JobPending,
			CreatedAt:  time.Now().UTC(),
		},
		cancel: cancel,
		done:   make(chan struct{}),
	}

	s.mu.Lock()
	s.evictExpiredLocked(time.Now().UTC())
	s.jobs[run.job.ID] = run
	s.mu.Unlock()

	s.logger.Info("Задача запущена",
		zap.String("jobID", run.job.ID),
		zap.String("source", source),
		zap.String("bank", prefix),
	)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer close(run.done)
		defer cancel()

		results, report, err := work(ctx, run)
		s.finish(ctx, run, results, report, err)
	}()

	job := run.snapshot()
	return &job, nil
}

func (s *JobService) finish(ctx context.Context, run *jobRun, results []entities.ExtractionResult, report *entities.LoadReport, err error) {
	now := time.Now().UTC()

	run.mu.Lock()
	run.job.FinishedAt = &now
	run.job.Report = report
	switch {
	case errors.Is(err, context.Canceled):
		run.job.Status = entities.JobCancelled
	case err != nil:
		run.job.Status = entities.JobFailed
		run.job.Error = err.Error()
	default:
		run.job.Status = entities.JobCompleted
		run.job.ResultCount = len(results)
		run.job.PhoneCount = entities.PhoneTotal(results)
		run.results = results
	}
	run.mu.Unlock()

	if err == nil {
		run.progress.Store(100)
	}
	job := run.snapshot()

	fields := []zap.Field{
		zap.String("jobID", job.ID),
		zap.String("status", string(job.Status)),
		zap.Int("results", job.ResultCount),
		zap.Int("phones", job.PhoneCount),
	}
	if job.Status == entities.JobFailed {
		s.logger.Error("Задача завершилась с ошибкой", append(fields, zap.Error(err))...)
	} else {
		s.logger.Info("Задача завершена", fields...)
	}
	s.publish(ctx, events.JobFinishedEvent{Job: job})
}

// publish доставляет события задачи синхронно из её горутины,
// поэтому job.finished всегда приходит последним.
func (s *JobService) publish(ctx context.Context, event eventbus.Event) {
	if s.bus != nil {
		s.bus.PublishSync(ctx, event)
	}
}

// evictExpiredLocked забывает задачи, завершённые раньше чем JobTTL назад.
// Вызывается под s.mu. Нулевой JobTTL отключает очистку.
func (s *JobService) evictExpiredLocked(now time.Time) {
	if s.cfg.JobTTL <= 0 {
		return
	}
	for id, run := range s.jobs {
		run.mu.Lock()
		finishedAt := run.job.FinishedAt
		run.mu.Unlock()
		if finishedAt != nil && now.Sub(*finishedAt) > s.cfg.JobTTL {
			delete(s.jobs, id)
			s.logger.Debug("Задача удалена из памяти по сроку хранения", zap.String("jobID", id))
		}
	}
}

func (s *JobService) lookup(id string) (*jobRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	run, ok := s.jobs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrJobNotFound, id)
	}
	return run, nil
}

func (s *JobService) Get(id string) (*entities.Job, error) {
	run, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	job := run.snapshot()
	return &job, nil
}

// Cancel отменяет задачу и ждёт её остановки не дольше CancelWait.
func (s *JobService) Cancel(id string) (*entities.Job, error) {
	run, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	run.cancel()

	select {
	case <-run.done:
	case <-time.After(s.cfg.CancelWait):
		s.logger.Warn("Задача не остановилась за отведённое время",
			zap.String("jobID", id),
			zap.Duration("wait", s.cfg.CancelWait),
		)
	}

	job := run.snapshot()
	return &job, nil
}

// Wait блокируется до завершения задачи или отмены ctx.
func (s *JobService) Wait(ctx context.Context, id string) (*entities.Job, error) {
	run, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	select {
	case <-run.done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	job := run.snapshot()
	return &job, nil
}

// Results отдаёт результаты только завершённой задачи.
func (s *JobService) Results(id string) ([]entities.ExtractionResult, error) {
	run, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	run.mu.Lock()
	defer run.mu.Unlock()
	switch run.job.Status {
	case entities.JobCompleted:
		return run.results, nil
	case entities.JobCancelled:
		return nil, apperrors.ErrJobCancelled
	case entities.JobFailed:
		return nil, fmt.Errorf("%w: %s", apperrors.ErrJobFailed, run.job.Error)
	}
	return nil, apperrors.ErrJobNotFinished
}

// Shutdown отменяет все задачи и ждёт их горутины.
func (s *JobService) Shutdown(ctx context.Context) error {
	s.mu.RLock()
	for _, run := range s.jobs {
		run.cancel()
	}
	s.mu.RUnlock()

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
