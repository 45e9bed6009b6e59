package listeners

import (
	"context"

	"go.uber.org/zap"

	"bank-phone-extractor/internal/events"
	"bank-phone-extractor/pkg/eventbus"
)

// JobNotifier — получатель снимков задач (websocket-хаб).
type JobNotifier interface {
	SendToJob(jobID string, payload interface{}, messageType string) error
}

// JobListener пересылает события задач подписчикам этой задачи.
type JobListener struct {
	notifier JobNotifier
	logger   *zap.Logger
}

func NewJobListener(notifier JobNotifier, logger *zap.Logger) *JobListener {
	return &JobListener{notifier: notifier, logger: logger}
}

func (l *JobListener) Register(bus *eventbus.Bus) {
	bus.Subscribe(events.JobProgressEventName, l.handle)
	bus.Subscribe(events.JobFinishedEventName, l.handle)
	l.logger.Info("JobListener подписан на события задач")
}

func (l *JobListener) handle(_ context.Context, event eventbus.Event) error {
	switch e := event.(type) {
	case events.JobProgressEvent:
		return l.notifier.SendToJob(e.Job.ID, e.Job, event.Name())
	case events.JobFinishedEvent:
		l.logger.Debug("Задача завершена, уведомляем подписчиков",
			zap.String("jobID", e.Job.ID),
			zap.String("status", string(e.Job.Status)),
		)
		return l.notifier.SendToJob(e.Job.ID, e.Job, event.Name())
	}
	return nil
}
