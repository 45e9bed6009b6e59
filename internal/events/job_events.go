package events

import (
	"bank-phone-extractor/internal/entities"
)

const (
	JobProgressEventName = "job.progress"
	JobFinishedEventName = "job.finished"
)

// JobProgressEvent - снимок задачи после очередного шага загрузки или обработки.
type JobProgressEvent struct {
	Job entities.Job
}

func (e JobProgressEvent) Name() string {
	return JobProgressEventName
}

// JobFinishedEvent - задача завершилась: успешно, с ошибкой или отменой.
type JobFinishedEvent struct {
	Job entities.Job
}

func (e JobFinishedEvent) Name() string {
	return JobFinishedEventName
}
