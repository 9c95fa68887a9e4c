package model

import (
	"time"

	"opsdesk/internal/domain"
)

type JobStatus string

const (
	JobStatusQuoted     JobStatus = "quoted"
	JobStatusScheduled  JobStatus = "scheduled"
	JobStatusInProgress JobStatus = "in_progress"
	JobStatusDone       JobStatus = "done"
	JobStatusCanceled   JobStatus = "canceled"
)

func (s JobStatus) Valid() bool {
	switch s {
	case JobStatusQuoted, JobStatusScheduled, JobStatusInProgress, JobStatusDone, JobStatusCanceled:
		return true
	}
	return false
}

// Job is a unit of work performed for a client.
type Job struct {
	ID           string // UUID
	UserID       string
	ClientID     string
	Title        string
	Description  string
	Status       JobStatus
	ScheduledFor *time.Time
	AmountKobo   int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func NewJob(id, userID, clientID, title, description string, amountKobo int64, scheduledFor *time.Time) (*Job, error) {
	if id == "" || userID == "" || clientID == "" || title == "" || amountKobo < 0 {
		return nil, domain.ErrInvalidArgument
	}
	now := time.Now().UTC()
	return &Job{
		ID:           id,
		UserID:       userID,
		ClientID:     clientID,
		Title:        title,
		Description:  description,
		Status:       JobStatusQuoted,
		ScheduledFor: scheduledFor,
		AmountKobo:   amountKobo,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}
