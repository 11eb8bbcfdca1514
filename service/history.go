// Package service holds the application services above the repositories.
package service

import (
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vector81/Jobby/model"
	"github.com/vector81/Jobby/repository"
	"github.com/vector81/Jobby/worker/apply"
)

// HistoryService writes the attempt ledger and answers summary queries over
// it. The ledger is observational: a write failure is logged and the run
// carries on, the same policy as every other persistence path.
type HistoryService struct {
	attemptRepo repository.AttemptRepository
}

func NewHistoryService(attemptRepo repository.AttemptRepository) *HistoryService {
	return &HistoryService{attemptRepo: attemptRepo}
}

// RecordAttempt appends one ledger row for a finished attempt.
func (s *HistoryService) RecordAttempt(runID string, job *model.Job, res apply.Result, startedAt time.Time) {
	row := &model.ApplicationAttemptEntity{
		RunID:      runID,
		Platform:   job.Platform,
		Keyword:    job.Keyword,
		JobURL:     job.URL,
		JobTitle:   job.Title,
		Company:    job.Company,
		Outcome:    string(res.Outcome),
		Steps:      res.Steps,
		Answered:   len(res.Answered),
		StartedAt:  startedAt,
		FinishedAt: time.Now(),
	}
	if err := s.attemptRepo.Save(row); err != nil {
		log.Warnf("attempt ledger write: %v", err)
	}
}

// RunSummary counts a run's terminal outcomes.
func (s *HistoryService) RunSummary(runID string) (submitted, abandoned int64, err error) {
	if submitted, err = s.attemptRepo.CountByOutcome(runID, model.OutcomeSubmitted); err != nil {
		return 0, 0, err
	}
	if abandoned, err = s.attemptRepo.CountByOutcome(runID, model.OutcomeAbandoned); err != nil {
		return 0, 0, err
	}
	return submitted, abandoned, nil
}

// History returns every recorded attempt against a job, newest first.
func (s *HistoryService) History(jobURL string) ([]*model.ApplicationAttemptEntity, error) {
	return s.attemptRepo.FindByJobURL(jobURL)
}
