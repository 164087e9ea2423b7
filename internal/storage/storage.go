package storage

import (
	"time"

	"rectest/internal/domain"

	"github.com/google/uuid"
)

// Storage persists the last run so review and failed-only reruns can read
// it back.
type Storage interface {
	Save(run *domain.RunRecord) error
	Load() (*domain.RunRecord, error)
}

// BuildRunRecord converts a finished run into its persisted form.
func BuildRunRecord(mode, commandLine string, roots []string, outcomes []domain.Outcome, sum domain.RunSummary, jobs int) *domain.RunRecord {
	run := &domain.RunRecord{
		Meta: domain.RunMeta{
			ID:              uuid.NewString(),
			Mode:            mode,
			Command:         commandLine,
			Roots:           roots,
			Total:           sum.Total,
			Passed:          sum.Pass,
			Failed:          sum.Fail,
			Skipped:         sum.Skip,
			Recorded:        sum.Recorded,
			Jobs:            jobs,
			Duration:        sum.Elapsed.String(),
			DurationSeconds: sum.Elapsed.Seconds(),
			Timestamp:       time.Now().Format(time.RFC3339),
		},
	}

	run.Cases = make([]domain.CaseResult, len(outcomes))
	for i, o := range outcomes {
		c := domain.CaseResult{
			Path:       o.Case.Path,
			Status:     o.Status,
			Reason:     o.Reason,
			Command:    o.Command,
			DurationMS: o.Duration.Milliseconds(),
		}
		if o.Status == domain.StatusFail {
			c.Expected = string(o.Expected)
			c.Actual = string(o.Actual)
		}
		run.Cases[i] = c
	}
	return run
}
