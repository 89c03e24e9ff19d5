package service

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/forhay123/haybee-edu-sub005/internal/models"
	"github.com/forhay123/haybee-edu-sub005/internal/repository"
)

const expiryReason = "Assessment window and grace period passed without a submission"

// ExpirySweeper marks overdue, unsubmitted progress rows incomplete
// once their effective grace end has passed. An active reschedule
// replaces the stored window, so rescheduled rows are left for a later
// sweep. Run periodically from the server and on demand from the
// generate CLI.
type ExpirySweeper struct {
	progress    ProgressStore
	reschedules RescheduleStore
}

// NewExpirySweeper creates a new expiry sweeper
func NewExpirySweeper(progress ProgressStore, reschedules RescheduleStore) *ExpirySweeper {
	return &ExpirySweeper{progress: progress, reschedules: reschedules}
}

// MarkOverdueIncomplete sweeps all overdue rows. One row's failure is
// logged and skipped so the rest of the sweep proceeds. Returns the
// number of rows marked.
func (s *ExpirySweeper) MarkOverdueIncomplete(now time.Time) (int, error) {
	rows, err := s.progress.ListOverdueIncomplete(now)
	if err != nil {
		return 0, fmt.Errorf("listing overdue progress: %w", err)
	}

	marked := 0
	for i := range rows {
		row := &rows[i]
		if row.AssessmentID != nil {
			rs, err := s.reschedules.GetActive(row.StudentID, *row.AssessmentID)
			switch {
			case errors.Is(err, repository.ErrNotFound):
			case err != nil:
				log.Printf("Failed to check reschedule for progress %d: %v", row.ID, err)
				continue
			case !now.After(rescheduleGraceEnd(rs)):
				continue
			}
		}
		if err := s.progress.MarkIncomplete(row.ID, expiryReason, now); err != nil {
			log.Printf("Failed to mark progress %d incomplete: %v", row.ID, err)
			continue
		}
		marked++
	}
	return marked, nil
}

func rescheduleGraceEnd(rs *models.AssessmentWindowReschedule) time.Time {
	if rs.NewGraceEnd != nil {
		return *rs.NewGraceEnd
	}
	return rs.NewWindowEnd.Add(GracePeriodMinutes * time.Minute)
}
