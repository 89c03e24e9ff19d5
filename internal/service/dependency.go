package service

import (
	"errors"
	"fmt"

	"github.com/forhay123/haybee-edu-sub005/internal/models"
	"github.com/forhay123/haybee-edu-sub005/internal/repository"
)

// PeriodDependencyGate decides whether a student may enter a period of
// a multi-period lesson. The predecessor requirement only applies when
// both periods fall in the same Monday-start calendar week; a
// predecessor left over from an earlier week never blocks.
type PeriodDependencyGate struct {
	progress ProgressStore
}

// NewPeriodDependencyGate creates a new period dependency gate
func NewPeriodDependencyGate(progress ProgressStore) *PeriodDependencyGate {
	return &PeriodDependencyGate{progress: progress}
}

// CanAccessPeriod evaluates one progress record against its
// prerequisites. Denials are decisions, not errors; an error means a
// lookup failed.
func (g *PeriodDependencyGate) CanAccessPeriod(progress *models.StudentLessonProgress) (models.PeriodAccessDecision, error) {
	if progress.HasPreviousPeriod() {
		previous, err := g.progress.GetByID(*progress.PreviousPeriodProgressID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return models.PeriodAccessDecision{}, fmt.Errorf("loading previous period: %w", err)
		}
		if previous != nil &&
			models.SameCalendarWeek(previous.ScheduledDate, progress.ScheduledDate) &&
			!previous.Completed {
			requirement := fmt.Sprintf("Complete Period %d", previous.SequenceOrDefault())
			return models.BlockedPeriod(
				fmt.Sprintf("You must complete Period %d of this lesson first", previous.SequenceOrDefault()),
				&previous.ID, requirement), nil
		}
	}

	if progress.RequiresCustomAssessment && progress.AssessmentID == nil {
		return models.BlockedPeriod(
			"This period needs an assessment created by your teacher",
			nil, "Teacher must create custom assessment"), nil
	}

	if progress.AssessmentID == nil {
		return models.BlockedPeriod(
			"No assessment has been assigned to this period yet",
			nil, "Assessment must be assigned"), nil
	}

	return models.AllowedPeriod(), nil
}

// GetDependencyChain walks the previous-period links back from a
// progress record, oldest last. A visited set bounds the walk so a
// malformed cycle cannot loop forever.
func (g *PeriodDependencyGate) GetDependencyChain(progress *models.StudentLessonProgress) ([]models.StudentLessonProgress, error) {
	var chain []models.StudentLessonProgress
	visited := map[int64]bool{progress.ID: true}

	current := progress
	for current.HasPreviousPeriod() {
		prevID := *current.PreviousPeriodProgressID
		if visited[prevID] {
			return chain, fmt.Errorf("dependency cycle at progress %d", prevID)
		}
		visited[prevID] = true

		previous, err := g.progress.GetByID(prevID)
		if errors.Is(err, repository.ErrNotFound) {
			return chain, nil
		}
		if err != nil {
			return chain, fmt.Errorf("loading progress %d: %w", prevID, err)
		}
		chain = append(chain, *previous)
		current = previous
	}
	return chain, nil
}

// AreAllDependenciesSatisfied reports whether every same-week
// predecessor in the chain is completed.
func (g *PeriodDependencyGate) AreAllDependenciesSatisfied(progress *models.StudentLessonProgress) (bool, error) {
	chain, err := g.GetDependencyChain(progress)
	if err != nil {
		return false, err
	}
	for i := range chain {
		if !models.SameCalendarWeek(chain[i].ScheduledDate, progress.ScheduledDate) {
			continue
		}
		if !chain[i].Completed {
			return false, nil
		}
	}
	return true, nil
}
