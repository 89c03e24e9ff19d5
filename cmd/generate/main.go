package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/forhay123/haybee-edu-sub005/internal/config"
	"github.com/forhay123/haybee-edu-sub005/internal/database"
	"github.com/forhay123/haybee-edu-sub005/internal/repository"
	"github.com/forhay123/haybee-edu-sub005/internal/service"
)

func main() {
	week := flag.Int("week", 0, "Term week number to materialize (default: the week after the current one)")
	classLevel := flag.String("class", "", "Limit materialization to one class level")
	studentID := flag.Int64("student", 0, "Limit materialization to one student")
	expire := flag.Bool("expire", false, "Mark overdue unsubmitted lessons incomplete instead of materializing")
	flag.Parse()

	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Run migrations to ensure schema is up to date
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	termRepo := repository.NewTermRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	templateRepo := repository.NewTemplateRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	progressRepo := repository.NewProgressRepository(db)
	rescheduleRepo := repository.NewRescheduleRepository(db)

	now := time.Now()

	if *expire {
		sweeper := service.NewExpirySweeper(progressRepo, rescheduleRepo)
		count, err := sweeper.MarkOverdueIncomplete(now)
		if err != nil {
			log.Fatalf("Expiry sweep failed: %v", err)
		}
		log.Printf("Expiry sweep complete: %d lessons marked incomplete", count)
		return
	}

	term, err := termRepo.GetActive()
	if err != nil {
		log.Fatalf("No active term: %v", err)
	}

	weekNumber := *week
	if weekNumber == 0 {
		next, err := service.NewTermCalendar().NextWeek(term, now)
		if err != nil {
			log.Fatalf("Cannot determine next week: %v", err)
		}
		weekNumber = next.Number
	}

	log.Printf("Materializing week %d of %s", weekNumber, term.Name)

	materializer := service.NewScheduleMaterializer(templateRepo, scheduleRepo, progressRepo, studentRepo)

	if *studentID != 0 {
		student, err := studentRepo.GetByID(*studentID)
		if err != nil {
			log.Fatalf("Student %d not found: %v", *studentID, err)
		}
		res, err := materializer.MaterializeWeekForStudent(student, term, weekNumber)
		if err != nil {
			log.Fatalf("Materialization failed for %s: %v", student.Name, err)
		}
		log.Printf("Student %s: %d instances created, %d skipped", student.Name, res.InstancesCreated, res.Skipped)
		for _, issue := range res.SequenceIssues {
			log.Printf("Sequence issue: %s", issue)
		}
		return
	}

	var batch *service.BatchResult
	if *classLevel != "" {
		batch, err = materializer.MaterializeWeekForClass(*classLevel, term, weekNumber)
	} else {
		batch, err = materializer.MaterializeWeekForAll(term, weekNumber)
	}
	if err != nil {
		log.Fatalf("Materialization failed: %v", err)
	}

	log.Printf("Materialization complete: %d students processed, %d instances created, %d skipped",
		batch.StudentsProcessed, batch.InstancesCreated, batch.Skipped)
	if len(batch.Failures) > 0 {
		for _, failure := range batch.Failures {
			fmt.Fprintf(os.Stderr, "Failure: %s\n", failure)
		}
		os.Exit(1)
	}
}
