// Package seed loads the demo coach roster, the quiz and a week of coach
// availability into an empty database.
package seed

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/saeid-a/CoachMatchBack/internal/repository"
	"github.com/saeid-a/CoachMatchBack/pkg/utils"
	"go.uber.org/zap"
)

//go:embed data/*.sql
var dataFS embed.FS

const (
	SlotDays     = 7
	slotDuration = time.Hour
)

// slotStartHours are local wall-clock hours in the coach's timezone.
var slotStartHours = []int{9, 11, 14, 16}

type txBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

type cacheInvalidator interface {
	Invalidate(ctx context.Context) error
}

type Result struct {
	Skipped   bool
	Coaches   int
	Questions int
	Slots     int
}

// Run seeds coaches, quiz questions and slots in one transaction. It does
// nothing when either the coaches or the quiz table already has rows. cache
// may be nil.
func Run(ctx context.Context, db txBeginner, cache cacheInvalidator, now time.Time, logger *zap.Logger) (*Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin seed transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	coachRepo := repository.NewCoachRepository(tx)
	quizRepo := repository.NewQuizRepository(tx)
	slotRepo := repository.NewSlotRepository(tx)

	coachCount, err := coachRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count coaches: %w", err)
	}
	questionCount, err := quizRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count quiz questions: %w", err)
	}
	if coachCount > 0 || questionCount > 0 {
		logger.Info("database already has data, skipping seed",
			zap.Int("coaches", coachCount),
			zap.Int("questions", questionCount),
		)
		return &Result{Skipped: true}, nil
	}

	files, err := fs.Glob(dataFS, "data/*.sql")
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	for _, file := range files {
		statement, err := dataFS.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", file, err)
		}
		// No arguments, so pgx sends the file over the simple protocol and
		// multiple statements are allowed.
		if _, err := tx.Exec(ctx, string(statement)); err != nil {
			return nil, fmt.Errorf("load %s: %w", file, err)
		}
		logger.Info("seed file loaded", zap.String("file", file))
	}

	coaches, err := coachRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list seeded coaches: %w", err)
	}

	result := &Result{Coaches: len(coaches)}
	for _, coach := range coaches {
		loc, err := utils.LoadTimezone(coach.Timezone)
		if err != nil {
			return nil, fmt.Errorf("coach %s timezone: %w", coach.ID, err)
		}
		for _, start := range SlotStarts(now, loc, SlotDays) {
			if _, err := slotRepo.Create(ctx, repository.CreateSlotInput{
				CoachID:   coach.ID,
				StartTime: start,
				EndTime:   start.Add(slotDuration),
				Timezone:  coach.Timezone,
			}); err != nil {
				return nil, fmt.Errorf("create slot for coach %s: %w", coach.ID, err)
			}
			result.Slots++
		}
	}

	if result.Questions, err = quizRepo.Count(ctx); err != nil {
		return nil, fmt.Errorf("count seeded questions: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit seed: %w", err)
	}

	if cache != nil {
		if err := cache.Invalidate(ctx); err != nil {
			logger.Warn("coach cache invalidation failed", zap.Error(err))
		}
	}

	logger.Info("seed complete",
		zap.Int("coaches", result.Coaches),
		zap.Int("questions", result.Questions),
		zap.Int("slots", result.Slots),
	)
	return result, nil
}

// SlotStarts returns the UTC start instants of the daily slots for the given
// number of days, beginning with today in loc. Starts not after now are left
// out.
func SlotStarts(now time.Time, loc *time.Location, days int) []time.Time {
	if loc == nil {
		loc = time.UTC
	}

	local := now.In(loc)
	starts := make([]time.Time, 0, days*len(slotStartHours))
	for day := 0; day < days; day++ {
		date := local.AddDate(0, 0, day)
		for _, hour := range slotStartHours {
			start := time.Date(date.Year(), date.Month(), date.Day(), hour, 0, 0, 0, loc)
			if !start.After(now) {
				continue
			}
			starts = append(starts, start.UTC())
		}
	}
	return starts
}
