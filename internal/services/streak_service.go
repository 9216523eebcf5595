package services

import (
	"context"
	"fmt"
	"time"

	"github.com/Dias221467/Growth_Platform/internal/models"
	"github.com/Dias221467/Growth_Platform/pkg/logger"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Streaks of at least this length get an at-risk reminder; shorter ones are
// not worth nagging about.
const minStreakForReminder = 3

// StreakStore is the persistence contract for learning streaks.
type StreakStore interface {
	GetOrCreate(ctx context.Context, userID primitive.ObjectID) (*models.LearningStreak, error)
	Save(ctx context.Context, streak *models.LearningStreak) error
	FindAtRisk(ctx context.Context, day time.Time, minStreak int) ([]models.LearningStreak, error)
}

// StreakService maintains per-user consecutive-day activity counters and
// emits reminders for streaks about to break.
type StreakService struct {
	streaks StreakStore
	gate    NotificationGate
	loc     *time.Location
}

func NewStreakService(streaks StreakStore, gate NotificationGate, loc *time.Location) *StreakService {
	return &StreakService{
		streaks: streaks,
		gate:    gate,
		loc:     loc,
	}
}

// GetStreak returns the user's streak record, creating it if absent.
func (s *StreakService) GetStreak(ctx context.Context, userID primitive.ObjectID) (*models.LearningStreak, error) {
	return s.streaks.GetOrCreate(ctx, userID)
}

// RecordActivity counts one qualifying activity for the user on the day of
// the given instant. Multiple activities on the same day are idempotent.
// When a gap breaks a meaningful streak the user is told about it.
func (s *StreakService) RecordActivity(ctx context.Context, now time.Time, userID primitive.ObjectID) (*models.LearningStreak, error) {
	streak, err := s.streaks.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	previous := streak.CurrentStreak
	event := streak.RecordActivity(now.In(s.loc))
	if event == models.StreakUnchanged {
		return streak, nil
	}

	if err := s.streaks.Save(ctx, streak); err != nil {
		return nil, err
	}

	if event == models.StreakReset && previous >= minStreakForReminder {
		_, err := s.gate.AttemptCreate(ctx, now, NotificationInput{
			UserID:   userID,
			Category: models.CategoryStreakBroken,
			Title:    "Streak Ended",
			Message:  fmt.Sprintf("Your %d-day learning streak has ended, but today is day one of a new one. Keep going!", previous),
			Priority: models.PriorityMedium,
			Dedup:    true,
		})
		if err != nil {
			logger.Log.WithError(err).WithField("user_id", userID.Hex()).Warn("Failed to send streak broken notification")
		}
	}

	logger.Log.WithFields(logrus.Fields{
		"user_id":        userID.Hex(),
		"current_streak": streak.CurrentStreak,
		"longest_streak": streak.LongestStreak,
	}).Info("Streak activity recorded")
	return streak, nil
}

// RunStreakReminderScan finds users with a meaningful streak who have not
// been active today and reminds them once. The per-day dedup key keeps
// repeated scans from nagging twice.
func (s *StreakService) RunStreakReminderScan(ctx context.Context, today time.Time) (ScanReport, error) {
	var report ScanReport
	today = today.In(s.loc)

	atRisk, err := s.streaks.FindAtRisk(ctx, today, minStreakForReminder)
	if err != nil {
		return report, fmt.Errorf("failed to fetch at-risk streaks: %v", err)
	}

	for _, streak := range atRisk {
		created, err := s.gate.AttemptCreate(ctx, today, NotificationInput{
			UserID:     streak.UserID,
			Category:   models.CategoryStreakReminder,
			Title:      "Don't Break Your Streak!",
			Message:    fmt.Sprintf("You have a %d-day learning streak. Learn something today to keep it going!", streak.CurrentStreak),
			Priority:   models.PriorityHigh,
			ActionURL:  "/pathways",
			ActionText: "Start Learning",
			Dedup:      true,
		})
		if err != nil {
			logger.Log.WithError(err).WithField("user_id", streak.UserID.Hex()).Warn("Failed to send streak reminder")
			report.Failed++
			continue
		}
		if created == nil {
			report.Suppressed++
			continue
		}
		report.Created++
	}

	logger.Log.WithFields(logrus.Fields{
		"created":    report.Created,
		"suppressed": report.Suppressed,
		"failed":     report.Failed,
	}).Info("Streak reminder scan completed")
	return report, nil
}
