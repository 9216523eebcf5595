package cron

import (
	"context"
	"time"

	"github.com/Dias221467/Growth_Platform/internal/jobs"
	"github.com/Dias221467/Growth_Platform/internal/services"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// StartNotificationCronJobs wires the engine's entry points to the periodic
// scheduler. Every job passes the current instant explicitly so the engine
// itself never consults the wall clock.
func StartNotificationCronJobs(
	deadlines *jobs.DeadlineNotifier,
	pathways *jobs.PathwayNotifier,
	schedules *services.ScheduleService,
	streaks *services.StreakService,
	notifications *services.NotificationService,
	loc *time.Location,
) *cron.Cron {
	c := cron.New(cron.WithLocation(loc))

	// Recurring schedules, hourly.
	c.AddFunc("@hourly", func() {
		if _, err := schedules.RunScheduleEvaluation(context.Background(), time.Now().In(loc)); err != nil {
			logrus.WithError(err).Error("Schedule evaluation failed")
		}
	})

	// Pending scheduled notifications, hourly.
	c.AddFunc("@hourly", func() {
		if _, err := notifications.ProcessScheduled(context.Background(), time.Now().In(loc)); err != nil {
			logrus.WithError(err).Error("Scheduled notification dispatch failed")
		}
	})

	// Goal deadlines, every morning.
	c.AddFunc("0 8 * * *", func() {
		if _, err := deadlines.RunDeadlineScan(context.Background(), time.Now().In(loc)); err != nil {
			logrus.WithError(err).Error("Deadline scan failed")
		}
	})

	// Idle pathways, mid-morning.
	c.AddFunc("0 10 * * *", func() {
		if _, err := pathways.RunPathwayReminderScan(context.Background(), time.Now().In(loc)); err != nil {
			logrus.WithError(err).Error("Pathway reminder scan failed")
		}
	})

	// At-risk streaks, in the evening while the day can still be saved.
	c.AddFunc("0 18 * * *", func() {
		if _, err := streaks.RunStreakReminderScan(context.Background(), time.Now().In(loc)); err != nil {
			logrus.WithError(err).Error("Streak reminder scan failed")
		}
	})

	// Expired notification cleanup, nightly.
	c.AddFunc("0 3 * * *", func() {
		if _, err := notifications.SweepExpired(context.Background(), time.Now().In(loc)); err != nil {
			logrus.WithError(err).Error("Expired notification sweep failed")
		}
	})

	c.Start()
	return c
}
