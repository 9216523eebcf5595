package delivery

import (
	"context"

	"github.com/Dias221467/Growth_Platform/internal/models"
	"github.com/Dias221467/Growth_Platform/pkg/logger"
	"github.com/sirupsen/logrus"
)

// LogChannel is the in-app delivery channel: the notification already lives
// in the ledger, so delivery amounts to recording that it was handed off.
type LogChannel struct{}

func NewLogChannel() *LogChannel {
	return &LogChannel{}
}

func (c *LogChannel) Deliver(_ context.Context, notif *models.Notification) error {
	logger.Log.WithFields(logrus.Fields{
		"notification_id": notif.ID.Hex(),
		"user_id":         notif.UserID.Hex(),
		"category":        notif.Category,
		"priority":        notif.Priority,
	}).Info("Notification delivered in-app")
	return nil
}
