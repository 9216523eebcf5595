package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/Dias221467/Growth_Platform/internal/services"
	"github.com/Dias221467/Growth_Platform/pkg/logger"
	"github.com/Dias221467/Growth_Platform/pkg/middleware"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type StreakHandler struct {
	Service *services.StreakService
}

func NewStreakHandler(service *services.StreakService) *StreakHandler {
	return &StreakHandler{Service: service}
}

// POST /streaks/activity
func (h *StreakHandler) RecordActivityHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	streak, err := h.Service.RecordActivity(r.Context(), time.Now(), userID)
	if err != nil {
		logger.Log.Errorf("Failed to record streak activity: %v", err)
		http.Error(w, "Failed to record activity", http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(streak)
}

// GET /streaks/me
func (h *StreakHandler) GetStreakHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	userID, _ := primitive.ObjectIDFromHex(claims.UserID)
	streak, err := h.Service.GetStreak(r.Context(), userID)
	if err != nil {
		logger.Log.Errorf("Failed to fetch streak: %v", err)
		http.Error(w, "Failed to get streak", http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(streak)
}
