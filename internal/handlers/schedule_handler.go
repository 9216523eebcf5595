package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Dias221467/Growth_Platform/internal/models"
	"github.com/Dias221467/Growth_Platform/internal/services"
	"github.com/Dias221467/Growth_Platform/pkg/logger"
	"github.com/Dias221467/Growth_Platform/pkg/middleware"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ScheduleHandler struct {
	Service *services.ScheduleService
}

func NewScheduleHandler(service *services.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{Service: service}
}

// POST /schedules
func (h *ScheduleHandler) CreateScheduleHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var schedule models.NotificationSchedule
	if err := json.NewDecoder(r.Body).Decode(&schedule); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	userID, _ := primitive.ObjectIDFromHex(claims.UserID)
	schedule.UserID = userID
	schedule.IsActive = true

	created, err := h.Service.CreateSchedule(r.Context(), &schedule)
	if err != nil {
		logger.Log.Errorf("Failed to create schedule: %v", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(created)
}

// GET /schedules
func (h *ScheduleHandler) GetSchedulesHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	userID, _ := primitive.ObjectIDFromHex(claims.UserID)
	schedules, err := h.Service.GetUserSchedules(r.Context(), userID)
	if err != nil {
		logger.Log.Errorf("Failed to fetch schedules: %v", err)
		http.Error(w, "Failed to get schedules", http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(schedules)
}

// DELETE /schedules/{id}
func (h *ScheduleHandler) DeactivateScheduleHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	userID, _ := primitive.ObjectIDFromHex(claims.UserID)
	vars := mux.Vars(r)
	scheduleID, err := primitive.ObjectIDFromHex(vars["id"])
	if err != nil {
		http.Error(w, "Invalid schedule ID", http.StatusBadRequest)
		return
	}

	if err := h.Service.DeactivateSchedule(r.Context(), scheduleID, userID); err != nil {
		logger.Log.Errorf("Failed to deactivate schedule: %v", err)
		http.Error(w, "Failed to deactivate schedule", http.StatusNotFound)
		return
	}

	json.NewEncoder(w).Encode(map[string]string{"message": "Schedule deactivated"})
}
