package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"safety-assessment-service/models"
)

// EmergencyActionRequest is the POST /emergency_actions request body
type EmergencyActionRequest struct {
	UserID      string `json:"user_id" binding:"required"`
	ActionTaken string `json:"action_taken" binding:"required"`
}

// CreateEmergencyAction handles POST /emergency_actions
func (h *Handlers) CreateEmergencyAction(c *gin.Context) {
	var req EmergencyActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id and action_taken are required"})
		return
	}

	action := &models.EmergencyAction{
		ID:          uuid.New().String(),
		UserID:      req.UserID,
		ActionTaken: req.ActionTaken,
	}
	if err := h.db.CreateEmergencyAction(action); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"emergency_action": action})
}

// GetEmergencyActions handles GET /emergency_actions/:user_id
func (h *Handlers) GetEmergencyActions(c *gin.Context) {
	actions, err := h.db.GetEmergencyActionsByUser(c.Param("user_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if actions == nil {
		actions = []models.EmergencyAction{}
	}
	c.JSON(http.StatusOK, gin.H{"emergency_actions": actions})
}

// LocationRiskRequest is the POST /location_risk request body
type LocationRiskRequest struct {
	UserID              string `json:"user_id" binding:"required"`
	EarthquakeRiskLevel string `json:"earthquake_risk_level" binding:"required"`
	ZoneCode            string `json:"zone_code" binding:"required"`
}

// CreateLocationRisk handles POST /location_risk
func (h *Handlers) CreateLocationRisk(c *gin.Context) {
	var req LocationRiskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id, earthquake_risk_level and zone_code are required"})
		return
	}

	record := &models.LocationRiskData{
		ID:                  uuid.New().String(),
		UserID:              req.UserID,
		EarthquakeRiskLevel: req.EarthquakeRiskLevel,
		ZoneCode:            req.ZoneCode,
	}
	if err := h.db.CreateLocationRiskData(record); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"location_risk_data": record})
}

// GetLocationRisk handles GET /location_risk/:user_id
func (h *Handlers) GetLocationRisk(c *gin.Context) {
	records, err := h.db.GetLocationRiskDataByUser(c.Param("user_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if records == nil {
		records = []models.LocationRiskData{}
	}
	c.JSON(http.StatusOK, gin.H{"location_risk_data": records})
}
