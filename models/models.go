package models

import "time"

// Image represents an uploaded user image with optional geolocation
type Image struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	ImageURL     string    `json:"image_url"`
	Longitude    *float64  `json:"longitude,omitempty"`
	Latitude     *float64  `json:"latitude,omitempty"`
	LocationName *string   `json:"location_name,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// SafetyAssessment represents a structured earthquake-safety assessment of an image.
// SafetyScore and MagnitudeSurvivability are nil for degraded records; they are
// never defaulted to 0 or "".
type SafetyAssessment struct {
	ID                     string    `json:"id"`
	ImageID                string    `json:"image_id"`
	SafetyScore            *int      `json:"safety_score"`
	MagnitudeSurvivability *string   `json:"magnitude_survivability"`
	Description            string    `json:"description"`
	CreatedAt              time.Time `json:"created_at"`
}

// ChatMessage represents one exchange with the chat assistant
type ChatMessage struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Message     string    `json:"message"`
	AIResponse  string    `json:"ai_response"`
	ChatContext string    `json:"chat_context"`
	CreatedAt   time.Time `json:"created_at"`
}

// EmergencyAction represents an action a user reported taking during an emergency
type EmergencyAction struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	ActionTaken string    `json:"action_taken"`
	CreatedAt   time.Time `json:"created_at"`
}

// LocationRiskData represents seismic risk information for a user's location
type LocationRiskData struct {
	ID                  string    `json:"id"`
	UserID              string    `json:"user_id"`
	EarthquakeRiskLevel string    `json:"earthquake_risk_level"`
	ZoneCode            string    `json:"zone_code"`
	CreatedAt           time.Time `json:"created_at"`
}

// AssessmentEvent is published to the message broker after an assessment is persisted
type AssessmentEvent struct {
	Image      Image            `json:"image"`
	Assessment SafetyAssessment `json:"assessment"`
}
