package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"

	"safety-assessment-service/database"
	"safety-assessment-service/models"
	"safety-assessment-service/parser"
	"safety-assessment-service/service"
)

// Handlers represents the HTTP handlers
type Handlers struct {
	svc *service.Service
	db  *database.Database
}

// NewHandlers creates new HTTP handlers
func NewHandlers(svc *service.Service, db *database.Database) *Handlers {
	return &Handlers{svc: svc, db: db}
}

// HealthCheck handles health check requests
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "safety-assessment-service",
	})
}

// respondError maps service failures onto the HTTP surface: parse failures
// become 422, missing records 404, everything else 500.
func respondError(c *gin.Context, err error) {
	var parseErr *parser.ParseError
	switch {
	case errors.As(err, &parseErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": parseErr.Error()})
	case errors.Is(err, database.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	default:
		log.WithError(err).Error("Request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// Analyze handles POST /analyze: a multipart image upload with optional
// geolocation metadata, run through the full assessment flow.
func (h *Handlers) Analyze(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	userID := c.PostForm("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}

	longitude, ok := optionalFloat(c, "longitude")
	if !ok {
		return
	}
	latitude, ok := optionalFloat(c, "latitude")
	if !ok {
		return
	}

	var locationName *string
	if name := c.PostForm("location_name"); name != "" {
		locationName = &name
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read uploaded file"})
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}

	_, assessment, err := h.svc.AnalyzeImage(c.Request.Context(), &service.AnalyzeRequest{
		UserID:       userID,
		Longitude:    longitude,
		Latitude:     latitude,
		LocationName: locationName,
		File:         file,
		Size:         fileHeader.Size,
		ContentType:  contentType,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"analysis": gin.H{
			"Description":             assessment.Description,
			"Score":                   assessment.SafetyScore,
			"Magnitude Survivability": assessment.MagnitudeSurvivability,
		},
	})
}

// optionalFloat reads an optional float form field. A malformed value aborts
// the request with 400.
func optionalFloat(c *gin.Context, field string) (*float64, bool) {
	raw := c.PostForm(field)
	if raw == "" {
		return nil, true
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + field})
		return nil, false
	}
	return &value, true
}

// GetImages handles GET /images
func (h *Handlers) GetImages(c *gin.Context) {
	images, err := h.db.GetImages()
	if err != nil {
		respondError(c, err)
		return
	}
	if images == nil {
		images = []models.Image{}
	}
	c.JSON(http.StatusOK, gin.H{"images": images})
}

// GetImagesByUser handles GET /images/user/:user_id
func (h *Handlers) GetImagesByUser(c *gin.Context) {
	images, err := h.db.GetImagesByUser(c.Param("user_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if images == nil {
		images = []models.Image{}
	}
	c.JSON(http.StatusOK, gin.H{"images": images})
}

// GetImage handles GET /image/:image_id
func (h *Handlers) GetImage(c *gin.Context) {
	image, err := h.db.GetImageByID(c.Param("image_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"image": image})
}

// GetSafetyAssessments handles GET /safety_assessments/:image_id. An unknown
// image id is a 404; an image with no assessments yet is an empty list.
func (h *Handlers) GetSafetyAssessments(c *gin.Context) {
	imageID := c.Param("image_id")

	exists, err := h.db.ImageExists(imageID)
	if err != nil {
		respondError(c, err)
		return
	}
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "image not found"})
		return
	}

	assessments, err := h.db.GetAssessmentsByImage(imageID)
	if err != nil {
		respondError(c, err)
		return
	}
	if assessments == nil {
		assessments = []models.SafetyAssessment{}
	}
	c.JSON(http.StatusOK, gin.H{"safety_assessments": assessments})
}

// ChatRequest is the POST /chat request body
type ChatRequest struct {
	UserID string `json:"user_id" binding:"required"`
	Prompt string `json:"prompt" binding:"required"`
}

// Chat handles POST /chat
func (h *Handlers) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id and prompt are required"})
		return
	}

	message, err := h.svc.Chat(c.Request.Context(), req.UserID, req.Prompt)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ai_response": message.AIResponse,
		"context":     message.ChatContext,
	})
}

// GetChatMessages handles GET /chat_messages/:user_id
func (h *Handlers) GetChatMessages(c *gin.Context) {
	messages, err := h.db.GetChatMessagesByUser(c.Param("user_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if messages == nil {
		messages = []models.ChatMessage{}
	}
	c.JSON(http.StatusOK, gin.H{"chat_messages": messages})
}
