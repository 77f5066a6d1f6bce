package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/apex/log"
	"github.com/google/uuid"

	"safety-assessment-service/config"
	"safety-assessment-service/database"
	"safety-assessment-service/llm"
	"safety-assessment-service/metrics"
	"safety-assessment-service/models"
	"safety-assessment-service/parser"
	"safety-assessment-service/storage"
)

// ErrUpstream marks a failure of an external collaborator (object store,
// inference provider, database) at the transport level.
var ErrUpstream = errors.New("upstream service unavailable")

// EventPublisher sends assessment events to a message broker.
type EventPublisher interface {
	Publish(message interface{}) error
}

// Service orchestrates the image analysis and chat flows. All collaborators
// are injected so tests can substitute fakes.
type Service struct {
	cfg       *config.Config
	db        *database.Database
	store     storage.ObjectStore
	vision    llm.VisionClient
	chat      llm.ChatClient
	publisher EventPublisher
}

// NewService creates a new assessment service. publisher may be nil when no
// broker is configured.
func NewService(cfg *config.Config, db *database.Database, store storage.ObjectStore,
	vision llm.VisionClient, chat llm.ChatClient, publisher EventPublisher) *Service {
	return &Service{
		cfg:       cfg,
		db:        db,
		store:     store,
		vision:    vision,
		chat:      chat,
		publisher: publisher,
	}
}

// AnalyzeRequest carries the upload and its optional geolocation metadata.
type AnalyzeRequest struct {
	UserID       string
	Longitude    *float64
	Latitude     *float64
	LocationName *string
	File         io.Reader
	Size         int64
	ContentType  string
}

// AnalyzeImage runs the full flow: store the image bytes, mint a presigned
// URL, call the vision model, parse the reply, then persist the image and
// its assessment. On a parse failure nothing is persisted and the typed
// error carries the raw model text upward.
func (s *Service) AnalyzeImage(ctx context.Context, req *AnalyzeRequest) (*models.Image, *models.SafetyAssessment, error) {
	start := time.Now()

	result, image, assessment, err := s.analyzeImage(ctx, req)
	metrics.AnalysesTotal.WithLabelValues(result).Inc()
	metrics.AnalysisDurationSeconds.WithLabelValues(result).Observe(time.Since(start).Seconds())

	return image, assessment, err
}

func (s *Service) analyzeImage(ctx context.Context, req *AnalyzeRequest) (result string, image *models.Image, assessment *models.SafetyAssessment, err error) {
	key, err := s.store.Upload(ctx, req.File, req.Size, req.ContentType)
	if err != nil {
		return "upstream_error", nil, nil, fmt.Errorf("%w: image upload: %v", ErrUpstream, err)
	}

	presignedURL, err := s.store.PresignedURL(ctx, key, s.cfg.PresignExpiry)
	if err != nil {
		return "upstream_error", nil, nil, fmt.Errorf("%w: presign: %v", ErrUpstream, err)
	}

	// The inference call has the highest latency variance, so it gets an
	// explicit timeout of its own.
	inferCtx, cancel := context.WithTimeout(ctx, s.cfg.InferenceTimeout)
	defer cancel()

	reply, err := s.vision.AssessImage(inferCtx, presignedURL)
	if err != nil {
		return "upstream_error", nil, nil, fmt.Errorf("%w: vision inference: %v", ErrUpstream, err)
	}

	parsed, err := parser.ParseAssessment(reply)
	if err != nil {
		log.WithField("raw_response", reply).Warn("Vision reply did not match the assessment template")
		return "parse_failure", nil, nil, err
	}

	image = &models.Image{
		ID:           uuid.New().String(),
		UserID:       req.UserID,
		ImageURL:     s.store.ObjectURL(key),
		Longitude:    req.Longitude,
		Latitude:     req.Latitude,
		LocationName: req.LocationName,
	}
	if err := s.db.CreateImage(image); err != nil {
		return "upstream_error", nil, nil, fmt.Errorf("%w: persist image: %v", ErrUpstream, err)
	}

	assessment = &models.SafetyAssessment{
		ID:                     uuid.New().String(),
		ImageID:                image.ID,
		SafetyScore:            parsed.Score,
		MagnitudeSurvivability: parsed.MagnitudeSurvivability,
		Description:            parsed.Description,
	}
	if err := s.db.CreateSafetyAssessment(assessment); err != nil {
		return "upstream_error", nil, nil, fmt.Errorf("%w: persist assessment: %v", ErrUpstream, err)
	}

	s.publishAssessment(image, assessment)

	log.WithField("image_id", image.ID).
		WithField("user_id", req.UserID).
		Info("Saved safety assessment")

	if parsed.Degraded {
		return "degraded", image, assessment, nil
	}
	return "ok", image, assessment, nil
}

// publishAssessment publishes the persisted assessment to the broker.
// Publish failures are logged and counted, never surfaced to the caller.
func (s *Service) publishAssessment(image *models.Image, assessment *models.SafetyAssessment) {
	if s.publisher == nil {
		return
	}

	event := models.AssessmentEvent{Image: *image, Assessment: *assessment}
	if err := s.publisher.Publish(event); err != nil {
		metrics.PublishErrorTotal.Inc()
		log.WithError(err).WithField("image_id", image.ID).Error("Failed to publish assessment event")
	}
}

// Chat sends the prompt to the chat model, splits the reply into answer and
// timing tag, persists the exchange and returns it.
func (s *Service) Chat(ctx context.Context, userID, prompt string) (*models.ChatMessage, error) {
	inferCtx, cancel := context.WithTimeout(ctx, s.cfg.InferenceTimeout)
	defer cancel()

	reply, err := s.chat.Complete(inferCtx, prompt)
	if err != nil {
		metrics.ChatsTotal.WithLabelValues("upstream_error").Inc()
		return nil, fmt.Errorf("%w: chat completion: %v", ErrUpstream, err)
	}

	answer, timing, err := parser.SplitChatReply(reply)
	if err != nil {
		metrics.ChatsTotal.WithLabelValues("parse_failure").Inc()
		log.WithField("raw_response", reply).Warn("Chat reply did not carry a timing tag")
		return nil, err
	}

	message := &models.ChatMessage{
		ID:          uuid.New().String(),
		UserID:      userID,
		Message:     prompt,
		AIResponse:  answer,
		ChatContext: timing,
	}
	if err := s.db.CreateChatMessage(message); err != nil {
		metrics.ChatsTotal.WithLabelValues("upstream_error").Inc()
		return nil, fmt.Errorf("%w: persist chat message: %v", ErrUpstream, err)
	}

	metrics.ChatsTotal.WithLabelValues("ok").Inc()
	return message, nil
}
