package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"safety-assessment-service/config"
	"safety-assessment-service/database"
	"safety-assessment-service/models"
	"safety-assessment-service/parser"
)

type fakeStore struct {
	uploaded   []byte
	failUpload bool
}

func (f *fakeStore) Upload(_ context.Context, reader io.Reader, _ int64, _ string) (string, error) {
	if f.failUpload {
		return "", errors.New("connection refused")
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	f.uploaded = data
	return "test-key.jpg", nil
}

func (f *fakeStore) PresignedURL(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://store.example/bucket/" + key + "?signed=1", nil
}

func (f *fakeStore) ObjectURL(key string) string {
	return "https://store.example/bucket/" + key
}

type fakeVision struct {
	reply string
	err   error
	seen  string
}

func (f *fakeVision) AssessImage(_ context.Context, imageURL string) (string, error) {
	f.seen = imageURL
	return f.reply, f.err
}

func (f *fakeVision) SourceName() string { return "fake-vision" }

type fakeChat struct {
	reply string
	err   error
}

func (f *fakeChat) Complete(_ context.Context, _ string) (string, error) {
	return f.reply, f.err
}

func (f *fakeChat) SourceName() string { return "fake-chat" }

type fakePublisher struct {
	events []interface{}
}

func (f *fakePublisher) Publish(message interface{}) error {
	f.events = append(f.events, message)
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		PresignExpiry:    5 * time.Minute,
		InferenceTimeout: time.Second,
	}
}

func newTestService(t *testing.T, vision *fakeVision, chat *fakeChat) (*Service, sqlmock.Sqlmock, *fakeStore, *fakePublisher) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store := &fakeStore{}
	publisher := &fakePublisher{}
	svc := NewService(testConfig(), database.NewWithDB(db), store, vision, chat, publisher)
	return svc, mock, store, publisher
}

func analyzeRequest() *AnalyzeRequest {
	return &AnalyzeRequest{
		UserID:      "u1",
		File:        bytes.NewReader([]byte("jpeg-bytes")),
		Size:        10,
		ContentType: "image/jpeg",
	}
}

func TestAnalyzeImagePersistsParsedAssessment(t *testing.T) {
	vision := &fakeVision{reply: "Description: clear exits\nScore: 82/100\nMagnitude Survivability: 7.0-7.5"}
	svc, mock, store, publisher := newTestService(t, vision, &fakeChat{})

	mock.ExpectExec("INSERT INTO images").
		WithArgs(sqlmock.AnyArg(), "u1", "https://store.example/bucket/test-key.jpg", nil, nil, nil).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO safety_assessments").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), 82, "7.5", "clear exits").
		WillReturnResult(sqlmock.NewResult(0, 1))

	image, assessment, err := svc.AnalyzeImage(context.Background(), analyzeRequest())
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	assert.Equal(t, []byte("jpeg-bytes"), store.uploaded)
	assert.Equal(t, "https://store.example/bucket/test-key.jpg?signed=1", vision.seen)

	assert.Equal(t, "u1", image.UserID)
	assert.Equal(t, image.ID, assessment.ImageID)
	require.NotNil(t, assessment.SafetyScore)
	assert.Equal(t, 82, *assessment.SafetyScore)
	require.NotNil(t, assessment.MagnitudeSurvivability)
	assert.Equal(t, "7.5", *assessment.MagnitudeSurvivability)
	assert.Equal(t, "clear exits", assessment.Description)

	require.Len(t, publisher.events, 1)
	event, ok := publisher.events[0].(models.AssessmentEvent)
	require.True(t, ok)
	assert.Equal(t, assessment.ID, event.Assessment.ID)
}

func TestAnalyzeImageParseFailurePersistsNothing(t *testing.T) {
	vision := &fakeVision{reply: "Description: blocked exits\nScore: unknown"}
	svc, mock, _, publisher := newTestService(t, vision, &fakeChat{})

	_, _, err := svc.AnalyzeImage(context.Background(), analyzeRequest())
	require.Error(t, err)

	var parseErr *parser.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, vision.reply, parseErr.Raw)

	// No INSERT expectations were registered; any write would fail the mock.
	assert.NoError(t, mock.ExpectationsWereMet())
	assert.Empty(t, publisher.events)
}

func TestAnalyzeImageUpstreamFailure(t *testing.T) {
	vision := &fakeVision{err: errors.New("status 503")}
	svc, mock, _, publisher := newTestService(t, vision, &fakeChat{})

	_, _, err := svc.AnalyzeImage(context.Background(), analyzeRequest())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUpstream)
	assert.NoError(t, mock.ExpectationsWereMet())
	assert.Empty(t, publisher.events)
}

func TestAnalyzeImageUploadFailure(t *testing.T) {
	svc, mock, store, _ := newTestService(t, &fakeVision{reply: "unused"}, &fakeChat{})
	store.failUpload = true

	_, _, err := svc.AnalyzeImage(context.Background(), analyzeRequest())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUpstream)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChatPersistsExchange(t *testing.T) {
	chat := &fakeChat{reply: "Drop and cover.\n\nTiming: during"}
	svc, mock, _, _ := newTestService(t, &fakeVision{}, chat)

	mock.ExpectExec("INSERT INTO chat_messages").
		WithArgs(sqlmock.AnyArg(), "u1", "what should I do?", "Drop and cover.", "during").
		WillReturnResult(sqlmock.NewResult(0, 1))

	message, err := svc.Chat(context.Background(), "u1", "what should I do?")
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	assert.Equal(t, "Drop and cover.", message.AIResponse)
	assert.Equal(t, "during", message.ChatContext)
}

func TestChatMissingTimingTag(t *testing.T) {
	chat := &fakeChat{reply: "Drop and cover."}
	svc, mock, _, _ := newTestService(t, &fakeVision{}, chat)

	_, err := svc.Chat(context.Background(), "u1", "what should I do?")
	require.Error(t, err)

	var parseErr *parser.ParseError
	assert.ErrorAs(t, err, &parseErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}
