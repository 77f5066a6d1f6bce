package database

import (
	"fmt"

	"safety-assessment-service/models"
)

// CreateChatMessage appends one chat exchange to the log.
func (d *Database) CreateChatMessage(message *models.ChatMessage) error {
	query := `
	INSERT INTO chat_messages (id, user_id, message, ai_response, chat_context)
	VALUES (?, ?, ?, ?, ?)`

	_, err := d.db.Exec(query,
		message.ID,
		message.UserID,
		message.Message,
		message.AIResponse,
		message.ChatContext,
	)
	if err != nil {
		return fmt.Errorf("failed to create chat message: %w", err)
	}

	return nil
}

// GetChatMessagesByUser returns a user's chat log, oldest first.
func (d *Database) GetChatMessagesByUser(userID string) ([]models.ChatMessage, error) {
	query := `
	SELECT id, user_id, message, ai_response, chat_context, created_at
	FROM chat_messages
	WHERE user_id = ?
	ORDER BY created_at ASC`

	rows, err := d.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query chat messages for user %s: %w", userID, err)
	}
	defer rows.Close()

	var messages []models.ChatMessage
	for rows.Next() {
		var message models.ChatMessage
		err := rows.Scan(
			&message.ID,
			&message.UserID,
			&message.Message,
			&message.AIResponse,
			&message.ChatContext,
			&message.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan chat message: %w", err)
		}
		messages = append(messages, message)
	}

	return messages, rows.Err()
}

// CreateEmergencyAction appends one emergency action to the log.
func (d *Database) CreateEmergencyAction(action *models.EmergencyAction) error {
	query := `
	INSERT INTO emergency_actions (id, user_id, action_taken)
	VALUES (?, ?, ?)`

	_, err := d.db.Exec(query, action.ID, action.UserID, action.ActionTaken)
	if err != nil {
		return fmt.Errorf("failed to create emergency action: %w", err)
	}

	return nil
}

// GetEmergencyActionsByUser returns a user's emergency actions, newest first.
func (d *Database) GetEmergencyActionsByUser(userID string) ([]models.EmergencyAction, error) {
	query := `
	SELECT id, user_id, action_taken, created_at
	FROM emergency_actions
	WHERE user_id = ?
	ORDER BY created_at DESC`

	rows, err := d.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query emergency actions for user %s: %w", userID, err)
	}
	defer rows.Close()

	var actions []models.EmergencyAction
	for rows.Next() {
		var action models.EmergencyAction
		err := rows.Scan(&action.ID, &action.UserID, &action.ActionTaken, &action.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan emergency action: %w", err)
		}
		actions = append(actions, action)
	}

	return actions, rows.Err()
}

// CreateLocationRiskData inserts seismic risk information for a user's location.
func (d *Database) CreateLocationRiskData(data *models.LocationRiskData) error {
	query := `
	INSERT INTO location_risk_data (id, user_id, earthquake_risk_level, zone_code)
	VALUES (?, ?, ?, ?)`

	_, err := d.db.Exec(query, data.ID, data.UserID, data.EarthquakeRiskLevel, data.ZoneCode)
	if err != nil {
		return fmt.Errorf("failed to create location risk data: %w", err)
	}

	return nil
}

// GetLocationRiskDataByUser returns risk records for a user, newest first.
func (d *Database) GetLocationRiskDataByUser(userID string) ([]models.LocationRiskData, error) {
	query := `
	SELECT id, user_id, earthquake_risk_level, zone_code, created_at
	FROM location_risk_data
	WHERE user_id = ?
	ORDER BY created_at DESC`

	rows, err := d.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query location risk data for user %s: %w", userID, err)
	}
	defer rows.Close()

	var records []models.LocationRiskData
	for rows.Next() {
		var record models.LocationRiskData
		err := rows.Scan(&record.ID, &record.UserID, &record.EarthquakeRiskLevel,
			&record.ZoneCode, &record.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan location risk data: %w", err)
		}
		records = append(records, record)
	}

	return records, rows.Err()
}
