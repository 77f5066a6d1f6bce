package database

import (
	"database/sql"
	"fmt"

	"safety-assessment-service/models"
)

// CreateSafetyAssessment inserts a new assessment row. The caller must have
// parsed the model reply already; a row is never written with fabricated
// defaults in place of the score or survivability.
func (d *Database) CreateSafetyAssessment(assessment *models.SafetyAssessment) error {
	query := `
	INSERT INTO safety_assessments (id, image_id, safety_score, magnitude_survivability, description)
	VALUES (?, ?, ?, ?, ?)`

	_, err := d.db.Exec(query,
		assessment.ID,
		assessment.ImageID,
		assessment.SafetyScore,
		assessment.MagnitudeSurvivability,
		assessment.Description,
	)
	if err != nil {
		return fmt.Errorf("failed to create safety assessment: %w", err)
	}

	return nil
}

// GetAssessmentsByImage returns all assessments for an image, newest first.
func (d *Database) GetAssessmentsByImage(imageID string) ([]models.SafetyAssessment, error) {
	query := `
	SELECT id, image_id, safety_score, magnitude_survivability, description, created_at
	FROM safety_assessments
	WHERE image_id = ?
	ORDER BY created_at DESC`

	rows, err := d.db.Query(query, imageID)
	if err != nil {
		return nil, fmt.Errorf("failed to query assessments for image %s: %w", imageID, err)
	}
	defer rows.Close()

	var assessments []models.SafetyAssessment
	for rows.Next() {
		var (
			assessment    models.SafetyAssessment
			score         sql.NullInt64
			survivability sql.NullString
			description   sql.NullString
		)

		err := rows.Scan(
			&assessment.ID,
			&assessment.ImageID,
			&score,
			&survivability,
			&description,
			&assessment.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan safety assessment: %w", err)
		}

		if score.Valid {
			value := int(score.Int64)
			assessment.SafetyScore = &value
		}
		if survivability.Valid {
			assessment.MagnitudeSurvivability = &survivability.String
		}
		assessment.Description = description.String

		assessments = append(assessments, assessment)
	}

	return assessments, rows.Err()
}
