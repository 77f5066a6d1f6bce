package database

import (
	"database/sql"
	"fmt"

	"safety-assessment-service/models"
)

// CreateImage inserts a new image row. Images are immutable after creation.
func (d *Database) CreateImage(image *models.Image) error {
	query := `
	INSERT INTO images (id, user_id, image_url, longitude, latitude, location_name)
	VALUES (?, ?, ?, ?, ?, ?)`

	_, err := d.db.Exec(query,
		image.ID,
		image.UserID,
		image.ImageURL,
		image.Longitude,
		image.Latitude,
		image.LocationName,
	)
	if err != nil {
		return fmt.Errorf("failed to create image: %w", err)
	}

	return nil
}

// GetImages returns all images, newest first.
func (d *Database) GetImages() ([]models.Image, error) {
	query := `
	SELECT id, user_id, image_url, longitude, latitude, location_name, created_at
	FROM images
	ORDER BY created_at DESC`

	rows, err := d.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query images: %w", err)
	}
	defer rows.Close()

	return scanImages(rows)
}

// GetImagesByUser returns all images uploaded by a specific user, newest first.
func (d *Database) GetImagesByUser(userID string) ([]models.Image, error) {
	query := `
	SELECT id, user_id, image_url, longitude, latitude, location_name, created_at
	FROM images
	WHERE user_id = ?
	ORDER BY created_at DESC`

	rows, err := d.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query images for user %s: %w", userID, err)
	}
	defer rows.Close()

	return scanImages(rows)
}

// GetImageByID returns a single image or ErrNotFound.
func (d *Database) GetImageByID(imageID string) (*models.Image, error) {
	query := `
	SELECT id, user_id, image_url, longitude, latitude, location_name, created_at
	FROM images
	WHERE id = ?`

	image, err := scanImage(d.db.QueryRow(query, imageID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch image %s: %w", imageID, err)
	}

	return image, nil
}

// ImageExists reports whether an image row exists for the given id.
func (d *Database) ImageExists(imageID string) (bool, error) {
	var count int
	err := d.db.QueryRow(`SELECT COUNT(*) FROM images WHERE id = ?`, imageID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check image %s: %w", imageID, err)
	}
	return count > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanImage(row rowScanner) (*models.Image, error) {
	var (
		image        models.Image
		longitude    sql.NullFloat64
		latitude     sql.NullFloat64
		locationName sql.NullString
	)

	err := row.Scan(
		&image.ID,
		&image.UserID,
		&image.ImageURL,
		&longitude,
		&latitude,
		&locationName,
		&image.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if longitude.Valid {
		image.Longitude = &longitude.Float64
	}
	if latitude.Valid {
		image.Latitude = &latitude.Float64
	}
	if locationName.Valid {
		image.LocationName = &locationName.String
	}

	return &image, nil
}

func scanImages(rows *sql.Rows) ([]models.Image, error) {
	var images []models.Image
	for rows.Next() {
		image, err := scanImage(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan image: %w", err)
		}
		images = append(images, *image)
	}
	return images, rows.Err()
}
