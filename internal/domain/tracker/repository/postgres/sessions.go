// Package postgres contains gorm-backed repositories for the tracker domain
package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/getaipilot/joincounter/internal/domain/tracker/deps"
	"github.com/getaipilot/joincounter/internal/domain/tracker/entities"
	trackererrors "github.com/getaipilot/joincounter/internal/domain/tracker/errors"
)

type sessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *gorm.DB) deps.SessionRepository {
	return &sessionRepository{db: db}
}

// Get retrieves the session row for a user
func (r *sessionRepository) Get(ctx context.Context, userID int64) (*entities.Session, error) {
	var session entities.Session
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, trackererrors.ErrNoSession
		}
		return nil, err
	}
	return &session, nil
}

// Upsert creates or replaces the session row keyed by user_id
func (r *sessionRepository) Upsert(ctx context.Context, session *entities.Session) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			UpdateAll: true,
		}).
		Create(session).Error
}

// Delete removes the session row for a user
func (r *sessionRepository) Delete(ctx context.Context, userID int64) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&entities.Session{}).Error
}
