package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"job-tracker/domain"
)

// ApplicationStore persists applications. It is the only writer of the
// applications table and owns id and timestamp assignment.
type ApplicationStore struct {
	db  *gorm.DB
	now func() time.Time

	mu   sync.Mutex
	last time.Time
}

func NewApplicationStore(db *gorm.DB) *ApplicationStore {
	return &ApplicationStore{db: db, now: time.Now}
}

// Insert validates in and creates a new record with fresh id and timestamps.
func (s *ApplicationStore) Insert(ctx context.Context, in domain.ApplicationInput) (*domain.Application, error) {
	app := domain.NewApplication()
	if err := in.ApplyTo(app, false); err != nil {
		return nil, err
	}

	ts := s.timestamp(time.Time{})
	app.CreatedAt = ts
	app.UpdatedAt = ts

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(app).Error
	})
	if err != nil {
		return nil, fmt.Errorf("inserting application: %w", err)
	}
	return app, nil
}

func (s *ApplicationStore) Get(ctx context.Context, id uint) (*domain.Application, error) {
	var app domain.Application
	err := s.db.WithContext(ctx).First(&app, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &domain.NotFoundError{ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("getting application %d: %w", id, err)
	}
	return &app, nil
}

// Update applies in to the record under a row lock and refreshes updated_at.
// With partial set, absent fields keep their stored values.
func (s *ApplicationStore) Update(ctx context.Context, id uint, in domain.ApplicationInput, partial bool) (*domain.Application, error) {
	var app domain.Application
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&app, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &domain.NotFoundError{ID: id}
		}
		if err != nil {
			return err
		}

		if err := in.ApplyTo(&app, partial); err != nil {
			return err
		}
		app.UpdatedAt = s.timestamp(app.UpdatedAt)

		return tx.Save(&app).Error
	})
	if err != nil {
		return nil, storeError(fmt.Sprintf("updating application %d", id), err)
	}
	return &app, nil
}

// Delete removes the record permanently. Deleting twice fails the second time.
func (s *ApplicationStore) Delete(ctx context.Context, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&domain.Application{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return &domain.NotFoundError{ID: id}
		}
		return nil
	})
	if err != nil {
		return storeError(fmt.Sprintf("deleting application %d", id), err)
	}
	return nil
}

// ListAll returns every record, most recently updated first, ties by id descending.
func (s *ApplicationStore) ListAll(ctx context.Context) ([]domain.Application, error) {
	apps := []domain.Application{}
	err := s.db.WithContext(ctx).
		Order("updated_at DESC").
		Order("id DESC").
		Find(&apps).Error
	if err != nil {
		return nil, fmt.Errorf("listing applications: %w", err)
	}
	return apps, nil
}

// timestamp returns the current UTC time at microsecond precision, strictly
// after both the previous timestamp handed out and after.
func (s *ApplicationStore) timestamp(after time.Time) time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	ts := s.now().UTC().Truncate(time.Microsecond)
	if after.After(s.last) {
		s.last = after
	}
	if !ts.After(s.last) {
		ts = s.last.Add(time.Microsecond)
	}
	s.last = ts
	return ts
}

// storeError passes domain errors through untouched and wraps the rest.
func storeError(op string, err error) error {
	var ve *domain.ValidationError
	var nf *domain.NotFoundError
	if errors.As(err, &ve) || errors.As(err, &nf) {
		return err
	}
	return fmt.Errorf("%s: %w", op, err)
}
