// Package service exposes the application collection: list, retrieve, create,
// replace, patch and delete, delegating state to the record store.
package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"job-tracker/domain"
)

type Store interface {
	Insert(ctx context.Context, in domain.ApplicationInput) (*domain.Application, error)
	Get(ctx context.Context, id uint) (*domain.Application, error)
	Update(ctx context.Context, id uint, in domain.ApplicationInput, partial bool) (*domain.Application, error)
	Delete(ctx context.Context, id uint) error
	ListAll(ctx context.Context) ([]domain.Application, error)
}

// EventPublisher receives an event after each committed mutation.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.ApplicationEvent) error
}

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, domain.ApplicationEvent) error { return nil }

// ApplicationService is the CRUD facade over the store.
type ApplicationService struct {
	store     Store
	publisher EventPublisher
	log       *logrus.Logger
}

// NewApplicationService wires a store and publisher. A nil publisher disables events.
func NewApplicationService(store Store, publisher EventPublisher, log *logrus.Logger) *ApplicationService {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	return &ApplicationService{store: store, publisher: publisher, log: log}
}

func (s *ApplicationService) List(ctx context.Context) ([]domain.Application, error) {
	return s.store.ListAll(ctx)
}

// Retrieve returns one application or a *domain.NotFoundError.
func (s *ApplicationService) Retrieve(ctx context.Context, id uint) (*domain.Application, error) {
	return s.store.Get(ctx, id)
}

func (s *ApplicationService) Create(ctx context.Context, in domain.ApplicationInput) (*domain.Application, error) {
	app, err := s.store.Insert(ctx, in)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, domain.EventCreated, app)
	return app, nil
}

// Replace is a full update: company and role must be supplied.
func (s *ApplicationService) Replace(ctx context.Context, id uint, in domain.ApplicationInput) (*domain.Application, error) {
	return s.update(ctx, id, in, false)
}

func (s *ApplicationService) Patch(ctx context.Context, id uint, in domain.ApplicationInput) (*domain.Application, error) {
	return s.update(ctx, id, in, true)
}

func (s *ApplicationService) update(ctx context.Context, id uint, in domain.ApplicationInput, partial bool) (*domain.Application, error) {
	app, err := s.store.Update(ctx, id, in, partial)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, domain.EventUpdated, app)
	return app, nil
}

func (s *ApplicationService) Delete(ctx context.Context, id uint) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, domain.EventDeleted, &domain.Application{ID: id})
	return nil
}

// publish is best effort: the mutation is already committed.
func (s *ApplicationService) publish(ctx context.Context, eventType string, app *domain.Application) {
	event := domain.NewApplicationEvent(eventType, app, time.Now().UTC())
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"event":          eventType,
			"application_id": app.ID,
		}).Warn("failed to publish application event")
	}
}
