package service_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/oapi-codegen/nullable"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"job-tracker/config"
	"job-tracker/domain"
	"job-tracker/infrastructure"
	"job-tracker/service"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.ApplicationEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event domain.ApplicationEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestService(t *testing.T, publisher service.EventPublisher) *service.ApplicationService {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	cfg := &config.Config{
		DBDriver: config.DriverSQLite,
		DBDSN:    "file:" + name + "?mode=memory&cache=shared",
	}
	db, err := infrastructure.NewDatabase(cfg, quietLogger())
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	return service.NewApplicationService(infrastructure.NewApplicationStore(db), publisher, quietLogger())
}

func TestApplicationService_Lifecycle(t *testing.T) {
	pub := &recordingPublisher{}
	svc := newTestService(t, pub)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.ApplicationInput{
		Company: nullable.NewNullableWithValue("Acme"),
		Role:    nullable.NewNullableWithValue("Engineer"),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApplied, created.Status)

	got, err := svc.Retrieve(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Company, got.Company)
	assert.True(t, created.UpdatedAt.Equal(got.UpdatedAt))

	patched, err := svc.Patch(ctx, created.ID, domain.ApplicationInput{Status: nullable.NewNullableWithValue(domain.StatusOnsite)})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusOnsite, patched.Status)
	assert.True(t, patched.UpdatedAt.After(created.UpdatedAt))

	replaced, err := svc.Replace(ctx, created.ID, domain.ApplicationInput{
		Company: nullable.NewNullableWithValue("Acme Corp"),
		Role:    nullable.NewNullableWithValue("Staff Engineer"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", replaced.Company)
	// Fields absent from a full update keep their stored value.
	assert.Equal(t, domain.StatusOnsite, replaced.Status)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, svc.Delete(ctx, created.ID))
	_, err = svc.Retrieve(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.Equal(t, []string{
		domain.EventCreated,
		domain.EventUpdated,
		domain.EventUpdated,
		domain.EventDeleted,
	}, pub.types())
	assert.Equal(t, created.ID, pub.events[3].ApplicationID)
}

func TestApplicationService_NoEventOnFailure(t *testing.T) {
	pub := &recordingPublisher{}
	svc := newTestService(t, pub)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.ApplicationInput{Company: nullable.NewNullableWithValue("Acme")})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)

	_, err = svc.Patch(ctx, 99, domain.ApplicationInput{Status: nullable.NewNullableWithValue(domain.StatusOffer)})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = svc.Delete(ctx, 99)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.Empty(t, pub.types())
}

func TestApplicationService_PublishFailureIsNotFatal(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker down")}
	svc := newTestService(t, pub)

	app, err := svc.Create(context.Background(), domain.ApplicationInput{
		Company: nullable.NewNullableWithValue("Acme"),
		Role:    nullable.NewNullableWithValue("Engineer"),
	})
	require.NoError(t, err)
	assert.NotZero(t, app.ID)
	assert.Len(t, pub.types(), 1)
}

func TestApplicationService_NilPublisher(t *testing.T) {
	svc := newTestService(t, nil)

	_, err := svc.Create(context.Background(), domain.ApplicationInput{
		Company: nullable.NewNullableWithValue("Acme"),
		Role:    nullable.NewNullableWithValue("Engineer"),
	})
	assert.NoError(t, err)
}

func TestApplicationService_CreateAssignsUniqueIDs(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	seen := make(map[uint]bool)
	for i := 0; i < 10; i++ {
		app, err := svc.Create(ctx, domain.ApplicationInput{
			Company: nullable.NewNullableWithValue("Acme"),
			Role:    nullable.NewNullableWithValue("Engineer"),
		})
		require.NoError(t, err)
		assert.False(t, seen[app.ID], "id %d reused", app.ID)
		seen[app.ID] = true

		list, err := svc.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, app.ID, list[0].ID)
	}
}
