package notification

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWorkerFixture() (*fixture, *Worker) {
	f := newFixture()
	dispatcher := NewDispatcher(f.store, f.users, f.mailer, f.emitter, nil, nil, time.Second)
	return f, NewWorker(f.store, f.prefs, dispatcher)
}

// seedDeferred creates a record the way the service does for quiet hours:
// persisted with a future schedule, not yet dispatched.
func seedDeferred(t *testing.T, f *fixture, userID string) *Record {
	t.Helper()
	scheduleFor := time.Now().Add(-time.Minute)
	rec := &Record{
		UserID:      userID,
		Type:        TypeOfferAccepted,
		Title:       "Offer accepted",
		Message:     "Your offer was accepted",
		Priority:    PriorityHigh,
		Channels:    []Channel{ChannelInApp, ChannelEmail},
		ScheduleFor: &scheduleFor,
	}
	require.NoError(t, f.store.Create(context.Background(), rec))
	return rec
}

func TestWorker_ProcessDispatch(t *testing.T) {
	f, w := newWorkerFixture()
	rec := seedDeferred(t, f, "u1")

	require.NoError(t, w.ProcessDispatch(context.Background(), rec.ID))

	stored := f.store.get(rec.ID)
	assert.NotNil(t, stored.DispatchedAt)
	assert.NotNil(t, stored.DeliveredAt)
	assert.NotNil(t, stored.EmailSentAt)
	assert.Equal(t, 1, f.mailer.sentCount())
}

func TestWorker_ProcessDispatch_AlreadyDispatched(t *testing.T) {
	f, w := newWorkerFixture()
	rec := seedDeferred(t, f, "u1")
	require.NoError(t, f.store.StampDispatched(context.Background(), rec.ID, time.Now()))

	require.NoError(t, w.ProcessDispatch(context.Background(), rec.ID))

	assert.Zero(t, f.mailer.sentCount(), "a second dispatch of the same record must not send")
}

func TestWorker_ProcessDispatch_NotFound(t *testing.T) {
	_, w := newWorkerFixture()
	assert.Error(t, w.ProcessDispatch(context.Background(), "nope"))
}

func TestWorker_ProcessDispatch_PrefsChangedToBlocked(t *testing.T) {
	// The user muted offers after the record was deferred: no delivery, but
	// the record is settled so the reaper leaves it alone.
	f, w := newWorkerFixture()
	rec := seedDeferred(t, f, "u1")
	f.prefs.byUser["u1"] = &Preferences{UserID: "u1", OfferNotifications: false}

	require.NoError(t, w.ProcessDispatch(context.Background(), rec.ID))

	stored := f.store.get(rec.ID)
	assert.NotNil(t, stored.DispatchedAt)
	assert.Nil(t, stored.DeliveredAt)
	assert.Zero(t, f.mailer.sentCount())
}

func TestWorker_ProcessDispatch_Expired(t *testing.T) {
	f, w := newWorkerFixture()
	rec := seedDeferred(t, f, "u1")
	expired := time.Now().Add(-time.Hour)
	require.NoError(t, f.store.setStamp(rec.ID, func(r *Record) { r.ExpiresAt = &expired }))

	require.NoError(t, w.ProcessDispatch(context.Background(), rec.ID))

	stored := f.store.get(rec.ID)
	assert.NotNil(t, stored.DispatchedAt, "expired records are settled, not retried")
	assert.Zero(t, f.mailer.sentCount())
}

func TestReaper_SweepRecoversOverdue(t *testing.T) {
	f, _ := newWorkerFixture()
	overdue := seedDeferred(t, f, "u1")

	// A future-scheduled record must be left alone.
	future := time.Now().Add(time.Hour)
	pending := &Record{
		UserID:      "u1",
		Type:        TypeEventReminder,
		Channels:    []Channel{ChannelInApp},
		ScheduleFor: &future,
	}
	require.NoError(t, f.store.Create(context.Background(), pending))

	r := NewReaper(f.store, f.enqueuer, ReaperConfig{Grace: time.Millisecond})
	r.sweep(context.Background())

	assert.Equal(t, []string{overdue.ID}, f.enqueuer.enqueued)
}

func TestReaper_SweepSkipsDispatched(t *testing.T) {
	f, _ := newWorkerFixture()
	rec := seedDeferred(t, f, "u1")
	require.NoError(t, f.store.StampDispatched(context.Background(), rec.ID, time.Now()))

	r := NewReaper(f.store, f.enqueuer, ReaperConfig{Grace: time.Millisecond})
	r.sweep(context.Background())

	assert.Empty(t, f.enqueuer.enqueued)
}
