package analytics

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"folio/folio/services/metrics"
	"folio/folio/sources/psql/dao"
	"folio/folio/sources/psql/models"
	"folio/folio/utils/types"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type captureSink struct {
	mu     sync.Mutex
	events []*models.AnalyticsEvent
	err    error
}

func (s *captureSink) Write(ctx context.Context, e *models.AnalyticsEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	return s.err
}

func (s *captureSink) snapshot() []*models.AnalyticsEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*models.AnalyticsEvent(nil), s.events...)
}

// blockingSink holds the worker until release is closed.
type blockingSink struct {
	release chan struct{}
	started chan struct{}
	once    sync.Once
}

func (s *blockingSink) Write(ctx context.Context, e *models.AnalyticsEvent) error {
	s.once.Do(func() { close(s.started) })
	<-s.release
	return nil
}

func closeRecorder(t *testing.T, r *Recorder) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, r.Close(ctx))
}

func TestRecorder_WritesAndDrainsOnClose(t *testing.T) {
	sink := &captureSink{}
	r := NewRecorder(sink, 8, nil)

	id := r.TrackPageView(types.PageViewRequest{VisitorID: "v1", PagePath: "/", Referrer: "https://google.com"})
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	r.TrackLinkClick(types.LinkClickRequest{VisitorID: "v1", LinkName: "LinkedIn", LinkURL: "https://linkedin.com"})
	r.TrackProjectInteraction(types.ProjectInteractionRequest{VisitorID: "v1", ProjectName: "Bing Shopping"})
	r.TrackChatbotInteraction(types.ChatbotInteractionRequest{VisitorID: "v1", QuestionType: "general", QuestionCount: 2})
	r.TrackEvent(types.EventRequest{EventType: "custom", EventCategory: "ui", EventAction: "toggle", AdditionalData: map[string]any{"dark": true}})

	closeRecorder(t, r)

	got := sink.snapshot()
	require.Len(t, got, 5)
	assert.Equal(t, id, got[0].ID.String())
	assert.Equal(t, models.EventPageView, got[0].EventType)
	assert.Equal(t, "https://google.com", *got[0].Referrer)

	assert.Equal(t, models.EventLinkClick, got[1].EventType)
	assert.JSONEq(t, `{"linkUrl":"https://linkedin.com"}`, *got[1].AdditionalData)

	assert.Equal(t, "view", got[2].EventAction)
	assert.Equal(t, "Bing Shopping", *got[2].EventLabel)

	assert.JSONEq(t, `{"questionCount":2}`, *got[3].AdditionalData)
	assert.Nil(t, got[3].PagePath)

	assert.Equal(t, "custom", got[4].EventType)
	assert.JSONEq(t, `{"dark":true}`, *got[4].AdditionalData)
}

func TestRecorder_NeverBlocksWhenFull(t *testing.T) {
	sink := &blockingSink{release: make(chan struct{}), started: make(chan struct{})}
	m := metrics.New()
	r := NewRecorder(sink, 1, m)

	r.Enqueue(&models.AnalyticsEvent{EventType: "a"})
	<-sink.started // worker holds the first event

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 20; i++ {
			r.Enqueue(&models.AnalyticsEvent{EventType: "a"})
		}
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Enqueue blocked on a full queue")
	}

	close(sink.release)
	closeRecorder(t, r)
	// queued, dropped and written series for "a"
	n, err := testutil.GatherAndCount(m.Registry(), "folio_analytics_events_total")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestRecorder_SinkErrorsAreSwallowed(t *testing.T) {
	sink := &captureSink{err: errors.New("db down")}
	r := NewRecorder(sink, 4, nil)
	r.TrackPageView(types.PageViewRequest{PagePath: "/"})
	closeRecorder(t, r)
	assert.Len(t, sink.snapshot(), 1)
}

func TestRecorder_EnqueueAfterClose(t *testing.T) {
	sink := &captureSink{}
	r := NewRecorder(sink, 4, nil)
	closeRecorder(t, r)

	id := r.TrackPageView(types.PageViewRequest{PagePath: "/"})
	assert.NotEmpty(t, id)
	assert.Empty(t, sink.snapshot())
	// closing twice is fine
	closeRecorder(t, r)
}

func TestRecorder_CloseHonoursContext(t *testing.T) {
	sink := &blockingSink{release: make(chan struct{}), started: make(chan struct{})}
	r := NewRecorder(sink, 4, nil)
	r.Enqueue(&models.AnalyticsEvent{EventType: "a"})
	<-sink.started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, r.Close(ctx), context.DeadlineExceeded)
	close(sink.release)
}

func TestRecorder_WithDAO(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.AnalyticsEvent{}))

	store := dao.NewAnalyticsDAO(db)
	r := NewRecorder(store, 16, nil)
	r.TrackChatbotInteraction(types.ChatbotInteractionRequest{VisitorID: "v1", QuestionType: "general", QuestionCount: 1})
	r.TrackChatbotInteraction(types.ChatbotInteractionRequest{VisitorID: "v2", QuestionType: "general", QuestionCount: 1})
	closeRecorder(t, r)

	var reporter Reporter = store
	stats, err := reporter.ChatbotStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalQuestions)
	assert.Equal(t, int64(2), stats.UniqueUsers)
}

func TestEmptyReporter(t *testing.T) {
	var rep Reporter = EmptyReporter{}
	s, err := rep.Summary(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, s)
	stats, err := rep.ChatbotStats(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.UniqueUsers)
}

func TestLogSink(t *testing.T) {
	assert.NoError(t, LogSink{}.Write(context.Background(), &models.AnalyticsEvent{EventType: "page_view"}))
}
