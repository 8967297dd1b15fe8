package services

import (
	"fmt"
	"sync"
	"testing"

	"github.com/djdreamfix/Code-Companion/models"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a private in-memory database with the production schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Mark{}, &models.PushSubscription{}))
	return db
}

// recordingBroadcaster captures events instead of writing to websockets.
type recordingBroadcaster struct {
	mu      sync.Mutex
	created []*models.Mark
	expired []string
}

func (b *recordingBroadcaster) MarkCreated(m *models.Mark) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.created = append(b.created, m)
}

func (b *recordingBroadcaster) MarkExpired(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.expired = append(b.expired, id)
}

func (b *recordingBroadcaster) createdMarks() []*models.Mark {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]*models.Mark(nil), b.created...)
}

func (b *recordingBroadcaster) expiredIDs() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.expired...)
}

// recordingDispatcher hands dispatched marks to the test over a channel,
// since the service calls Dispatch on its own goroutine.
type recordingDispatcher struct {
	marks chan *models.Mark
}

func newRecordingDispatcher() *recordingDispatcher {
	return &recordingDispatcher{marks: make(chan *models.Mark, 8)}
}

func (d *recordingDispatcher) Dispatch(m *models.Mark) {
	d.marks <- m
}
