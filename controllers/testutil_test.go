package controllers_test

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/djdreamfix/Code-Companion/controllers"
	"github.com/djdreamfix/Code-Companion/models"
	"github.com/djdreamfix/Code-Companion/routes"
	"github.com/djdreamfix/Code-Companion/services"

	webpush "github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

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

type testServer struct {
	router    *gin.Engine
	hub       *services.RealtimeHub
	markStore *services.MarkStore
	subStore  *services.SubscriptionStore
	events    *recordingBroadcaster
	publicKey string
}

// newTestServer wires the full router over an in-memory database. The
// broadcaster is a recorder so tests can assert on published events; the
// websocket hub is still mounted for /ws tests.
func newTestServer(t *testing.T, pushEnabled bool) *testServer {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Mark{}, &models.PushSubscription{}))

	var publicKey, privateKey string
	if pushEnabled {
		privateKey, publicKey, err = webpush.GenerateVAPIDKeys()
		require.NoError(t, err)
	}

	hub := services.NewRealtimeHub()
	events := &recordingBroadcaster{}
	markStore := services.NewMarkStore(db)
	subStore := services.NewSubscriptionStore(db)
	push := services.NewPushService(subStore, publicKey, privateKey, "mailto:test@example.com")
	marks := services.NewMarkService(markStore, events, push)

	router := routes.SetupRouter(
		controllers.NewMarkController(marks, markStore),
		controllers.NewPushController(push, subStore),
		controllers.NewRealtimeController(hub),
	)

	return &testServer{
		router:    router,
		hub:       hub,
		markStore: markStore,
		subStore:  subStore,
		events:    events,
		publicKey: publicKey,
	}
}

func (ts *testServer) request(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}
	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}
