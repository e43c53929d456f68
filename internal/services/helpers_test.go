package services

import (
	"bytes"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/event-rsvp/internal/database"
	"github.com/yukikurage/event-rsvp/internal/models"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, database.Migrate(db, zap.NewNop()))
	return db
}

var (
	pngBytes  = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01")
	jpegBytes = []byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00\x01\x01")
)

func imageUpload(filename, contentType string, body []byte) *ImageUpload {
	return &ImageUpload{
		Filename:    filename,
		ContentType: contentType,
		Size:        int64(len(body)),
		Body:        bytes.NewReader(body),
	}
}

type activationMail struct {
	user  *models.User
	uid   string
	token string
}

// fakeNotifier records notifications synchronously.
type fakeNotifier struct {
	mu          sync.Mutex
	activations []activationMail
	rsvps       []uint64
}

func (n *fakeNotifier) SendActivation(user *models.User, uid, token string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.activations = append(n.activations, activationMail{user: user, uid: uid, token: token})
}

func (n *fakeNotifier) SendRSVPConfirmation(_ *models.User, event *models.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.rsvps = append(n.rsvps, event.ID)
}
