package api

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"landsale/server/internal/database"
	"landsale/server/internal/models"
)

func newTestHandler(t *testing.T) (*Handler, *database.Database) {
	t.Helper()

	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.RunMigrations())

	return NewHandler(db, nil, nil, nil, nil, nil, nil, 100, logrus.New()), db
}

func getTelegramConfigResponse(t *testing.T, h *Handler) *httptest.ResponseRecorder {
	t.Helper()

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/telegram/config", nil)

	h.GetTelegramConfig(c)
	return w
}

func TestGetTelegramConfig_MasksStoredToken(t *testing.T) {
	h, db := newTestHandler(t)

	require.NoError(t, db.UpdateTelegramConfig(&models.TelegramConfigRequest{
		IsEnabled: true,
		BotToken:  "1234567890:AAAexampletokenvalue9876",
		ChatID:    "-100200300",
	}))

	w := getTelegramConfigResponse(t, h)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "••••9876")
	assert.NotContains(t, w.Body.String(), "AAAexampletokenvalue")
}

func TestGetTelegramConfig_MasksShortToken(t *testing.T) {
	h, db := newTestHandler(t)

	require.NoError(t, db.UpdateTelegramConfig(&models.TelegramConfigRequest{
		IsEnabled: true,
		BotToken:  "abc",
		ChatID:    "-100200300",
	}))

	w := getTelegramConfigResponse(t, h)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"bot_token":"••••"`)
	assert.NotContains(t, w.Body.String(), "abc")
}
