package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/example/jaanutuni/internal/config"
	"github.com/example/jaanutuni/internal/database"
	"github.com/example/jaanutuni/internal/routes"
)

// TestMain suppresses request logging for cleaner test output.
func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

// setupApp builds a fully wired fiber app over a fresh in-memory SQLite
// database. Each call gets its own database and upload directory.
func setupApp(t *testing.T) (*fiber.App, *gorm.DB, *config.Config) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	dir := t.TempDir()
	cfg := &config.Config{
		AppPort:      "0",
		JWTSecret:    "test-secret",
		TokenExpires: time.Hour,
		UploadDir:    filepath.Join(dir, "img"),
		ProductsFile: filepath.Join(dir, "products.json"),
	}

	app := fiber.New(fiber.Config{ErrorHandler: routes.ErrorHandler})
	require.NoError(t, routes.Register(app, db, cfg, nil))

	return app, db, cfg
}

// doJSON performs a JSON request against the test app and decodes the
// response body into a generic map.
func doJSON(t *testing.T, app *fiber.App, method, path string, payload interface{}) (int, map[string]interface{}) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	decoded := map[string]interface{}{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}

	return resp.StatusCode, decoded
}

// doGET performs a GET request and returns the raw response.
func doGET(t *testing.T, app *fiber.App, path string) *http.Response {
	t.Helper()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil), -1)
	require.NoError(t, err)
	return resp
}
