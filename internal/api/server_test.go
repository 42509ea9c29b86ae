package api

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/jmadland/hearthcloud-core/internal/directory"
	"github.com/jmadland/hearthcloud-core/internal/engine"
	"github.com/jmadland/hearthcloud-core/internal/infrastructure/config"
	"github.com/jmadland/hearthcloud-core/internal/infrastructure/logging"
	"github.com/jmadland/hearthcloud-core/internal/notify"
)

// discardNotifier satisfies engine.Notifier without a broker.
type discardNotifier struct{}

func (discardNotifier) SubmitAll(_ []notify.Notification) error { return nil }

// newTestServer builds a server backed by an in-memory directory.
func newTestServer(t *testing.T) (*Server, *directory.SQLiteDirectory) {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	schema := `
		CREATE TABLE devices (
			user_id          TEXT NOT NULL,
			device_id        TEXT NOT NULL,
			name             TEXT NOT NULL DEFAULT '',
			nickname         TEXT NOT NULL DEFAULT '',
			type             TEXT NOT NULL DEFAULT '',
			traits           TEXT NOT NULL DEFAULT '[]',
			states           TEXT NOT NULL DEFAULT '{}',
			attributes       TEXT NOT NULL DEFAULT '{}',
			error_code       TEXT NOT NULL DEFAULT '',
			tfa              TEXT NOT NULL DEFAULT '',
			other_device_ids TEXT NOT NULL DEFAULT '[]',
			created_at       TEXT NOT NULL,
			updated_at       TEXT NOT NULL,
			PRIMARY KEY (user_id, device_id)
		);
	`
	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("failed to create test schema: %v", err)
	}

	dir := directory.NewSQLiteDirectory(db)
	log := logging.Default()
	dispatcher := engine.NewDispatcher(dir, discardNotifier{}, log)

	server, err := New(Deps{
		Config:     config.APIConfig{Host: "127.0.0.1", Port: 0},
		Logger:     log,
		Directory:  dir,
		Dispatcher: dispatcher,
		Version:    "test",
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return server, dir
}

func seedDevice(t *testing.T, dir *directory.SQLiteDirectory, userID string, dev *directory.Device) {
	t.Helper()
	if err := dir.Create(context.Background(), userID, dev); err != nil {
		t.Fatalf("seed device: %v", err)
	}
}

func doRequest(t *testing.T, server *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	server.buildRouter().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v (body %q)", err, rec.Body.String())
	}
	return body
}

func lightDevice(id string) *directory.Device {
	return &directory.Device{
		ID:     id,
		Name:   "Ceiling Light",
		Type:   "action.devices.types.LIGHT",
		Traits: []string{"action.devices.traits.OnOff"},
		States: map[string]any{"online": true, "on": false},
	}
}

// ============================================================================
// Health
// ============================================================================

func TestHandleHealth(t *testing.T) {
	server, _ := newTestServer(t)

	rec := doRequest(t, server, http.MethodGet, "/api/v1/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["status"] != "ok" || body["version"] != "test" {
		t.Errorf("body = %v", body)
	}
}

// ============================================================================
// New
// ============================================================================

func TestNew_MissingDependencies(t *testing.T) {
	log := logging.Default()

	if _, err := New(Deps{}); err == nil {
		t.Error("expected error with no dependencies")
	}
	if _, err := New(Deps{Logger: log}); err == nil {
		t.Error("expected error without directory")
	}
}
