package directory

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Directory defines the interface for device persistence operations.
// This abstraction allows for different implementations (SQLite, mock, etc.)
// and enables unit testing without database dependencies.
//
// All devices are scoped by user: the same device ID may exist for
// different users without conflict.
type Directory interface {
	// Get retrieves a device by its identifier.
	// Returns ErrDeviceNotFound if the device does not exist.
	Get(ctx context.Context, userID, deviceID string) (*Device, error)

	// GetState retrieves only the current states of a device.
	// Returns ErrDeviceNotFound if the device does not exist.
	GetState(ctx context.Context, userID, deviceID string) (map[string]any, error)

	// List retrieves all devices belonging to a user.
	List(ctx context.Context, userID string) ([]Device, error)

	// Create inserts a new device.
	// Returns ErrDeviceExists if a device with the same ID already exists.
	Create(ctx context.Context, userID string, device *Device) error

	// Delete removes a device by ID.
	// Returns ErrDeviceNotFound if the device does not exist.
	Delete(ctx context.Context, userID, deviceID string) error

	// UpdateFields applies partial updates addressed by dotted paths
	// ("states.on", "states.color.spectrumRgb", "name", "errorCode").
	// A value of Delete removes the field. Paths are applied in a single
	// transaction but are not atomic as a set: see package docs.
	// Returns ErrDeviceNotFound if the device does not exist.
	UpdateFields(ctx context.Context, userID, deviceID string, fields map[string]any) error
}

// SQLiteDirectory implements Directory using SQLite.
type SQLiteDirectory struct {
	db *sql.DB
}

// NewSQLiteDirectory creates a new SQLite-backed directory.
// The db parameter should be an open SQLite connection with the
// devices table migrated.
func NewSQLiteDirectory(db *sql.DB) *SQLiteDirectory {
	return &SQLiteDirectory{db: db}
}

const deviceColumns = `device_id, name, nickname, type, traits, states,
		attributes, error_code, tfa, other_device_ids, created_at, updated_at`

// Get retrieves a device by its identifier.
func (r *SQLiteDirectory) Get(ctx context.Context, userID, deviceID string) (*Device, error) {
	query := `
		SELECT ` + deviceColumns + `
		FROM devices
		WHERE user_id = ? AND device_id = ?`

	row := r.db.QueryRowContext(ctx, query, userID, deviceID)
	device, err := scanDevice(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDeviceNotFound
		}
		return nil, fmt.Errorf("querying device: %w", err)
	}
	return device, nil
}

// GetState retrieves only the current states of a device.
func (r *SQLiteDirectory) GetState(ctx context.Context, userID, deviceID string) (map[string]any, error) {
	var statesJSON string
	err := r.db.QueryRowContext(ctx,
		"SELECT states FROM devices WHERE user_id = ? AND device_id = ?",
		userID, deviceID,
	).Scan(&statesJSON)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDeviceNotFound
		}
		return nil, fmt.Errorf("querying device states: %w", err)
	}

	var states map[string]any
	if err := json.Unmarshal([]byte(statesJSON), &states); err != nil {
		return nil, fmt.Errorf("unmarshalling states: %w", err)
	}
	return states, nil
}

// List retrieves all devices belonging to a user.
func (r *SQLiteDirectory) List(ctx context.Context, userID string) ([]Device, error) {
	query := `
		SELECT ` + deviceColumns + `
		FROM devices
		WHERE user_id = ?
		ORDER BY device_id`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("querying devices: %w", err)
	}
	defer rows.Close()

	var devices []Device
	for rows.Next() {
		device, err := scanDevice(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning device: %w", err)
		}
		devices = append(devices, *device)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating devices: %w", err)
	}

	return devices, nil
}

// Create inserts a new device.
func (r *SQLiteDirectory) Create(ctx context.Context, userID string, device *Device) error {
	if device.ID == "" {
		return fmt.Errorf("%w: missing device ID", ErrInvalidDevice)
	}

	traitsJSON, statesJSON, attrsJSON, otherIDsJSON, err := marshalDeviceJSON(device)
	if err != nil {
		return err
	}

	// Set timestamps if not set
	now := time.Now().UTC()
	if device.CreatedAt.IsZero() {
		device.CreatedAt = now
	}
	device.UpdatedAt = now

	query := `
		INSERT INTO devices (
			user_id, device_id, name, nickname, type, traits, states,
			attributes, error_code, tfa, other_device_ids, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = r.db.ExecContext(ctx, query,
		userID,
		device.ID,
		device.Name,
		device.Nickname,
		device.Type,
		traitsJSON,
		statesJSON,
		attrsJSON,
		device.ErrorCode,
		device.TFA,
		otherIDsJSON,
		device.CreatedAt.Format(time.RFC3339),
		device.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrDeviceExists
		}
		return fmt.Errorf("inserting device: %w", err)
	}

	return nil
}

// Delete removes a device by ID.
func (r *SQLiteDirectory) Delete(ctx context.Context, userID, deviceID string) error {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM devices WHERE user_id = ? AND device_id = ?",
		userID, deviceID,
	)
	if err != nil {
		return fmt.Errorf("deleting device: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrDeviceNotFound
	}

	return nil
}

// UpdateFields applies partial updates addressed by dotted paths.
//
// The update is a read-modify-write inside a single transaction:
// the row is loaded, each path is applied to the in-memory record,
// and the full row is written back. Concurrent writers serialise on
// SQLite's single-writer lock.
func (r *SQLiteDirectory) UpdateFields(ctx context.Context, userID, deviceID string, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // Rollback is no-op after commit

	row := tx.QueryRowContext(ctx, `
		SELECT `+deviceColumns+`
		FROM devices
		WHERE user_id = ? AND device_id = ?`,
		userID, deviceID,
	)
	device, err := scanDevice(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrDeviceNotFound
		}
		return fmt.Errorf("querying device: %w", err)
	}

	for path, value := range fields {
		if err := applyField(device, path, value); err != nil {
			return err
		}
	}

	traitsJSON, statesJSON, attrsJSON, otherIDsJSON, err := marshalDeviceJSON(device)
	if err != nil {
		return err
	}

	device.UpdatedAt = time.Now().UTC()

	_, err = tx.ExecContext(ctx, `
		UPDATE devices SET
			name = ?, nickname = ?, type = ?, traits = ?, states = ?,
			attributes = ?, error_code = ?, tfa = ?, other_device_ids = ?,
			updated_at = ?
		WHERE user_id = ? AND device_id = ?`,
		device.Name,
		device.Nickname,
		device.Type,
		traitsJSON,
		statesJSON,
		attrsJSON,
		device.ErrorCode,
		device.TFA,
		otherIDsJSON,
		device.UpdatedAt.Format(time.RFC3339),
		userID,
		deviceID,
	)
	if err != nil {
		return fmt.Errorf("updating device: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing update: %w", err)
	}
	return nil
}

// applyField applies a single dotted-path update to the in-memory device.
func applyField(device *Device, path string, value any) error {
	if path == "" {
		return ErrInvalidPath
	}

	head, rest := splitPath(path)
	isDelete := value == Delete

	switch head {
	case "states":
		if rest == "" {
			return fmt.Errorf("%w: %q addresses the whole states object", ErrInvalidPath, path)
		}
		if device.States == nil {
			device.States = make(map[string]any)
		}
		if isDelete {
			deletePath(device.States, rest)
		} else {
			setPath(device.States, rest, value)
		}
	case "attributes":
		if rest == "" {
			return fmt.Errorf("%w: %q addresses the whole attributes object", ErrInvalidPath, path)
		}
		if device.Attributes == nil {
			device.Attributes = make(map[string]any)
		}
		if isDelete {
			deletePath(device.Attributes, rest)
		} else {
			setPath(device.Attributes, rest, value)
		}
	case "name", "nickname", "type", "errorCode", "tfa":
		if rest != "" {
			return fmt.Errorf("%w: %q is not a nested field", ErrInvalidPath, path)
		}
		s := ""
		if !isDelete {
			var ok bool
			if s, ok = value.(string); !ok {
				return fmt.Errorf("%w: %q requires a string value", ErrInvalidPath, path)
			}
		}
		switch head {
		case "name":
			device.Name = s
		case "nickname":
			device.Nickname = s
		case "type":
			device.Type = s
		case "errorCode":
			device.ErrorCode = s
		case "tfa":
			device.TFA = s
		}
	case "otherDeviceIds":
		if rest != "" {
			return fmt.Errorf("%w: %q is not a nested field", ErrInvalidPath, path)
		}
		if isDelete {
			device.OtherDeviceIDs = nil
			return nil
		}
		ids, err := stringList(value)
		if err != nil {
			return fmt.Errorf("%w: %q requires a list of strings", ErrInvalidPath, path)
		}
		device.OtherDeviceIDs = ids
	default:
		return fmt.Errorf("%w: unknown field %q", ErrInvalidPath, path)
	}

	return nil
}

// stringList converts a decoded JSON array into a string slice. Values
// arriving through the API decode as []any; direct callers may pass
// []string.
func stringList(value any) ([]string, error) {
	switch v := value.(type) {
	case []string:
		return v, nil
	case []any:
		out := make([]string, 0, len(v))
		for _, elem := range v {
			s, ok := elem.(string)
			if !ok {
				return nil, fmt.Errorf("element %T is not a string", elem)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%T is not a list", value)
	}
}

// marshalDeviceJSON marshals the device's JSON columns.
func marshalDeviceJSON(device *Device) (traits, states, attrs, otherIDs string, err error) {
	if device.Traits == nil {
		device.Traits = []string{}
	}
	if device.States == nil {
		device.States = map[string]any{}
	}
	if device.Attributes == nil {
		device.Attributes = map[string]any{}
	}
	if device.OtherDeviceIDs == nil {
		device.OtherDeviceIDs = []string{}
	}

	traitsJSON, err := json.Marshal(device.Traits)
	if err != nil {
		return "", "", "", "", fmt.Errorf("marshalling traits: %w", err)
	}
	statesJSON, err := json.Marshal(device.States)
	if err != nil {
		return "", "", "", "", fmt.Errorf("marshalling states: %w", err)
	}
	attrsJSON, err := json.Marshal(device.Attributes)
	if err != nil {
		return "", "", "", "", fmt.Errorf("marshalling attributes: %w", err)
	}
	otherIDsJSON, err := json.Marshal(device.OtherDeviceIDs)
	if err != nil {
		return "", "", "", "", fmt.Errorf("marshalling other device ids: %w", err)
	}

	return string(traitsJSON), string(statesJSON), string(attrsJSON), string(otherIDsJSON), nil
}

// rowScanner is an interface that sql.Row and sql.Rows both implement.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanDevice scans a row or rows result into a Device.
func scanDevice(scanner rowScanner) (*Device, error) {
	var d Device
	var traitsJSON, statesJSON, attrsJSON, otherIDsJSON string
	var createdAt, updatedAt string

	err := scanner.Scan(
		&d.ID,
		&d.Name,
		&d.Nickname,
		&d.Type,
		&traitsJSON,
		&statesJSON,
		&attrsJSON,
		&d.ErrorCode,
		&d.TFA,
		&otherIDsJSON,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(traitsJSON), &d.Traits); err != nil {
		return nil, fmt.Errorf("unmarshalling traits: %w", err)
	}
	if err := json.Unmarshal([]byte(statesJSON), &d.States); err != nil {
		return nil, fmt.Errorf("unmarshalling states: %w", err)
	}
	if err := json.Unmarshal([]byte(attrsJSON), &d.Attributes); err != nil {
		return nil, fmt.Errorf("unmarshalling attributes: %w", err)
	}
	if err := json.Unmarshal([]byte(otherIDsJSON), &d.OtherDeviceIDs); err != nil {
		return nil, fmt.Errorf("unmarshalling other device ids: %w", err)
	}

	var parseErr error
	d.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAt)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	d.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAt)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
	}

	return &d, nil
}

// isUniqueConstraintError checks if an error is a SQLite unique constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "unique constraint")
}
