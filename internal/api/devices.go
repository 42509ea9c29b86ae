package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/jmadland/hearthcloud-core/internal/directory"
)

// handleListDevices returns all of a user's devices.
func (s *Server) handleListDevices(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	devices, err := s.directory.List(r.Context(), userID)
	if err != nil {
		writeInternalError(w, "failed to list devices")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"devices": devices, "count": len(devices)})
}

// handleGetDevice returns a single device record.
func (s *Server) handleGetDevice(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	deviceID := chi.URLParam(r, "deviceID")

	dev, err := s.directory.Get(r.Context(), userID, deviceID)
	if err != nil {
		if errors.Is(err, directory.ErrDeviceNotFound) {
			writeNotFound(w, "device not found")
			return
		}
		writeInternalError(w, "failed to get device")
		return
	}

	writeJSON(w, http.StatusOK, dev)
}

// handleCreateDevice registers a device under the user. A missing ID is
// generated server-side.
func (s *Server) handleCreateDevice(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var dev directory.Device
	if err := json.NewDecoder(r.Body).Decode(&dev); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	if dev.ID == "" {
		dev.ID = uuid.NewString()
	}
	if dev.Type == "" {
		writeBadRequest(w, "type is required")
		return
	}

	if err := s.directory.Create(r.Context(), userID, &dev); err != nil {
		switch {
		case errors.Is(err, directory.ErrDeviceExists):
			writeConflict(w, "device already exists")
		case errors.Is(err, directory.ErrInvalidDevice):
			writeBadRequest(w, "invalid device record")
		default:
			s.logger.Error("device create failed", "error", err, "device_id", dev.ID)
			writeInternalError(w, "failed to create device")
		}
		return
	}

	writeJSON(w, http.StatusCreated, dev)
}

// metadataFields are the top-level device fields PATCH may touch.
// States and attributes are addressed through their own objects.
var metadataFields = []string{"name", "nickname", "type", "errorCode", "tfa", "otherDeviceIds"}

// handleUpdateDevice applies a partial update to a device record.
//
// Present fields are written, JSON null clears a field, and absent
// fields are left untouched. States and attributes update per key:
//
//	{"name": "Porch Light", "errorCode": null, "states": {"on": true}}
func (s *Server) handleUpdateDevice(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	deviceID := chi.URLParam(r, "deviceID")

	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	fields := make(map[string]any)
	for _, name := range metadataFields {
		value, ok := body[name]
		if !ok {
			continue
		}
		if value == nil {
			value = directory.Delete
		}
		fields[name] = value
	}
	for _, section := range []string{"states", "attributes"} {
		raw, ok := body[section]
		if !ok {
			continue
		}
		entries, ok := raw.(map[string]any)
		if !ok {
			writeBadRequest(w, section+" must be an object")
			return
		}
		for key, value := range entries {
			if value == nil {
				value = directory.Delete
			}
			fields[section+"."+key] = value
		}
	}

	if len(fields) == 0 {
		writeBadRequest(w, "no updatable fields in request")
		return
	}

	if err := s.directory.UpdateFields(r.Context(), userID, deviceID, fields); err != nil {
		switch {
		case errors.Is(err, directory.ErrDeviceNotFound):
			writeNotFound(w, "device not found")
		case errors.Is(err, directory.ErrInvalidPath):
			writeBadRequest(w, "invalid field path")
		default:
			s.logger.Error("device update failed", "error", err, "device_id", deviceID)
			writeInternalError(w, "failed to update device")
		}
		return
	}

	dev, err := s.directory.Get(r.Context(), userID, deviceID)
	if err != nil {
		writeInternalError(w, "failed to read updated device")
		return
	}
	writeJSON(w, http.StatusOK, dev)
}

// handleDeleteDevice removes a device record.
func (s *Server) handleDeleteDevice(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	deviceID := chi.URLParam(r, "deviceID")

	if err := s.directory.Delete(r.Context(), userID, deviceID); err != nil {
		if errors.Is(err, directory.ErrDeviceNotFound) {
			writeNotFound(w, "device not found")
			return
		}
		s.logger.Error("device delete failed", "error", err, "device_id", deviceID)
		writeInternalError(w, "failed to delete device")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleGetDeviceState returns the device's states map.
func (s *Server) handleGetDeviceState(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	deviceID := chi.URLParam(r, "deviceID")

	states, err := s.directory.GetState(r.Context(), userID, deviceID)
	if err != nil {
		if errors.Is(err, directory.ErrDeviceNotFound) {
			writeNotFound(w, "device not found")
			return
		}
		writeInternalError(w, "failed to get device state")
		return
	}

	writeJSON(w, http.StatusOK, states)
}
