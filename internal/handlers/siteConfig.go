package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"essence-site/internal/hub"
	"essence-site/internal/metrics"
	inputs "essence-site/internal/validator"
)

func GetSiteConfig(w http.ResponseWriter, r *http.Request) {
	config, err := store.GetSiteConfig(r.Context())
	if err != nil {
		writeStoreError(w, err, "Site config")
		return
	}
	writeJSON(w, http.StatusOK, config)
}

// UpdateSiteConfig applies a partial update. A single bad field rejects the whole body and
// leaves the stored config untouched.
func UpdateSiteConfig(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var raw map[string]json.RawMessage
	if err := decodeJSON(w, r, &raw); err != nil {
		sugar.Debug(err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	patch, err := inputs.SiteConfigPatch(raw)
	if err != nil {
		var fieldErr *inputs.FieldError
		if !errors.As(err, &fieldErr) && !errors.Is(err, inputs.ErrEmptyPatch) {
			sugar.Error(err)
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	config, err := store.UpdateSiteConfig(r.Context(), id, patch)
	if err != nil {
		writeStoreError(w, err, "Site config")
		return
	}

	metrics.RecordMutation("site_config")
	if err := hub.Emit(r.Context(), hub.SiteConfigUpdated, config); err != nil {
		sugar.Warn(err)
	}

	writeJSON(w, http.StatusOK, config)
}
