package handlers

import (
	"net/http"

	"essence-site/internal/hub"
	"essence-site/internal/metrics"
)

func GetGlobalTheme(w http.ResponseWriter, r *http.Request) {
	theme, err := store.GetGlobalTheme(r.Context())
	if err != nil {
		writeStoreError(w, err, "Global theme")
		return
	}
	writeJSON(w, http.StatusOK, theme)
}

func UpdateGlobalTheme(w http.ResponseWriter, r *http.Request) {
	type ThemeUpdate struct {
		Name string `json:"name" validate:"required,oneof=default christmas halloween thanksgiving"`
	}

	var update ThemeUpdate
	if err := decodeJSON(w, r, &update); err != nil {
		sugar.Debug(err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validate.Struct(update); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid theme name")
		return
	}

	theme, err := store.UpdateGlobalTheme(r.Context(), update.Name)
	if err != nil {
		writeStoreError(w, err, "Global theme")
		return
	}

	metrics.RecordMutation("global_theme")
	if err := hub.Emit(r.Context(), hub.GlobalThemeUpdated, theme); err != nil {
		sugar.Warn(err)
	}

	writeJSON(w, http.StatusOK, theme)
}
