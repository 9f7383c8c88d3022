package handlers

import (
	"net/http"

	"essence-site/internal/metrics"
	"essence-site/internal/models"

	"github.com/go-chi/chi/v5"
)

func GetCommandCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := store.GetCommandCategories(r.Context())
	if err != nil {
		writeStoreError(w, err, "Command categories")
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

func GetCommands(w http.ResponseWriter, r *http.Request) {
	commands, err := store.GetCommands(r.Context())
	if err != nil {
		writeStoreError(w, err, "Commands")
		return
	}
	writeJSON(w, http.StatusOK, commands)
}

// GetCommandsByCategory answers 404 only for an unknown slug, a known category without
// commands is an empty list.
func GetCommandsByCategory(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "categorySlug")

	category, err := store.GetCommandCategoryBySlug(r.Context(), slug)
	if err != nil {
		writeStoreError(w, err, "Category")
		return
	}

	commands, err := store.GetCommandsByCategory(r.Context(), category.ID)
	if err != nil {
		writeStoreError(w, err, "Commands")
		return
	}
	writeJSON(w, http.StatusOK, commands)
}

func decodeCategory(w http.ResponseWriter, r *http.Request) (models.CommandCategory, bool) {
	var category models.CommandCategory
	if err := decodeJSON(w, r, &category); err != nil {
		sugar.Debug(err)
		writeError(w, http.StatusBadRequest, err.Error())
		return category, false
	}
	if err := validate.Struct(category); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return category, false
	}
	return category, true
}

func CreateCommandCategory(w http.ResponseWriter, r *http.Request) {
	category, ok := decodeCategory(w, r)
	if !ok {
		return
	}

	category, err := store.CreateCommandCategory(r.Context(), category)
	if err != nil {
		writeStoreError(w, err, "Category")
		return
	}

	metrics.RecordMutation("command_category")
	writeJSON(w, http.StatusCreated, category)
}

func UpdateCommandCategory(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	category, ok := decodeCategory(w, r)
	if !ok {
		return
	}

	category, err = store.UpdateCommandCategory(r.Context(), id, category)
	if err != nil {
		writeStoreError(w, err, "Category")
		return
	}

	metrics.RecordMutation("command_category")
	writeJSON(w, http.StatusOK, category)
}

func DeleteCommandCategory(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := store.DeleteCommandCategory(r.Context(), id); err != nil {
		writeStoreError(w, err, "Category")
		return
	}

	metrics.RecordMutation("command_category")
	w.WriteHeader(http.StatusNoContent)
}

func decodeCommand(w http.ResponseWriter, r *http.Request) (models.Command, bool) {
	var command models.Command
	if err := decodeJSON(w, r, &command); err != nil {
		sugar.Debug(err)
		writeError(w, http.StatusBadRequest, err.Error())
		return command, false
	}
	if err := validate.Struct(command); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return command, false
	}
	return command, true
}

func CreateCommand(w http.ResponseWriter, r *http.Request) {
	command, ok := decodeCommand(w, r)
	if !ok {
		return
	}

	command, err := store.CreateCommand(r.Context(), command)
	if err != nil {
		writeStoreError(w, err, "Command")
		return
	}

	metrics.RecordMutation("command")
	writeJSON(w, http.StatusCreated, command)
}

func UpdateCommand(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	command, ok := decodeCommand(w, r)
	if !ok {
		return
	}

	command, err = store.UpdateCommand(r.Context(), id, command)
	if err != nil {
		writeStoreError(w, err, "Command")
		return
	}

	metrics.RecordMutation("command")
	writeJSON(w, http.StatusOK, command)
}

func DeleteCommand(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := store.DeleteCommand(r.Context(), id); err != nil {
		writeStoreError(w, err, "Command")
		return
	}

	metrics.RecordMutation("command")
	w.WriteHeader(http.StatusNoContent)
}
