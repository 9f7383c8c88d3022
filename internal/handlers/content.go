package handlers

import (
	"net/http"

	"essence-site/internal/metrics"
	"essence-site/internal/models"
)

func GetFeatures(w http.ResponseWriter, r *http.Request) {
	features, err := store.GetFeatures(r.Context())
	if err != nil {
		writeStoreError(w, err, "Features")
		return
	}
	writeJSON(w, http.StatusOK, features)
}

func GetFaqs(w http.ResponseWriter, r *http.Request) {
	faqs, err := store.GetFaqs(r.Context())
	if err != nil {
		writeStoreError(w, err, "FAQs")
		return
	}
	writeJSON(w, http.StatusOK, faqs)
}

func GetTestimonials(w http.ResponseWriter, r *http.Request) {
	testimonials, err := store.GetTestimonials(r.Context())
	if err != nil {
		writeStoreError(w, err, "Testimonials")
		return
	}
	writeJSON(w, http.StatusOK, testimonials)
}

func GetStatistics(w http.ResponseWriter, r *http.Request) {
	statistics, err := store.GetStatistics(r.Context())
	if err != nil {
		writeStoreError(w, err, "Statistics")
		return
	}
	writeJSON(w, http.StatusOK, statistics)
}

func UpdateStatistics(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var patch models.StatisticPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		sugar.Debug(err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if patch.IsEmpty() {
		writeError(w, http.StatusBadRequest, "no fields to update")
		return
	}
	if err := validate.Struct(patch); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	statistics, err := store.UpdateStatistics(r.Context(), id, patch)
	if err != nil {
		writeStoreError(w, err, "Statistics")
		return
	}

	metrics.RecordMutation("statistics")
	writeJSON(w, http.StatusOK, statistics)
}
