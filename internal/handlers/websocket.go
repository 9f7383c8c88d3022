package handlers

import (
	"net/http"

	"essence-site/internal/hub"
)

// HandleWebSocket is public, visitors only receive theme and site config changes.
func HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	hub.HandleClient(w, r)
}
