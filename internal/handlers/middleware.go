package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"essence-site/internal/jwt"
	"essence-site/internal/keyValue"
)

type SessionIDKeyType struct{}
type UserIDKeyType struct{}

func sessionKey(sessionID string) string {
	return "session:" + sessionID
}

func AllowCors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func UserVerifier(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionCookie, err := r.Cookie(jwt.CookieName)
		if err != nil {
			sugar.Debug(err)
			switch {
			case errors.Is(err, http.ErrNoCookie):
				writeError(w, http.StatusUnauthorized, "Authentication required")
			default:
				writeError(w, http.StatusBadRequest, "Couldn't read session cookie")
			}
			return
		}

		sessionID, err := jwt.VerifyToken(sessionCookie.Value)
		if err != nil {
			sugar.Debug(err)
			rejectSession(w)
			return
		}

		value, err := keyValue.Get(r.Context(), sessionKey(sessionID))
		if err != nil {
			sugar.Error(err)
			writeError(w, http.StatusInternalServerError, "Couldn't verify session")
			return
		}

		// session expired or was logged out
		if value == "" {
			sugar.Debugf("Session [%s] doesn't exist", sessionID)
			rejectSession(w)
			return
		}

		userID, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			sugar.Error(err)
			writeError(w, http.StatusInternalServerError, "Couldn't verify session")
			return
		}

		// this passes the authenticated user's ID to next handler
		ctx := context.WithValue(r.Context(), UserIDKeyType{}, userID)
		ctx = context.WithValue(ctx, SessionIDKeyType{}, sessionID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func rejectSession(w http.ResponseWriter) {
	cookie := jwt.DeleteCookie()
	http.SetCookie(w, &cookie)
	writeError(w, http.StatusUnauthorized, "Session is invalid or expired")
}
