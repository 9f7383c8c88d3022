package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"

	"essence-site/internal/jwt"
	"essence-site/internal/keyValue"
	"essence-site/internal/models"
	"essence-site/internal/storage"
	inputs "essence-site/internal/validator"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var bcryptCost = 12

var dummyHash []byte
var dummyHashOnce sync.Once

// compareMissingUser spends the same bcrypt work as a real comparison, so response times
// don't reveal which usernames exist.
func compareMissingUser(password string) {
	dummyHashOnce.Do(func() {
		var err error
		dummyHash, err = bcrypt.GenerateFromPassword([]byte("essence-missing-user"), bcryptCost)
		if err != nil {
			sugar.Error(err)
		}
	})
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func Login(w http.ResponseWriter, r *http.Request) {
	var login credentials
	if err := decodeJSON(w, r, &login); err != nil {
		sugar.Debug(err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := store.GetUserByUsername(r.Context(), login.Username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			sugar.Debug(err)
			compareMissingUser(login.Password)
			writeError(w, http.StatusUnauthorized, "Invalid username or password")
		} else {
			sugar.Error(err)
			writeError(w, http.StatusInternalServerError, "Failed to log in")
		}
		return
	}

	err = bcrypt.CompareHashAndPassword(user.Password, []byte(login.Password))
	if err != nil {
		sugar.Debug(err)
		writeError(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}

	if err := startSession(w, r.Context(), user.ID); err != nil {
		sugar.Error(err)
		writeError(w, http.StatusInternalServerError, "Failed to log in")
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func Register(w http.ResponseWriter, r *http.Request) {
	if !allowRegistration {
		writeError(w, http.StatusForbidden, "Registration is disabled")
		return
	}

	var registration credentials
	if err := decodeJSON(w, r, &registration); err != nil {
		sugar.Debug(err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := inputs.Username(registration.Username); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid field \"username\": %s", err))
		return
	}
	if err := inputs.Password(registration.Password); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid field \"password\": %s", err))
		return
	}

	passwordBytes, err := bcrypt.GenerateFromPassword([]byte(registration.Password), bcryptCost)
	if err != nil {
		sugar.Error(err)
		writeError(w, http.StatusInternalServerError, "Failed to register")
		return
	}

	user, err := store.CreateUser(r.Context(), registration.Username, passwordBytes)
	if err != nil {
		writeStoreError(w, err, "Username")
		return
	}

	if err := startSession(w, r.Context(), user.ID); err != nil {
		sugar.Error(err)
		writeError(w, http.StatusInternalServerError, "Failed to register")
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

// Logout always clears the cookie, even when the session is already gone.
func Logout(w http.ResponseWriter, r *http.Request) {
	if sessionCookie, err := r.Cookie(jwt.CookieName); err == nil {
		if sessionID, err := jwt.VerifyToken(sessionCookie.Value); err == nil {
			userID, err := keyValue.GetDel(r.Context(), sessionKey(sessionID))
			if err != nil {
				sugar.Error(err)
				writeError(w, http.StatusInternalServerError, "Failed to log out")
				return
			}
			if userID != "" {
				sugar.Debugf("User ID [%s] ended session [%s]", userID, sessionID)
			}
		}
	}

	cookie := jwt.DeleteCookie()
	http.SetCookie(w, &cookie)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

func GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(UserIDKeyType{}).(int64)

	user, err := store.GetUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			rejectSession(w)
			return
		}
		sugar.Error(err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch user")
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func startSession(w http.ResponseWriter, ctx context.Context, userID int64) error {
	sessionID, err := uuid.NewV7()
	if err != nil {
		return err
	}

	err = keyValue.Set(ctx, sessionKey(sessionID.String()), strconv.FormatInt(userID, 10), jwt.LifeTime())
	if err != nil {
		return err
	}

	cookie, err := jwt.CreateCookie(sessionID.String())
	if err != nil {
		return err
	}

	http.SetCookie(w, &cookie)
	return nil
}

// BootstrapAdmin creates the configured admin account unless the username is already taken.
func BootstrapAdmin(ctx context.Context, _store *storage.Store, username string, password string) (models.User, bool, error) {
	if err := inputs.Username(username); err != nil {
		return models.User{}, false, fmt.Errorf("admin username: %w", err)
	}
	if err := inputs.Password(password); err != nil {
		return models.User{}, false, fmt.Errorf("admin password: %w", err)
	}

	existing, err := _store.GetUserByUsername(ctx, username)
	if err == nil {
		return existing, false, nil
	} else if !errors.Is(err, storage.ErrNotFound) {
		return models.User{}, false, err
	}

	passwordBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return models.User{}, false, err
	}

	user, err := _store.CreateUser(ctx, username, passwordBytes)
	if err != nil {
		return models.User{}, false, err
	}
	return user, true, nil
}
