package jwt

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const CookieName = "essence.sid"

// SessionToken is the signed payload of the session cookie. It only carries the session ID,
// the session itself lives in the key-value store.
type SessionToken struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

var sessionSecret []byte
var isHttps bool
var lifeTime = 24 * time.Hour

func Setup(_secret string, _isHttps bool, _lifeTime time.Duration) {
	sessionSecret = []byte(_secret)
	isHttps = _isHttps
	if _lifeTime > 0 {
		lifeTime = _lifeTime
	}
}

func LifeTime() time.Duration {
	return lifeTime
}

func CreateCookie(sessionID string) (http.Cookie, error) {
	currentTime := time.Now().UTC()
	expirationDate := currentTime.Add(lifeTime)

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, SessionToken{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(expirationDate),
		},
	})

	tokenString, err := token.SignedString(sessionSecret)
	if err != nil {
		return http.Cookie{}, err
	}

	return http.Cookie{
		Name:     CookieName,
		Value:    tokenString,
		Path:     "/",
		Expires:  expirationDate,
		HttpOnly: true,
		Secure:   isHttps,
		SameSite: http.SameSiteLaxMode,
	}, nil
}

func DeleteCookie() http.Cookie {
	return http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   isHttps,
		SameSite: http.SameSiteLaxMode,
	}
}

// VerifyToken checks signature and expiry and returns the session ID inside.
func VerifyToken(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionToken{}, func(token *jwt.Token) (interface{}, error) {
		return sessionSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(*SessionToken)
	if !ok || claims.SessionID == "" {
		return "", errors.New("invalid token")
	}
	return claims.SessionID, nil
}
