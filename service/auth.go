package service

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt"
	"github.com/gorilla/mux"
	"github.com/squintdb/squint/service/auth"
	"github.com/squintdb/squint/service/srverr"
)

type AuthConfig struct {
	Enabled bool
	// Secret verifies HS256 bearer tokens on API requests.
	Secret string
}

// authMiddleware validates a bearer token against the shared secret and
// installs the token's subject as the request identity.
func authMiddleware(conf AuthConfig) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := bearerToken(r)
			if err == nil {
				var ident auth.Identity
				ident, err = validateToken(token, conf.Secret)
				if err == nil {
					next.ServeHTTP(w, r.WithContext(auth.ContextWithIdentity(r.Context(), ident)))
					return
				}
			}
			w.Header().Set("WWW-Authenticate", "Bearer")
			respondError(w, srverr.ErrUnauthorized("%s", err))
		})
	}
}

func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", fmt.Errorf("missing Authorization header")
	}
	token := strings.TrimPrefix(header, "Bearer ")
	if token == header {
		return "", fmt.Errorf("Authorization header is not a bearer token")
	}
	return token, nil
}

func validateToken(token, secret string) (auth.Identity, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return auth.Identity{}, err
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return auth.Identity{}, fmt.Errorf("invalid token")
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return auth.Identity{}, fmt.Errorf("token has no subject")
	}
	return auth.Identity{UserID: auth.UserID(sub)}, nil
}
