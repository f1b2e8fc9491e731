package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"lawpages-go/internal/config"
	"lawpages-go/pkg/logger"
)

type contextKey int

const actorIDKey contextKey = iota

// Auth validates the bearer JWT and puts the actor id (the token's sub
// claim) on the request context. It only establishes identity; every
// authorization decision belongs to the permission resolver downstream.
type Auth struct {
	secret    []byte
	issuer    string
	skipAuth  bool
	mockActor string
	log       logger.Logger
}

func NewAuth(cfg config.AuthConfig, log logger.Logger) *Auth {
	return &Auth{
		secret:    []byte(cfg.JWTSecret),
		issuer:    strings.TrimSpace(cfg.Issuer),
		skipAuth:  cfg.SkipAuth,
		mockActor: strings.TrimSpace(cfg.MockActor),
		log:       log,
	}
}

func (a *Auth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.skipAuth {
			if a.mockActor == "" {
				writeError(w, http.StatusInternalServerError, "auth_not_configured", "auth mock actor id not configured")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithActorID(r.Context(), a.mockActor)))
			return
		}

		if len(a.secret) == 0 {
			writeError(w, http.StatusInternalServerError, "auth_not_configured", "auth jwt secret not configured")
			return
		}

		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			unauthorized(w)
			return
		}

		actorID, err := a.parseActor(token)
		if err != nil {
			a.log.BusinessError("auth: token rejected", err)
			unauthorized(w)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithActorID(r.Context(), actorID)))
	})
}

func (a *Auth) parseActor(tokenString string) (string, error) {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if a.issuer != "" {
		options = append(options, jwt.WithIssuer(a.issuer))
	}

	token, err := jwt.Parse(tokenString, func(*jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, options...)
	if err != nil {
		return "", err
	}

	subject, err := token.Claims.GetSubject()
	if err != nil {
		return "", err
	}
	if subject == "" {
		return "", fmt.Errorf("token has no subject")
	}

	return subject, nil
}

func bearerToken(value string) (string, bool) {
	parts := strings.Fields(value)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

func WithActorID(ctx context.Context, actorID string) context.Context {
	return context.WithValue(ctx, actorIDKey, actorID)
}

func ActorIDFromContext(ctx context.Context) (string, bool) {
	actorID, ok := ctx.Value(actorIDKey).(string)
	if !ok || actorID == "" {
		return "", false
	}
	return actorID, true
}

func unauthorized(w http.ResponseWriter) {
	writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
