package middleware

import (
	"crypto/subtle"
	"net/http"
)

const webhookTokenHeader = "X-Webhook-Token"

// RequireWebhookToken guards machine endpoints (the payment gateway
// callback) with a shared secret instead of a user JWT.
func RequireWebhookToken(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token == "" {
				writeError(w, http.StatusInternalServerError, "webhook_not_configured", "webhook token not configured")
				return
			}

			provided := r.Header.Get(webhookTokenHeader)
			if subtle.ConstantTimeCompare([]byte(provided), []byte(token)) != 1 {
				writeError(w, http.StatusUnauthorized, "invalid_webhook_token", "invalid webhook token")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
