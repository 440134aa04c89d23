package auth

import (
	"encoding/json"
	"net/http"
)

// OwnerHeader identifies the owning account on every request. Session
// mechanics live in the gateway in front of this service; by the time a
// request arrives here the header is trusted.
const OwnerHeader = "X-Owner-ID"

// Middleware rejects requests without an owner scope and threads the
// owner ID through the request context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ownerID := r.Header.Get(OwnerHeader)
		if ownerID == "" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"success": false,
				"message": "missing owner scope",
			})
			return
		}
		next.ServeHTTP(w, r.WithContext(WithOwnerID(r.Context(), ownerID)))
	})
}
