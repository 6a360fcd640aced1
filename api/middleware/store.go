package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/scyware/assettrack-backend/api/responses"
	pkgerrors "github.com/scyware/assettrack-backend/pkg/errors"
	"github.com/scyware/assettrack-backend/pkg/logger"
)

const activeStoreHeader = "X-Active-Store"

// StoreContext resolves the active store for the request. Admins and
// technicians are always pinned to their assigned store; the header never
// overrides it. Super admins may select any store via the header, and an
// absent or malformed value resolves to the wildcard scope rather than
// failing the request.
func StoreContext(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			role := RoleFromContext(ctx)

			if role.CanSwitchStore() {
				raw := strings.TrimSpace(r.Header.Get(activeStoreHeader))
				if raw != "" {
					if parsed, err := uuid.Parse(raw); err == nil {
						ctx = WithStoreID(ctx, parsed.String())
					}
				}
				if logg != nil && StoreIDFromContext(ctx) != "" {
					ctx = logg.WithFields(ctx, map[string]any{"store_id": StoreIDFromContext(ctx)})
				}
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			assigned := AssignedStoreFromContext(ctx)
			if assigned == "" {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "store context missing"))
				return
			}

			ctx = WithStoreID(ctx, assigned)
			if logg != nil {
				ctx = logg.WithFields(ctx, map[string]any{"store_id": assigned})
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
