package controllers

import (
	"net/http"

	"github.com/scyware/assettrack-backend/api/responses"
	"github.com/scyware/assettrack-backend/internal/activity"
	pkgerrors "github.com/scyware/assettrack-backend/pkg/errors"
	"github.com/scyware/assettrack-backend/pkg/logger"
)

// ActivityList returns a cursor page of audit entries for the caller's scope.
func ActivityList(svc activity.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "activity service unavailable"))
			return
		}
		scope, err := scopeFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params, err := paginationParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		page, err := svc.List(r.Context(), activity.ListInput{
			Scope:   scope,
			Filters: activity.ListFilters{Action: r.URL.Query().Get("action")},
			Params:  params,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}
