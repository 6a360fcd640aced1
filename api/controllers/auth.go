package controllers

import (
	"net/http"

	"github.com/scyware/assettrack-backend/api/responses"
	"github.com/scyware/assettrack-backend/api/validators"
	"github.com/scyware/assettrack-backend/internal/auth"
	pkgerrors "github.com/scyware/assettrack-backend/pkg/errors"
	"github.com/scyware/assettrack-backend/pkg/logger"
)

type loginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

func (b loginRequest) toInput() auth.LoginInput {
	return auth.LoginInput{
		Identifier: b.Identifier,
		Password:   b.Password,
	}
}

// AuthLogin wires the login endpoint into the HTTP layer.
func AuthLogin(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body loginRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), body.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		w.Header().Set("X-AT-Token", result.Token)
		responses.WriteSuccess(w, result)
	}
}
