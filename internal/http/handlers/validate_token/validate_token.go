package validatetoken

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	e "resetpass/internal/core/domain/errors"
	"resetpass/internal/core/domain/token"
	"resetpass/internal/core/services"
	service "resetpass/internal/core/services/validate_token"
	"resetpass/internal/http/handlers/response"

	validation "github.com/go-ozzo/ozzo-validation"
)

type Handler struct {
	service services.Service[service.Input, service.Result]
}

func New(service services.Service[service.Input, service.Result]) *Handler {
	if service == nil {
		panic(e.NewNilArgumentError("service"))
	}
	return &Handler{service: service}
}

type Input struct {
	Token string `json:"token"`
}

func (i *Input) FromJSON(r io.Reader) error {
	e := json.NewDecoder(r)
	return e.Decode(i)
}

func (i Input) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Token, validation.Required, validation.Length(0, 1024)),
	)
}

type result struct {
	Status  string `json:"status"`
	Account *struct {
		Email    string `json:"email"`
		Username string `json:"username"`
	} `json:"account,omitempty"`
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	input := Input{}
	if err := input.FromJSON(r.Body); err != nil {
		response.RenderError(rw, "invalid request data", http.StatusBadRequest)
		return
	}
	if err := input.Validate(); err != nil {
		response.Render(rw, err, http.StatusBadRequest)
		return
	}

	serviceResult, err := h.service.Run(r.Context(), service.Input{Key: token.Key(input.Token)})
	if err != nil {
		switch {
		case errors.Is(err, token.ErrTokenDoesNotExist):
			response.RenderNotFound(rw, "token not found")
		case errors.Is(err, token.ErrTokenExpired):
			response.RenderNotFound(rw, "token expired")
		default:
			response.RenderInternalError(rw)
		}
		return
	}

	res := result{Status: "OK"}
	if serviceResult.Account.IsPresent {
		a := serviceResult.Account.Value
		res.Account = &struct {
			Email    string `json:"email"`
			Username string `json:"username"`
		}{Email: string(a.Email), Username: a.Username}
	}
	response.Render(rw, res, http.StatusOK)
}
