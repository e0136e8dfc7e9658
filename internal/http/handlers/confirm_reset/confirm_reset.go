package confirmreset

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"resetpass/internal/core/domain/account"
	e "resetpass/internal/core/domain/errors"
	"resetpass/internal/core/domain/token"
	"resetpass/internal/core/services"
	service "resetpass/internal/core/services/confirm_reset"
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
	Token    string `json:"token"`
	Password string `json:"password"`
}

func (i *Input) FromJSON(r io.Reader) error {
	e := json.NewDecoder(r)
	return e.Decode(i)
}

func (i Input) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Token, validation.Required, validation.Length(0, 1024)),
		validation.Field(&i.Password, validation.Required, validation.Length(1, 256)),
	)
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

	_, err := h.service.Run(
		r.Context(),
		service.Input{
			Key:         token.Key(input.Token),
			NewPassword: account.RawPassword(input.Password),
		},
	)
	if err != nil {
		var weakPassword *account.WeakPasswordError
		switch {
		case errors.Is(err, token.ErrTokenDoesNotExist):
			response.RenderNotFound(rw, "token not found")
		case errors.Is(err, token.ErrTokenExpired):
			response.RenderNotFound(rw, "token expired")
		case errors.As(err, &weakPassword):
			response.RenderFieldErrors(rw, response.FieldErrors{"password": weakPassword.Reasons})
		default:
			response.RenderInternalError(rw)
		}
		return
	}

	response.RenderOK(rw)
}
