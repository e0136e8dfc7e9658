package requesttoken

import (
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"

	"resetpass/internal/core/domain/account"
	e "resetpass/internal/core/domain/errors"
	ratelimiter "resetpass/internal/core/domain/rate_limiter"
	"resetpass/internal/core/services"
	service "resetpass/internal/core/services/request_token"
	"resetpass/internal/http/handlers/response"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

type Handler struct {
	service         services.Service[service.Input, service.Result]
	lookupField     account.LookupField
	userAgentHeader string
	ipHeader        string
	isTestMode      bool
}

func New(
	service services.Service[service.Input, service.Result],
	lookupField account.LookupField,
	userAgentHeader string,
	ipHeader string,
	isTestMode bool,
) *Handler {
	if service == nil {
		panic(e.NewNilArgumentError("service"))
	}
	return &Handler{
		service:         service,
		lookupField:     lookupField,
		userAgentHeader: userAgentHeader,
		ipHeader:        ipHeader,
		isTestMode:      isTestMode,
	}
}

type Input struct {
	Email    string `json:"email"`
	Username string `json:"username"`

	lookupField account.LookupField
}

func (i *Input) FromJSON(r io.Reader) error {
	e := json.NewDecoder(r)
	return e.Decode(i)
}

func (i Input) Validate() error {
	if i.lookupField == account.LookupByUsername {
		return validation.ValidateStruct(&i,
			validation.Field(&i.Username, validation.Required, validation.Length(0, 256)),
		)
	}
	return validation.ValidateStruct(&i,
		validation.Field(&i.Email, validation.Required, is.Email, validation.Length(0, 512)),
	)
}

func (i Input) Identifier() string {
	if i.lookupField == account.LookupByUsername {
		return i.Username
	}
	return i.Email
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	input := Input{lookupField: h.lookupField}
	if err := input.FromJSON(r.Body); err != nil {
		response.RenderError(rw, "invalid request data", http.StatusBadRequest)
		return
	}
	if err := input.Validate(); err != nil {
		response.Render(rw, err, http.StatusBadRequest)
		return
	}

	result, err := h.service.Run(
		r.Context(),
		service.Input{
			Identifier: input.Identifier(),
			UserAgent:  r.Header.Get(h.userAgentHeader),
			IP:         h.clientIP(r),
		},
	)
	if err != nil {
		switch {
		case errors.Is(err, ratelimiter.ErrRateLimitExceeded):
			response.RenderRateLimitExceeded(rw)
		case errors.Is(err, account.ErrNoEligibleAccount):
			response.RenderFieldErrors(rw, response.FieldErrors{
				string(h.lookupField): {
					"We couldn't find an account associated with that identifier. Please try again.",
				},
			})
		default:
			response.RenderInternalError(rw)
		}
		return
	}

	if h.isTestMode && len(result.Tokens) > 0 {
		rw.Header().Set("x-test-password-reset-token", string(result.Tokens[0].Key))
	}
	response.RenderOK(rw)
}

func (h *Handler) clientIP(r *http.Request) string {
	if v := r.Header.Get(h.ipHeader); v != "" {
		// The first address in a forwarding chain is the originating client.
		return strings.TrimSpace(strings.SplitN(v, ",", 2)[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
