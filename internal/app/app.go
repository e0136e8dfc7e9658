package app

import (
	"net/http"

	"resetpass/internal/app/deps"
	"resetpass/internal/app/services"
	"resetpass/internal/core/domain/account"
	confirmreset "resetpass/internal/http/handlers/confirm_reset"
	requesttoken "resetpass/internal/http/handlers/request_token"
	validatetoken "resetpass/internal/http/handlers/validate_token"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

func InitHttpServer(deps *deps.Deps, s *services.Services) *http.Server {
	resetRouter := chi.NewRouter()
	resetRouter.Method(
		http.MethodPost,
		"/",
		requesttoken.New(
			s.RequestToken,
			account.LookupField(deps.Config.LookupField),
			deps.Config.UserAgentHeader,
			deps.Config.IPHeader,
			deps.Config.IsTestMode,
		),
	)
	resetRouter.Method(http.MethodPost, "/validate_token", validatetoken.New(s.ValidateToken))
	resetRouter.Method(http.MethodPost, "/confirm", confirmreset.New(s.ConfirmReset))

	router := chi.NewRouter()
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))
	router.Mount("/password_reset", resetRouter)

	return &http.Server{
		Handler: router,
		Addr:    deps.Config.HTTPAddress,
	}
}
