package services

import (
	"context"

	"resetpass/internal/app/deps"
	"resetpass/internal/core/domain/account"
	dl "resetpass/internal/core/domain/logging"
	drl "resetpass/internal/core/domain/rate_limiter"
	"resetpass/internal/core/services"
	confirmreset "resetpass/internal/core/services/confirm_reset"
	ratelimiting "resetpass/internal/core/services/rate_limiting"
	requesttoken "resetpass/internal/core/services/request_token"
	validatetoken "resetpass/internal/core/services/validate_token"
)

var defaultRequestRateLimit = drl.Limit{Interval: drl.Day, Value: 3}

type Services struct {
	RequestToken  services.Service[requesttoken.Input, requesttoken.Result]
	ValidateToken services.Service[validatetoken.Input, validatetoken.Result]
	ConfirmReset  services.Service[confirmreset.Input, confirmreset.Result]
}

func InitServices(deps *deps.Deps) *Services {
	s := &Services{}

	s.RequestToken = ratelimiting.WithRateLimiting(
		deps.Logger,
		deps.RateLimiter,
		requestRateLimit(deps),
		requesttoken.New(
			deps.Logger,
			deps.UnitOfWork,
			deps.AccountRepository,
			deps.TokenRepository,
			deps.TokenGenerator,
			deps.Notifier,
			deps.Now,
			deps.Config.TokenExpiry(),
			account.LookupField(deps.Config.LookupField),
			deps.Config.NoInformationLeakage,
			deps.Config.RequireUsablePassword,
		),
	)
	s.ValidateToken = validatetoken.New(
		deps.Logger,
		deps.TokenRepository,
		deps.AccountRepository,
		deps.Now,
		deps.Config.TokenExpiry(),
		deps.Config.AccountDetailsOnValidate,
	)
	s.ConfirmReset = confirmreset.New(
		deps.Logger,
		deps.UnitOfWork,
		deps.TokenRepository,
		deps.AccountRepository,
		deps.PasswordHasher,
		deps.PasswordPolicy,
		deps.Notifier,
		deps.Now,
		deps.Config.TokenExpiry(),
		deps.Config.RequireUsablePassword,
	)

	return s
}

func requestRateLimit(deps *deps.Deps) drl.Limit {
	limit, ok := drl.ParseLimit(deps.Config.RequestRateLimit)
	if !ok {
		deps.Logger.Warning(
			context.Background(),
			"Invalid request rate limit, falling back to default.",
			dl.Entry("configured", deps.Config.RequestRateLimit),
			dl.Entry("default", defaultRequestRateLimit.String()),
		)
		return defaultRequestRateLimit
	}
	return limit
}
