package main

import (
	"context"

	"resetpass/internal/app/deps"
	"resetpass/internal/core/domain/logging"
	"resetpass/internal/core/domain/token"
)

// One-shot sweep of expired reset tokens, intended for cron.
func main() {
	deps, shutdownDeps := deps.InitDeps()
	defer shutdownDeps()

	ctx := context.Background()
	cutoff := token.ExpiryCutoff(deps.Now(), deps.Config.TokenExpiry())

	evicted, err := deps.TokenRepository.DeleteExpiredBefore(ctx, cutoff)
	if err != nil {
		deps.Logger.Error(ctx, "Could not delete expired reset tokens.", logging.Entry("err", err))
		return
	}
	deps.Logger.Info(
		ctx,
		"Expired reset tokens deleted.",
		logging.Entry("count", evicted),
		logging.Entry("cutoff", cutoff),
	)
}
