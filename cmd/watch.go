package cmd

import (
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bnema/bilive-keeper/internal/application"
	"github.com/bnema/bilive-keeper/internal/domain"
	"github.com/bnema/bilive-keeper/internal/ports"
)

func newWatchCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Run the scheduler until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return newKeeper(app).Start(ctx)
		},
	}
}

func newKeeper(app *app) *application.Keeper {
	sink := &loggingAuthSink{log: app.logger}
	clock := ports.SystemClock{}

	heartbeat := application.NewHeartbeatService(app.client, sink, app.logger)
	claimer := application.NewTreasureClaimer(app.client, app.solver, clock, app.keeperCfg.Claim, app.logger)
	rooms := application.NewEventRoomService(app.client, clock, app.logger)
	daily := application.NewDailyService(app.client, claimer, rooms, app.logger)

	return application.NewKeeper(app.accounts, app.rooms, app.resolver, heartbeat, daily, app.keeperCfg, app.logger)
}

// loggingAuthSink surfaces terminal credential failures in the process log.
// The scheduler never attempts re-login; the operator reacts to these lines.
type loggingAuthSink struct {
	log *slog.Logger
}

var _ ports.AuthSink = (*loggingAuthSink)(nil)

func (s *loggingAuthSink) SessionInvalid(id domain.AccountID) {
	s.log.Error("browsing session invalid, re-login required", "account", string(id))
}

func (s *loggingAuthSink) TokenInvalid(id domain.AccountID) {
	s.log.Error("access token invalid, re-login required", "account", string(id))
}
