package application

import (
	"context"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/bnema/bilive-keeper/internal/domain"
	"github.com/bnema/bilive-keeper/internal/ports"
)

// Keeper owns the two top-level rounds: the presence-heartbeat round and
// the daily task round. Both run once immediately at start and then repeat
// on their configured intervals; a round never fails as a whole, it only
// logs and reschedules.
type Keeper struct {
	accounts  ports.AccountRepository
	rooms     ports.RoomRepository
	resolver  *SessionResolver
	heartbeat *HeartbeatService
	daily     *DailyService
	cfg       KeeperConfig
	log       *slog.Logger

	wg sync.WaitGroup
}

func NewKeeper(
	accounts ports.AccountRepository,
	rooms ports.RoomRepository,
	resolver *SessionResolver,
	heartbeat *HeartbeatService,
	daily *DailyService,
	cfg KeeperConfig,
	log *slog.Logger,
) *Keeper {
	if log == nil {
		log = slog.Default()
	}

	return &Keeper{
		accounts:  accounts,
		rooms:     rooms,
		resolver:  resolver,
		heartbeat: heartbeat,
		daily:     daily,
		cfg:       cfg.withDefaults(),
		log:       log,
	}
}

// Start blocks until ctx is done, then waits for in-flight rounds to wind
// down. Deactivating an account mid-round does not cancel its in-flight
// chains; sequences are bounded and run to natural termination.
func (k *Keeper) Start(ctx context.Context) error {
	k.log.Info("keeper starting",
		"heartbeat_interval", k.cfg.HeartbeatInterval,
		"daily_interval", k.cfg.DailyInterval,
	)

	k.spawn(func() { k.HeartbeatRound(ctx) })
	k.spawn(func() { k.DailyRound(ctx) })

	c := cron.New()
	c.Schedule(cron.Every(k.cfg.HeartbeatInterval), cron.FuncJob(func() {
		k.spawn(func() { k.HeartbeatRound(ctx) })
	}))
	c.Schedule(cron.Every(k.cfg.DailyInterval), cron.FuncJob(func() {
		k.spawn(func() { k.DailyRound(ctx) })
	}))
	c.Start()

	<-ctx.Done()
	<-c.Stop().Done()
	k.wg.Wait()

	k.log.Info("keeper stopped")
	return nil
}

func (k *Keeper) spawn(round func()) {
	k.wg.Add(1)
	go func() {
		defer k.wg.Done()
		round()
	}()
}

// HeartbeatRound resolves sessions for the active accounts and runs one
// presence-heartbeat round.
func (k *Keeper) HeartbeatRound(ctx context.Context) {
	sessions := k.activeSessions(ctx)
	if len(sessions) == 0 {
		return
	}

	k.heartbeat.RunRound(ctx, sessions)
}

// DailyRound resolves sessions and task flags for the active accounts and
// runs one daily task round.
func (k *Keeper) DailyRound(ctx context.Context) {
	accounts, err := k.accounts.List(ctx)
	if err != nil {
		k.log.Error("list accounts", "error", err)
		return
	}

	work := make([]AccountWork, 0, len(accounts))
	for _, account := range accounts {
		if !account.Active {
			continue
		}

		session, err := k.resolver.Resolve(ctx, account)
		if err != nil {
			k.log.Warn("skipping account", "account", account.Label(), "error", err)
			continue
		}

		work = append(work, AccountWork{Session: session, Tasks: account.Tasks})
	}
	if len(work) == 0 {
		return
	}

	rooms, err := k.rooms.List(ctx)
	if err != nil {
		k.log.Error("list event rooms", "error", err)
		rooms = nil
	}

	k.daily.RunRound(ctx, work, rooms)
}

func (k *Keeper) activeSessions(ctx context.Context) []domain.Session {
	accounts, err := k.accounts.List(ctx)
	if err != nil {
		k.log.Error("list accounts", "error", err)
		return nil
	}

	sessions := make([]domain.Session, 0, len(accounts))
	for _, account := range accounts {
		if !account.Active {
			continue
		}

		session, err := k.resolver.Resolve(ctx, account)
		if err != nil {
			k.log.Warn("skipping account", "account", account.Label(), "error", err)
			continue
		}

		sessions = append(sessions, session)
	}

	return sessions
}
