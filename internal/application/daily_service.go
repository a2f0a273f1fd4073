package application

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/bnema/bilive-keeper/internal/domain"
	"github.com/bnema/bilive-keeper/internal/ports"
)

// AccountWork pairs the per-round session handle with the account's task
// flags for one daily round.
type AccountWork struct {
	Session domain.Session
	Tasks   domain.TaskFlags
}

// DailyService runs the long round: per account, a sign-in check, a fresh
// treasure-box claim sequence, and event-room discovery for every configured
// room. All per-account work runs concurrently with no ordering guarantees;
// failures stay inside the task instance that hit them.
type DailyService struct {
	client  ports.LiveClient
	claimer *TreasureClaimer
	rooms   *EventRoomService
	log     *slog.Logger
}

func NewDailyService(client ports.LiveClient, claimer *TreasureClaimer, rooms *EventRoomService, log *slog.Logger) *DailyService {
	if log == nil {
		log = slog.Default()
	}

	return &DailyService{
		client:  client,
		claimer: claimer,
		rooms:   rooms,
		log:     log,
	}
}

// RunRound blocks until every launched task has finished.
func (s *DailyService) RunRound(ctx context.Context, work []AccountWork, rooms []domain.Room) {
	var wg sync.WaitGroup

	for _, w := range work {
		if w.Tasks.DoSign {
			wg.Add(1)
			go func(session domain.Session) {
				defer wg.Done()
				s.checkSignIn(ctx, session)
			}(w.Session)
		}

		if w.Tasks.TreasureBox {
			wg.Add(1)
			go func(session domain.Session) {
				defer wg.Done()
				s.claimTreasure(ctx, session)
			}(w.Session)
		}

		if w.Tasks.EventRooms && len(rooms) > 0 && w.Session.HasCookie() {
			for _, room := range rooms {
				wg.Add(1)
				go func(session domain.Session, roomID domain.RoomID) {
					defer wg.Done()
					if _, err := s.rooms.RunChain(ctx, session, roomID); err != nil {
						s.log.Warn("event room chain ended with error", "account", session.Label(), "room", int64(roomID), "error", err)
					}
				}(w.Session, room.ID)
			}
		}
	}

	wg.Wait()
}

func (s *DailyService) checkSignIn(ctx context.Context, session domain.Session) {
	if !session.HasToken() {
		return
	}

	info, err := s.client.SignInfo(ctx, session)
	if err != nil {
		s.log.Warn("sign-in check failed", "account", session.Label(), "error", err)
		return
	}
	if info.Signed() {
		s.log.Info("already signed in today", "account", session.Label(), "days", info.HadSignDays)
	}
}

func (s *DailyService) claimTreasure(ctx context.Context, session domain.Session) {
	var (
		state domain.ClaimState
		err   error
	)

	// The signed token surface is primary; accounts with only a browsing
	// session fall back to the captcha-gated web surface.
	switch {
	case session.HasToken():
		state, err = s.claimer.Run(ctx, session)
	case session.HasCookie():
		state, err = s.claimer.RunWeb(ctx, session)
	default:
		return
	}

	if errors.Is(err, ErrClaimInFlight) {
		s.log.Info("claim sequence still running, skipping", "account", session.Label())
		return
	}
	if err != nil {
		s.log.Warn("claim sequence failed to start", "account", session.Label(), "error", err)
		return
	}

	s.log.Debug("claim sequence finished", "account", session.Label(), "phase", string(state.Phase))
}
