package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bnema/bilive-keeper/internal/domain"
	"github.com/bnema/bilive-keeper/internal/ports"
)

// EventRoomService runs the per (account, room) activity heartbeat chain:
// discover whether the room's broadcaster wants heartbeats, then keep
// sending them on the server-specified interval until the server turns
// them off. A chain that errors is dropped without retry; rediscovery only
// happens on a later daily round.
type EventRoomService struct {
	client ports.LiveClient
	clock  ports.Clock
	log    *slog.Logger
}

func NewEventRoomService(client ports.LiveClient, clock ports.Clock, log *slog.Logger) *EventRoomService {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if log == nil {
		log = slog.Default()
	}

	return &EventRoomService{
		client: client,
		clock:  clock,
		log:    log,
	}
}

// RunChain blocks until the chain ends and reports how many heartbeats were
// sent. A room that never wanted heartbeats returns (0, nil).
func (s *EventRoomService) RunChain(ctx context.Context, session domain.Session, roomID domain.RoomID) (int, error) {
	log := s.log.With("account", session.Label(), "room", int64(roomID))

	info, err := s.client.RoomInfo(ctx, roomID)
	if err != nil {
		return 0, fmt.Errorf("room info: %w", err)
	}

	index, err := s.client.EventIndex(ctx, session, info.MasterID)
	if err != nil {
		return 0, fmt.Errorf("event index: %w", err)
	}
	if !index.WantsHeartbeat() {
		log.Debug("room wants no activity heartbeat")
		return 0, nil
	}

	state := domain.EventRoomState{
		RoomID:   roomID,
		Interval: index.Interval(),
		Active:   true,
	}
	log.Info("activity heartbeat chain started", "interval", state.Interval)

	sent := 0
	for state.Active {
		if err := s.clock.Sleep(ctx, state.Interval); err != nil {
			return sent, err
		}

		reply, err := s.client.EventHeartbeat(ctx, session, roomID)
		if err != nil {
			return sent, fmt.Errorf("event heartbeat: %w", err)
		}
		sent++
		state.Active = reply.Heart
	}

	log.Info("activity heartbeat chain ended", "sent", sent)
	return sent, nil
}
