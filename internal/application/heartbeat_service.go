package application

import (
	"context"
	"log/slog"
	"sync"

	"github.com/bnema/bilive-keeper/internal/domain"
	"github.com/bnema/bilive-keeper/internal/ports"
)

// HeartbeatService runs the presence-heartbeat round: every active account
// gets a session heartbeat and a token heartbeat, each fire-and-forget
// relative to the other. An auth-invalid reply is forwarded to the sink;
// every other failure is logged and swallowed so one account can never
// delay or break the round for the rest.
type HeartbeatService struct {
	client ports.LiveClient
	sink   ports.AuthSink
	log    *slog.Logger
}

func NewHeartbeatService(client ports.LiveClient, sink ports.AuthSink, log *slog.Logger) *HeartbeatService {
	if log == nil {
		log = slog.Default()
	}

	return &HeartbeatService{
		client: client,
		sink:   sink,
		log:    log,
	}
}

// RunRound blocks until every account's heartbeats have completed or failed.
func (s *HeartbeatService) RunRound(ctx context.Context, sessions []domain.Session) {
	var wg sync.WaitGroup
	for _, session := range sessions {
		wg.Add(1)
		go func(session domain.Session) {
			defer wg.Done()
			s.heartbeatAccount(ctx, session)
		}(session)
	}
	wg.Wait()
}

func (s *HeartbeatService) heartbeatAccount(ctx context.Context, session domain.Session) {
	var wg sync.WaitGroup

	if session.HasCookie() {
		wg.Add(1)
		go func() {
			defer wg.Done()

			reply, err := s.client.SessionHeartbeat(ctx, session)
			if err != nil {
				s.log.Warn("session heartbeat failed", "account", session.Label(), "error", err)
				return
			}
			if reply.AuthInvalid() {
				s.log.Warn("browsing session no longer valid", "account", session.Label())
				s.sink.SessionInvalid(session.AccountID)
			}
		}()
	}

	if session.HasToken() {
		wg.Add(1)
		go func() {
			defer wg.Done()

			reply, err := s.client.TokenHeartbeat(ctx, session)
			if err != nil {
				s.log.Warn("token heartbeat failed", "account", session.Label(), "error", err)
				return
			}
			if reply.AuthInvalid() {
				s.log.Warn("access token no longer valid", "account", session.Label())
				s.sink.TokenInvalid(session.AccountID)
			}
		}()
	}

	wg.Wait()
}
