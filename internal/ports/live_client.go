package ports

import (
	"context"

	"github.com/bnema/bilive-keeper/internal/domain"
)

// LiveClient is the transport boundary to the live-streaming platform.
// Implementations own request construction, signing, and TLS; any network,
// timeout, or body-decoding failure is returned as an error and treated by
// the scheduler as a transport failure.
type LiveClient interface {
	// SessionHeartbeat posts the cookie-authenticated presence heartbeat.
	SessionHeartbeat(ctx context.Context, s domain.Session) (domain.HeartbeatReply, error)
	// TokenHeartbeat posts the signed token-authenticated presence heartbeat.
	TokenHeartbeat(ctx context.Context, s domain.Session) (domain.HeartbeatReply, error)

	// SignInfo queries daily sign-in state over the signed surface; the
	// endpoint auto-grants the sign-in on query.
	SignInfo(ctx context.Context, s domain.Session) (domain.SignInfo, error)

	// CurrentTask queries the treasure-box claim task over the signed surface.
	CurrentTask(ctx context.Context, s domain.Session) (domain.ClaimTask, error)
	// CurrentTaskWeb is the cookie-authenticated variant of CurrentTask.
	CurrentTaskWeb(ctx context.Context, s domain.Session) (domain.ClaimTask, error)
	// ClaimAward claims the current treasure box over the signed surface.
	ClaimAward(ctx context.Context, s domain.Session) (domain.AwardReply, error)
	// CaptchaImage fetches the raw captcha image guarding the web award.
	CaptchaImage(ctx context.Context, s domain.Session) ([]byte, error)
	// ClaimAwardWeb claims over the web surface with a solved captcha answer
	// and the claim window reported by CurrentTaskWeb.
	ClaimAwardWeb(ctx context.Context, s domain.Session, task domain.ClaimTask, answer int) (domain.AwardReply, error)

	// RoomInfo resolves room metadata (the owning broadcaster identity).
	RoomInfo(ctx context.Context, id domain.RoomID) (domain.RoomInfo, error)
	// EventIndex queries a broadcaster's activity participation state.
	EventIndex(ctx context.Context, s domain.Session, masterID int64) (domain.EventIndex, error)
	// EventHeartbeat posts one activity heartbeat for a room.
	EventHeartbeat(ctx context.Context, s domain.Session, id domain.RoomID) (domain.EventHeartReply, error)
}
