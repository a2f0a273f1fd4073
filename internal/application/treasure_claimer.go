package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bnema/bilive-keeper/internal/domain"
	"github.com/bnema/bilive-keeper/internal/ports"
)

// ErrClaimInFlight is returned when a claim sequence is requested for an
// account that already has one running.
var ErrClaimInFlight = errors.New("claim sequence already in flight")

// TreasureClaimer drives the treasure-box claim sequence for one account:
// poll the current task, wait out the server-enforced cooldown, claim, and
// repeat until the boxes are exhausted or the retry policy gives up. The
// cooldown is server-authoritative and changes per call, so the sequence
// re-polls after every claim instead of assuming a fixed period.
type TreasureClaimer struct {
	client   ports.LiveClient
	solver   ports.CaptchaSolver
	clock    ports.Clock
	policy   ClaimPolicy
	log      *slog.Logger
	inflight *inflightSet
}

func NewTreasureClaimer(client ports.LiveClient, solver ports.CaptchaSolver, clock ports.Clock, policy ClaimPolicy, log *slog.Logger) *TreasureClaimer {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if log == nil {
		log = slog.Default()
	}

	return &TreasureClaimer{
		client:   client,
		solver:   solver,
		clock:    clock,
		policy:   policy.withDefaults(),
		log:      log,
		inflight: newInflightSet(),
	}
}

// Run executes one token-surface claim sequence. At most one sequence runs
// per account; a second request returns ErrClaimInFlight.
func (c *TreasureClaimer) Run(ctx context.Context, session domain.Session) (domain.ClaimState, error) {
	return c.start(ctx, session, tokenSurface{client: c.client})
}

// RunWeb executes the cookie-surface variant, whose claim step is gated by
// a numeric captcha.
func (c *TreasureClaimer) RunWeb(ctx context.Context, session domain.Session) (domain.ClaimState, error) {
	return c.start(ctx, session, webSurface{client: c.client, solver: c.solver})
}

func (c *TreasureClaimer) start(ctx context.Context, session domain.Session, surface claimSurface) (domain.ClaimState, error) {
	if !c.inflight.TryAcquire(session.AccountID) {
		return domain.ClaimState{Phase: domain.ClaimIdle}, ErrClaimInFlight
	}
	defer c.inflight.Release(session.AccountID)

	return c.run(ctx, session, surface), nil
}

func (c *TreasureClaimer) run(ctx context.Context, session domain.Session, surface claimSurface) domain.ClaimState {
	log := c.log.With("account", session.Label(), "surface", surface.name())
	state := domain.ClaimState{Phase: domain.ClaimPolling}

	for {
		task, err := surface.currentTask(ctx, session)
		if err != nil {
			log.Warn("treasure task poll failed", "error", err)
			state.Phase = domain.ClaimBlocked
			return state
		}

		if task.Exhausted() {
			log.Info("all treasure boxes claimed today")
			state.Phase = domain.ClaimBlocked
			return state
		}
		if task.Code != domain.CodeOK {
			log.Warn("unexpected treasure task status", "code", task.Code)
			state.Phase = domain.ClaimBlocked
			return state
		}

		state.Phase = domain.ClaimWaiting
		state.Cooldown = task.Cooldown()
		if err := c.clock.Sleep(ctx, state.Cooldown); err != nil {
			state.Phase = domain.ClaimDone
			return state
		}

		state.Phase = domain.ClaimClaiming
		reply, err := surface.claim(ctx, session, task)

		switch {
		case err == nil && reply.Claimed():
			log.Info("treasure box claimed", "silver", reply.Silver)
			state.Attempts = 0
			state.Phase = domain.ClaimPolling

		case err == nil || errors.Is(err, domain.ErrCaptchaUnsolved):
			// A rejected claim and an unsolved captcha both restart the
			// sequence from polling, with the restart counted and backed off.
			state.Attempts++
			if state.Attempts >= c.policy.MaxAttempts {
				log.Warn("treasure claim retries exhausted", "attempts", state.Attempts)
				state.Phase = domain.ClaimBlocked
				return state
			}

			delay := c.policy.backoff(state.Attempts)
			if err == nil {
				log.Warn("treasure claim rejected, restarting sequence", "code", reply.Code, "attempt", state.Attempts, "backoff", delay)
			} else {
				log.Warn("captcha unsolved, restarting sequence", "attempt", state.Attempts, "backoff", delay)
			}
			if err := c.clock.Sleep(ctx, delay); err != nil {
				state.Phase = domain.ClaimDone
				return state
			}
			state.Phase = domain.ClaimPolling

		default:
			log.Warn("treasure claim failed", "error", err)
			state.Phase = domain.ClaimBlocked
			return state
		}
	}
}

// claimSurface abstracts the two claim variants: the signed token surface
// and the cookie web surface with its captcha gate.
type claimSurface interface {
	name() string
	currentTask(ctx context.Context, s domain.Session) (domain.ClaimTask, error)
	claim(ctx context.Context, s domain.Session, task domain.ClaimTask) (domain.AwardReply, error)
}

type tokenSurface struct {
	client ports.LiveClient
}

func (t tokenSurface) name() string { return "token" }

func (t tokenSurface) currentTask(ctx context.Context, s domain.Session) (domain.ClaimTask, error) {
	return t.client.CurrentTask(ctx, s)
}

func (t tokenSurface) claim(ctx context.Context, s domain.Session, _ domain.ClaimTask) (domain.AwardReply, error) {
	return t.client.ClaimAward(ctx, s)
}

type webSurface struct {
	client ports.LiveClient
	solver ports.CaptchaSolver
}

func (w webSurface) name() string { return "web" }

func (w webSurface) currentTask(ctx context.Context, s domain.Session) (domain.ClaimTask, error) {
	return w.client.CurrentTaskWeb(ctx, s)
}

func (w webSurface) claim(ctx context.Context, s domain.Session, task domain.ClaimTask) (domain.AwardReply, error) {
	image, err := w.client.CaptchaImage(ctx, s)
	if err != nil {
		return domain.AwardReply{}, fmt.Errorf("fetch captcha image: %w", err)
	}

	answer, err := w.solver.Solve(ctx, image)
	if err != nil {
		if errors.Is(err, domain.ErrCaptchaUnsolved) {
			return domain.AwardReply{}, err
		}
		return domain.AwardReply{}, fmt.Errorf("solve captcha: %w", err)
	}
	if answer < 0 {
		return domain.AwardReply{}, domain.ErrCaptchaUnsolved
	}

	return w.client.ClaimAwardWeb(ctx, s, task, answer)
}
