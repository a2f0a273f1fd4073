package application

import (
	"context"
	"time"

	"github.com/bnema/bilive-keeper/internal/domain"
	"github.com/bnema/bilive-keeper/internal/ports"
)

// ProbeResult is one account's answer to `bk check`: current sign-in state
// and the cooldown on the next treasure box, without claiming anything.
type ProbeResult struct {
	AccountID      domain.AccountID
	Label          string
	Signed         bool
	NextBox        time.Duration
	BoxesExhausted bool
	Err            error
}

// Probe performs the one-shot status queries behind `bk check`.
type Probe struct {
	client ports.LiveClient
}

func NewProbe(client ports.LiveClient) *Probe {
	return &Probe{client: client}
}

func (p *Probe) Run(ctx context.Context, sessions []domain.Session) []ProbeResult {
	results := make([]ProbeResult, 0, len(sessions))
	for _, session := range sessions {
		results = append(results, p.probeOne(ctx, session))
	}

	return results
}

func (p *Probe) probeOne(ctx context.Context, session domain.Session) ProbeResult {
	result := ProbeResult{
		AccountID: session.AccountID,
		Label:     session.Label(),
	}
	if !session.HasToken() {
		result.Err = domain.ErrCredentialMissing
		return result
	}

	info, err := p.client.SignInfo(ctx, session)
	if err != nil {
		result.Err = err
		return result
	}
	result.Signed = info.Signed()

	task, err := p.client.CurrentTask(ctx, session)
	if err != nil {
		result.Err = err
		return result
	}

	switch {
	case task.Exhausted():
		result.BoxesExhausted = true
	case task.Code == domain.CodeOK:
		result.NextBox = task.Cooldown()
	}

	return result
}
