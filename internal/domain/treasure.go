package domain

import "time"

// ClaimPhase names the states of one treasure-box claim sequence.
type ClaimPhase string

const (
	ClaimIdle     ClaimPhase = "idle"
	ClaimPolling  ClaimPhase = "polling"
	ClaimWaiting  ClaimPhase = "waiting"
	ClaimClaiming ClaimPhase = "claiming"
	ClaimDone     ClaimPhase = "done"
	ClaimBlocked  ClaimPhase = "blocked"
)

// ClaimState is the ephemeral state of one claim sequence. It lives only
// for the duration of the sequence and is never persisted; a process
// restart always begins fresh on the next daily round.
type ClaimState struct {
	Phase    ClaimPhase
	Cooldown time.Duration
	Attempts int
}

func (s ClaimState) Terminal() bool {
	return s.Phase == ClaimDone || s.Phase == ClaimBlocked
}
