package domain

import "time"

// Application status codes shared by the live-platform endpoints.
const (
	CodeOK = 0
	// CodeAuthInvalid on a heartbeat reply means the session or token it
	// was sent with is no longer accepted.
	CodeAuthInvalid = -101
	// CodeBoxesExhausted means every treasure box was already claimed today.
	CodeBoxesExhausted = -10017
)

// HeartbeatReply is the envelope of both presence-heartbeat endpoints.
type HeartbeatReply struct {
	Code int
	Msg  string
}

func (r HeartbeatReply) AuthInvalid() bool {
	return r.Code == CodeAuthInvalid
}

// SignInfo reports daily sign-in state. The signed endpoint auto-grants
// the sign-in when queried, so Code 0 means "already signed".
type SignInfo struct {
	Code        int
	Status      int
	HadSignDays int
}

func (s SignInfo) Signed() bool {
	return s.Code == CodeOK
}

// ClaimTask is the current treasure-box task for an account. Minute is the
// server-enforced cooldown before the award becomes claimable; TimeStart and
// TimeEnd delimit the claim window expected back by the web award endpoint.
type ClaimTask struct {
	Code      int
	Minute    int
	Silver    int
	TimeStart int64
	TimeEnd   int64
}

func (t ClaimTask) Cooldown() time.Duration {
	return time.Duration(t.Minute) * time.Minute
}

func (t ClaimTask) Exhausted() bool {
	return t.Code == CodeBoxesExhausted
}

// AwardReply is the result of a treasure-box claim.
type AwardReply struct {
	Code   int
	Silver int
	IsEnd  bool
}

func (r AwardReply) Claimed() bool {
	return r.Code == CodeOK
}

// RoomInfo carries the subset of room metadata the scheduler needs: the
// owning broadcaster identity used for activity discovery.
type RoomInfo struct {
	Code     int
	MasterID int64
}

// EventIndex is the activity participation state for a broadcaster. Heart
// true means the room wants periodic heartbeats every HeartTime seconds.
type EventIndex struct {
	Code      int
	Heart     bool
	HeartTime int
}

func (e EventIndex) WantsHeartbeat() bool {
	return e.Code == CodeOK && e.Heart && e.HeartTime > 0
}

func (e EventIndex) Interval() time.Duration {
	return time.Duration(e.HeartTime) * time.Second
}

// EventHeartReply acknowledges one activity heartbeat; Heart false stops
// the chain.
type EventHeartReply struct {
	Code  int
	Heart bool
}
