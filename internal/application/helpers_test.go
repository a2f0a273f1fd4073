package application

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/bnema/bilive-keeper/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// eventLog records the interleaving of sleeps and client calls so tests can
// assert ordering, not just counts.
type eventLog struct {
	mu      sync.Mutex
	entries []string
}

func (l *eventLog) add(entry string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, entry)
}

func (l *eventLog) snapshot() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.entries...)
}

// fakeClock returns from Sleep immediately, recording each requested delay.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	sleeps []time.Duration
	events *eventLog
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	c.mu.Lock()
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)
	c.mu.Unlock()

	if c.events != nil {
		c.events.add(fmt.Sprintf("sleep %s", d))
	}

	return ctx.Err()
}

func (c *fakeClock) recordedSleeps() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]time.Duration(nil), c.sleeps...)
}

// recordingSink collects auth signals.
type recordingSink struct {
	mu              sync.Mutex
	sessionInvalids []domain.AccountID
	tokenInvalids   []domain.AccountID
}

func (s *recordingSink) SessionInvalid(id domain.AccountID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessionInvalids = append(s.sessionInvalids, id)
}

func (s *recordingSink) TokenInvalid(id domain.AccountID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokenInvalids = append(s.tokenInvalids, id)
}

// fakeLiveClient scripts the live endpoints with per-method functions; an
// endpoint hit without a script fails the calling task with an error.
type fakeLiveClient struct {
	mu     sync.Mutex
	calls  map[string]int
	events *eventLog

	sessionHeartbeatFn func(domain.Session) (domain.HeartbeatReply, error)
	tokenHeartbeatFn   func(domain.Session) (domain.HeartbeatReply, error)
	signInfoFn         func(domain.Session) (domain.SignInfo, error)
	currentTaskFn      func(domain.Session) (domain.ClaimTask, error)
	currentTaskWebFn   func(domain.Session) (domain.ClaimTask, error)
	claimAwardFn       func(domain.Session) (domain.AwardReply, error)
	captchaImageFn     func(domain.Session) ([]byte, error)
	claimAwardWebFn    func(domain.Session, domain.ClaimTask, int) (domain.AwardReply, error)
	roomInfoFn         func(domain.RoomID) (domain.RoomInfo, error)
	eventIndexFn       func(domain.Session, int64) (domain.EventIndex, error)
	eventHeartbeatFn   func(domain.Session, domain.RoomID) (domain.EventHeartReply, error)
}

func (c *fakeLiveClient) record(name string) {
	c.mu.Lock()
	if c.calls == nil {
		c.calls = map[string]int{}
	}
	c.calls[name]++
	c.mu.Unlock()

	if c.events != nil {
		c.events.add(name)
	}
}

func (c *fakeLiveClient) callCount(name string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[name]
}

func (c *fakeLiveClient) SessionHeartbeat(_ context.Context, s domain.Session) (domain.HeartbeatReply, error) {
	c.record("SessionHeartbeat")
	if c.sessionHeartbeatFn == nil {
		return domain.HeartbeatReply{}, fmt.Errorf("unexpected SessionHeartbeat call")
	}
	return c.sessionHeartbeatFn(s)
}

func (c *fakeLiveClient) TokenHeartbeat(_ context.Context, s domain.Session) (domain.HeartbeatReply, error) {
	c.record("TokenHeartbeat")
	if c.tokenHeartbeatFn == nil {
		return domain.HeartbeatReply{}, fmt.Errorf("unexpected TokenHeartbeat call")
	}
	return c.tokenHeartbeatFn(s)
}

func (c *fakeLiveClient) SignInfo(_ context.Context, s domain.Session) (domain.SignInfo, error) {
	c.record("SignInfo")
	if c.signInfoFn == nil {
		return domain.SignInfo{}, fmt.Errorf("unexpected SignInfo call")
	}
	return c.signInfoFn(s)
}

func (c *fakeLiveClient) CurrentTask(_ context.Context, s domain.Session) (domain.ClaimTask, error) {
	c.record("CurrentTask")
	if c.currentTaskFn == nil {
		return domain.ClaimTask{}, fmt.Errorf("unexpected CurrentTask call")
	}
	return c.currentTaskFn(s)
}

func (c *fakeLiveClient) CurrentTaskWeb(_ context.Context, s domain.Session) (domain.ClaimTask, error) {
	c.record("CurrentTaskWeb")
	if c.currentTaskWebFn == nil {
		return domain.ClaimTask{}, fmt.Errorf("unexpected CurrentTaskWeb call")
	}
	return c.currentTaskWebFn(s)
}

func (c *fakeLiveClient) ClaimAward(_ context.Context, s domain.Session) (domain.AwardReply, error) {
	c.record("ClaimAward")
	if c.claimAwardFn == nil {
		return domain.AwardReply{}, fmt.Errorf("unexpected ClaimAward call")
	}
	return c.claimAwardFn(s)
}

func (c *fakeLiveClient) CaptchaImage(_ context.Context, s domain.Session) ([]byte, error) {
	c.record("CaptchaImage")
	if c.captchaImageFn == nil {
		return nil, fmt.Errorf("unexpected CaptchaImage call")
	}
	return c.captchaImageFn(s)
}

func (c *fakeLiveClient) ClaimAwardWeb(_ context.Context, s domain.Session, task domain.ClaimTask, answer int) (domain.AwardReply, error) {
	c.record("ClaimAwardWeb")
	if c.claimAwardWebFn == nil {
		return domain.AwardReply{}, fmt.Errorf("unexpected ClaimAwardWeb call")
	}
	return c.claimAwardWebFn(s, task, answer)
}

func (c *fakeLiveClient) RoomInfo(_ context.Context, id domain.RoomID) (domain.RoomInfo, error) {
	c.record("RoomInfo")
	if c.roomInfoFn == nil {
		return domain.RoomInfo{}, fmt.Errorf("unexpected RoomInfo call")
	}
	return c.roomInfoFn(id)
}

func (c *fakeLiveClient) EventIndex(_ context.Context, s domain.Session, masterID int64) (domain.EventIndex, error) {
	c.record("EventIndex")
	if c.eventIndexFn == nil {
		return domain.EventIndex{}, fmt.Errorf("unexpected EventIndex call")
	}
	return c.eventIndexFn(s, masterID)
}

func (c *fakeLiveClient) EventHeartbeat(_ context.Context, s domain.Session, id domain.RoomID) (domain.EventHeartReply, error) {
	c.record("EventHeartbeat")
	if c.eventHeartbeatFn == nil {
		return domain.EventHeartReply{}, fmt.Errorf("unexpected EventHeartbeat call")
	}
	return c.eventHeartbeatFn(s, id)
}

// fakeSolver answers captchas from a scripted queue.
type fakeSolver struct {
	mu      sync.Mutex
	answers []int
	errs    []error
}

func (s *fakeSolver) Solve(_ context.Context, _ []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.errs) > 0 {
		err := s.errs[0]
		s.errs = s.errs[1:]
		if err != nil {
			return -1, err
		}
	}
	if len(s.answers) == 0 {
		return -1, domain.ErrCaptchaUnsolved
	}

	answer := s.answers[0]
	s.answers = s.answers[1:]
	return answer, nil
}

// scripted returns responses in order, repeating the last one once the
// script runs out.
func scripted[T any](responses ...T) func(domain.Session) (T, error) {
	var mu sync.Mutex
	i := 0
	return func(domain.Session) (T, error) {
		mu.Lock()
		defer mu.Unlock()

		response := responses[i]
		if i < len(responses)-1 {
			i++
		}
		return response, nil
	}
}

type inMemoryAccountRepo struct {
	mu       sync.Mutex
	accounts []domain.Account
	saveErr  error
}

func (r *inMemoryAccountRepo) GetByID(_ context.Context, id domain.AccountID) (domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, account := range r.accounts {
		if account.ID == id {
			return account, nil
		}
	}
	return domain.Account{}, domain.ErrAccountNotFound
}

func (r *inMemoryAccountRepo) List(_ context.Context) ([]domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Account(nil), r.accounts...), nil
}

func (r *inMemoryAccountRepo) Save(_ context.Context, account domain.Account) error {
	if r.saveErr != nil {
		return r.saveErr
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.accounts {
		if r.accounts[i].ID == account.ID {
			r.accounts[i] = account
			return nil
		}
	}
	r.accounts = append(r.accounts, account)
	return nil
}

type inMemoryRoomRepo struct {
	mu    sync.Mutex
	rooms []domain.Room
}

func (r *inMemoryRoomRepo) List(_ context.Context) ([]domain.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Room(nil), r.rooms...), nil
}

func (r *inMemoryRoomRepo) Save(_ context.Context, room domain.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.rooms {
		if r.rooms[i].ID == room.ID {
			r.rooms[i] = room
			return nil
		}
	}
	r.rooms = append(r.rooms, room)
	return nil
}

func (r *inMemoryRoomRepo) Delete(_ context.Context, id domain.RoomID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.rooms {
		if r.rooms[i].ID == id {
			r.rooms = append(r.rooms[:i], r.rooms[i+1:]...)
			return nil
		}
	}
	return domain.ErrRoomNotFound
}

type inMemorySecretStore struct {
	mu      sync.Mutex
	secrets map[string]string
}

func (s *inMemorySecretStore) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	value, ok := s.secrets[key]
	if !ok {
		return "", domain.ErrSecretNotFound
	}
	return value, nil
}

func (s *inMemorySecretStore) Put(_ context.Context, key string, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.secrets == nil {
		s.secrets = map[string]string{}
	}
	s.secrets[key] = value
	return nil
}

func (s *inMemorySecretStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.secrets, key)
	return nil
}
