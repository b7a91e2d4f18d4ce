package registry

import (
	"log/slog"
	"sync"

	"github.com/mport/typeduel/internal/dependencies/clock"
	"github.com/mport/typeduel/internal/model"
)

// Registry is the sole owner of live player sessions. It maps connection IDs
// to session records and maintains the FIFO queue of players waiting for an
// anonymous match.
//
// Every mutation happens under one mutex, so a pairing is always written to
// both sides in a single step. An event handler and the matchmaking sweep can
// never observe a session that is paired on one side only.
type Registry struct {
	mu sync.RWMutex

	sessions map[model.ConnectionID]*model.PlayerSession

	// waiting holds the anonymous queue in arrival order.
	// Every entry also has Waiting=true on its session.
	waiting []model.ConnectionID

	clock  clock.Clock
	logger *slog.Logger
}

// New creates an empty session registry
func New(clk clock.Clock, logger *slog.Logger) *Registry {
	return &Registry{
		sessions: make(map[model.ConnectionID]*model.PlayerSession),
		clock:    clk,
		logger:   logger.With(slog.String("component", "registry")),
	}
}

// Register creates the session for a freshly authenticated connection.
// Idempotent per connection ID: logging in again overwrites the username but
// leaves score, queue membership and any pairing untouched.
func (r *Registry) Register(connID model.ConnectionID, username string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.sessions[connID]; ok {
		existing.Username = username
		return
	}

	r.sessions[connID] = &model.PlayerSession{
		ConnID:      connID,
		Username:    username,
		State:       model.SessionStateLoggedIn,
		ConnectedAt: r.clock.Now(),
	}
	r.logger.Info("session registered",
		slog.String("conn_id", string(connID)),
		slog.String("username", username))
}

// Get returns a snapshot of the session, or ErrSessionNotFound if the
// connection never logged in or was already removed. Callers must treat
// not-found as a stale event, not a fault.
func (r *Registry) Get(connID model.ConnectionID) (model.PlayerSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions[connID]
	if !ok {
		return model.PlayerSession{}, model.ErrSessionNotFound
	}
	return *session, nil
}

// Remove deletes the session and reconciles any pairing: the opponent's
// back-reference is cleared in the same step so it can never dangle. The
// former opponent's ID is returned so the caller can notify it; it is empty
// if the session was unmatched.
func (r *Registry) Remove(connID model.ConnectionID) (model.ConnectionID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[connID]
	if !ok {
		return "", model.ErrSessionNotFound
	}

	opponentID := session.Opponent
	if opponent, ok := r.sessions[opponentID]; ok {
		opponent.Opponent = ""
		opponent.State = model.SessionStateLoggedIn
	}

	delete(r.sessions, connID)
	r.dequeueLocked(connID)

	r.logger.Info("session removed",
		slog.String("conn_id", string(connID)),
		slog.String("opponent", string(opponentID)))
	return opponentID, nil
}

// Pair links two sessions as opponents in one atomic step. Both must exist
// and both must be unmatched; queue membership is cleared on both sides.
func (r *Registry) Pair(a, b model.ConnectionID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pairLocked(a, b)
}

func (r *Registry) pairLocked(a, b model.ConnectionID) error {
	if a == b {
		return model.ErrInvalidOrBusyTarget
	}

	sa, ok := r.sessions[a]
	if !ok {
		return model.ErrSessionNotFound
	}
	sb, ok := r.sessions[b]
	if !ok {
		return model.ErrInvalidOrBusyTarget
	}
	if sa.Paired() {
		return model.ErrAlreadyInGame
	}
	if sb.Paired() {
		return model.ErrInvalidOrBusyTarget
	}

	sa.Opponent = b
	sb.Opponent = a
	sa.State = model.SessionStateInGame
	sb.State = model.SessionStateInGame
	sa.Waiting = false
	sb.Waiting = false
	// Every game starts from the baseline, including rematches
	sa.Score = 0
	sb.Score = 0
	r.dequeueLocked(a)
	r.dequeueLocked(b)

	r.logger.Info("sessions paired",
		slog.String("conn_id", string(a)),
		slog.String("opponent", string(b)))
	return nil
}

// Unpair breaks a pairing from either side, clearing both back-references.
// The former opponent's ID is returned; empty if the session was unmatched.
func (r *Registry) Unpair(connID model.ConnectionID) (model.ConnectionID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[connID]
	if !ok {
		return "", model.ErrSessionNotFound
	}

	opponentID := session.Opponent
	if opponentID == "" {
		return "", nil
	}

	session.Opponent = ""
	session.State = model.SessionStateLoggedIn
	if opponent, ok := r.sessions[opponentID]; ok {
		opponent.Opponent = ""
		opponent.State = model.SessionStateLoggedIn
	}
	return opponentID, nil
}

// Enqueue adds the session to the anonymous matchmaking queue. Requesting a
// match while already waiting is a no-op, not an error.
func (r *Registry) Enqueue(connID model.ConnectionID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[connID]
	if !ok {
		return model.ErrSessionNotFound
	}
	if session.Paired() {
		return model.ErrAlreadyInGame
	}
	if session.Waiting {
		return nil
	}

	session.Waiting = true
	session.State = model.SessionStateWaiting
	r.waiting = append(r.waiting, connID)
	return nil
}

// MarkWaitingForFriend flags the session as waiting without placing it in the
// anonymous queue, for the invite path where a friend will join by ID
func (r *Registry) MarkWaitingForFriend(connID model.ConnectionID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[connID]
	if !ok {
		return model.ErrSessionNotFound
	}
	if session.Paired() {
		return model.ErrAlreadyInGame
	}
	session.State = model.SessionStateWaiting
	return nil
}

// MatchWaiting greedily pairs queued players two at a time in arrival order
// until fewer than two remain. The odd player out stays queued. Each pairing
// is written to both sides before the method returns.
func (r *Registry) MatchWaiting() []model.Match {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matches []model.Match
	for len(r.waiting) >= 2 {
		a := r.waiting[0]
		if sa, ok := r.sessions[a]; !ok || sa.Paired() {
			r.dequeueLocked(a)
			continue
		}
		b := r.waiting[1]
		if sb, ok := r.sessions[b]; !ok || sb.Paired() {
			r.dequeueLocked(b)
			continue
		}
		if err := r.pairLocked(a, b); err != nil {
			r.dequeueLocked(a)
			continue
		}
		matches = append(matches, model.Match{
			Player1:   a,
			Player2:   b,
			Username1: r.sessions[a].Username,
			Username2: r.sessions[b].Username,
		})
	}
	return matches
}

// AddScore applies a score delta as reported by the client and returns the
// new total plus the opponent's ID for mirroring the update
func (r *Registry) AddScore(connID model.ConnectionID, delta int) (int, model.ConnectionID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[connID]
	if !ok {
		return 0, "", model.ErrSessionNotFound
	}
	session.Score += delta
	return session.Score, session.Opponent, nil
}

// WaitingCount returns the current size of the anonymous queue
func (r *Registry) WaitingCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.waiting)
}

// Len returns the number of live sessions
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// dequeueLocked removes a connection from the waiting queue and clears its
// Waiting flag. Callers must hold the write lock.
func (r *Registry) dequeueLocked(connID model.ConnectionID) {
	if session, ok := r.sessions[connID]; ok {
		session.Waiting = false
	}
	for i, id := range r.waiting {
		if id == connID {
			r.waiting = append(r.waiting[:i], r.waiting[i+1:]...)
			return
		}
	}
}
