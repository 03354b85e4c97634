package editor

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ghostplan/matrix/internal/domain/models"
)

var (
	// ErrEditInProgress means another session already owns the job's draft.
	// The grid supports a single active editor per job.
	ErrEditInProgress = errors.New("an edit session is already active for this job")
	// ErrSessionNotFound reports an unknown or expired session id.
	ErrSessionNotFound = errors.New("edit session not found")
)

// DefaultSessionTTL is how long an idle session survives before the sweep
// reclaims it.
const DefaultSessionTTL = 30 * time.Minute

// Registry tracks active edit sessions and enforces one editor per job.
type Registry struct {
	mu    sync.Mutex
	byID  map[string]*Session
	byJob map[string]string // jobKey -> session id
	ttl   time.Duration
}

// NewRegistry builds a registry with the given idle TTL. A non-positive ttl
// falls back to DefaultSessionTTL.
func NewRegistry(ttl time.Duration) *Registry {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Registry{
		byID:  make(map[string]*Session),
		byJob: make(map[string]string),
		ttl:   ttl,
	}
}

// Start opens a new session for a job, snapshotting items as the draft.
// Returns ErrEditInProgress when a live session already holds the job.
func (r *Registry) Start(projectID, jobID string, items []models.Item, months []models.MonthColumn) (*Session, error) {
	key := jobKey(projectID, jobID)

	r.mu.Lock()
	defer r.mu.Unlock()

	if sid, ok := r.byJob[key]; ok {
		existing := r.byID[sid]
		if existing != nil && existing.State() == StateEditing && !existing.Expired(r.ttl) {
			return nil, ErrEditInProgress
		}
		r.evictLocked(sid, key)
	}

	sess := NewSession(uuid.NewString(), projectID, jobID, items, months)
	r.byID[sess.ID] = sess
	r.byJob[key] = sess.ID
	return sess, nil
}

// Get looks up a live session by id.
func (r *Registry) Get(sessionID string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, ok := r.byID[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if sess.State() != StateEditing || sess.Expired(r.ttl) {
		r.evictLocked(sessionID, jobKey(sess.ProjectID, sess.JobID))
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// Release drops a session from the registry, cancelling it if still editing.
func (r *Registry) Release(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, ok := r.byID[sessionID]
	if !ok {
		return
	}
	sess.Cancel()
	r.evictLocked(sessionID, jobKey(sess.ProjectID, sess.JobID))
}

// SweepExpired reclaims idle and closed sessions, returning how many were
// evicted. The scheduler runs this periodically.
func (r *Registry) SweepExpired() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	evicted := 0
	for id, sess := range r.byID {
		if sess.State() != StateEditing || sess.Expired(r.ttl) {
			sess.Cancel()
			r.evictLocked(id, jobKey(sess.ProjectID, sess.JobID))
			evicted++
		}
	}
	return evicted
}

func (r *Registry) evictLocked(sessionID, key string) {
	delete(r.byID, sessionID)
	if r.byJob[key] == sessionID {
		delete(r.byJob, key)
	}
}

func jobKey(projectID, jobID string) string {
	return projectID + "/" + jobID
}
