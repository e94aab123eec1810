package memory

import (
	"time"

	"github.com/patrickmn/go-cache"

	"ai-interviewer-be/pkg/store"
)

// SessionRepository keeps interview sessions and uploaded resume texts in
// process memory. Sessions are ephemeral by design: nothing survives a
// restart, and entries that are never torn down expire on their own.
type SessionRepository struct {
	sessions *cache.Cache
	resumes  *cache.Cache
}

func NewSessionRepository() *SessionRepository {
	// Sessions expire after 2 hours as a safety net for connections that
	// never disconnect cleanly; uploaded resumes wait at most 1 hour for
	// their interview to start.
	return &SessionRepository{
		sessions: cache.New(2*time.Hour, 10*time.Minute),
		resumes:  cache.New(1*time.Hour, 10*time.Minute),
	}
}

func (r *SessionRepository) Save(session *store.Session) {
	r.sessions.Set(session.ID, session, cache.DefaultExpiration)
}

func (r *SessionRepository) Get(sessionID string) (*store.Session, bool) {
	if x, found := r.sessions.Get(sessionID); found {
		return x.(*store.Session), true
	}
	return nil, false
}

func (r *SessionRepository) Delete(sessionID string) {
	r.sessions.Delete(sessionID)
}

// SaveResume stores extracted resume text under an upload token until the
// matching init message references it.
func (r *SessionRepository) SaveResume(token, text string) {
	r.resumes.Set(token, text, cache.DefaultExpiration)
}

func (r *SessionRepository) GetResume(token string) (string, bool) {
	if x, found := r.resumes.Get(token); found {
		return x.(string), true
	}
	return "", false
}
