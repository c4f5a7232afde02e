package store

import (
	"time"

	"github.com/sramzz/pomodorowithsound/internal/session"
)

// DB is the database storage interface.
type DB interface {
	// Append saves a finalized session
	Append(sess *session.Session) error
	// GetSessions returns saved sessions according to the time
	// constraints
	GetSessions(
		startTime, endTime time.Time,
	) ([]*session.Session, error)
	// DeleteSessions deletes one or more saved sessions
	DeleteSessions(sessions []*session.Session) error
	// DeleteAll deletes every saved session
	DeleteAll() error
	// Close ends the database connection
	Close() error
}
