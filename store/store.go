// Package store connects to the data store and manages saved sessions
package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"io/fs"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/sramzz/pomodorowithsound/internal/session"
	"github.com/sramzz/pomodorowithsound/internal/timeutil"
)

const sessionBucket = "sessions"

var errPomodoroRunning = errors.New(
	"is Pomodoro already running? Only one instance can be active at a time",
)

// Client is a BoltDB database client.
type Client struct {
	*bolt.DB
}

// Append saves a session. Sessions are keyed by their start time, so
// appending a session with the same start time overwrites the earlier
// record.
func (c *Client) Append(sess *session.Session) error {
	key := timeutil.ToKey(sess.StartTime)

	value, err := json.Marshal(sess)
	if err != nil {
		return err
	}

	return c.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(sessionBucket)).Put(key, value)
	})
}

// GetSessions returns the saved sessions whose start time falls between
// startTime and endTime, oldest first. A session that started before the
// window but ended inside it is also included.
func (c *Client) GetSessions(
	startTime, endTime time.Time,
) ([]*session.Session, error) {
	var sessions []*session.Session

	err := c.View(func(tx *bolt.Tx) error {
		cur := tx.Bucket([]byte(sessionBucket)).Cursor()

		minKey := timeutil.ToKey(startTime)
		maxKey := timeutil.ToKey(endTime)

		//nolint:ineffassign,staticcheck // due to how boltdb works
		sk, sv := cur.Seek(minKey)
		// get the previous session so as to check if
		// it was ended within the specified time bounds
		pk, pv := cur.Prev()
		if pk != nil {
			var sess session.Session

			err := json.Unmarshal(pv, &sess)
			if err != nil {
				return err
			}

			if sess.EndTime.After(startTime) {
				sk, sv = pk, pv
			} else {
				sk, sv = cur.Next()
			}
		} else {
			sk, sv = cur.Seek(minKey)
		}

		for k, v := sk, sv; k != nil && bytes.Compare(k, maxKey) <= 0; k, v = cur.Next() {
			var sess session.Session

			err := json.Unmarshal(v, &sess)
			if err != nil {
				return err
			}

			sessions = append(sessions, &sess)
		}

		return nil
	})

	return sessions, err
}

// DeleteSessions removes one or more saved sessions.
func (c *Client) DeleteSessions(sessions []*session.Session) error {
	return c.Update(func(tx *bolt.Tx) error {
		for i := range sessions {
			key := timeutil.ToKey(sessions[i].StartTime)

			err := tx.Bucket([]byte(sessionBucket)).Delete(key)
			if err != nil {
				return err
			}
		}

		return nil
	})
}

// DeleteAll removes every saved session.
func (c *Client) DeleteAll() error {
	return c.Update(func(tx *bolt.Tx) error {
		err := tx.DeleteBucket([]byte(sessionBucket))
		if err != nil {
			return err
		}

		_, err = tx.CreateBucketIfNotExists([]byte(sessionBucket))

		return err
	})
}

// openDB creates or opens a database and locks it.
func openDB(pathToDB string) (*bolt.DB, error) {
	var fileMode fs.FileMode = 0o600

	db, err := bolt.Open(
		pathToDB,
		fileMode,
		&bolt.Options{Timeout: 1 * time.Second},
	)
	if err != nil {
		if errors.Is(err, bolt.ErrDatabaseOpen) ||
			errors.Is(err, bolt.ErrTimeout) {
			return nil, errPomodoroRunning
		}

		return nil, err
	}

	return db, nil
}

// NewClient returns a wrapper to a BoltDB connection.
func NewClient(dbPath string) (*Client, error) {
	db, err := openDB(dbPath)
	if err != nil {
		return nil, err
	}

	// Create the necessary bucket for storing data if it does not exist already
	err = db.Update(func(tx *bolt.Tx) error {
		_, err = tx.CreateBucketIfNotExists([]byte(sessionBucket))

		return err
	})
	if err != nil {
		return nil, err
	}

	return &Client{
		db,
	}, nil
}
