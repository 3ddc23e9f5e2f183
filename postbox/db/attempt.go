package db

import (
	"fmt"
	"time"
)

// Attempt holds the metadata of one call to the relay.  Submitted field
// values are never stored.
type Attempt struct {
	// Attempt ID (auto)
	ID int64 `xorm:"pk autoincr"`
	// ID of the view (mounted form) that submitted
	ViewID string `xorm:"index"`
	// Time when the relay call started
	StartTime time.Time
	// Time when the relay call returned
	EndTime time.Time
	// Outcome name (submitted, rejected, failed)
	Outcome string
	// HTTP status of the relay response (0 on transport error)
	Status int
	// Transport error text, if any
	Error string
}

// Duration returns how long the relay call took.
func (a *Attempt) Duration() time.Duration {
	return a.EndTime.Sub(a.StartTime)
}

// InsertAttempt inserts a new Attempt into the database.  Upon successful
// return, the Attempt has a new unique ID.
func (conn *Connection) InsertAttempt(a *Attempt) error {
	_, err := conn.engine.Insert(a) // ID is assigned on insertion
	return err
}

// GetAttempt retrieves an Attempt from the database given its ID.
func (conn *Connection) GetAttempt(id int64) (*Attempt, error) {
	a := new(Attempt)
	if has, err := conn.engine.ID(id).Get(a); err != nil {
		return nil, err
	} else if !has {
		return nil, fmt.Errorf("attempt %d not found", id)
	}
	return a, nil
}

// RecentAttempts returns up to limit Attempts, newest first.  A limit of 0 or
// less returns all of them.
func (conn *Connection) RecentAttempts(limit int) ([]Attempt, error) {
	attempts := make([]Attempt, 0)
	sess := conn.engine.Desc("id")
	if limit > 0 {
		sess = sess.Limit(limit)
	}
	if err := sess.Find(&attempts); err != nil {
		return nil, err
	}
	return attempts, nil
}

// ViewAttempts retrieves all the Attempts made by a given view, oldest first.
func (conn *Connection) ViewAttempts(viewID string) ([]Attempt, error) {
	attempts := make([]Attempt, 0)
	if err := conn.engine.Asc("id").Find(&attempts, &Attempt{ViewID: viewID}); err != nil {
		return nil, err
	}
	return attempts, nil
}
