package storage

import "time"

// Save records one write of an account snapshot.
type Save struct {
	OccurredAt time.Time
	Account    string
	Courses    int
	Bytes      int
}
