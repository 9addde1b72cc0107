package domain

import "time"

// User is an account that can bookmark and rate recipes.
type User struct {
	ID        int64
	CreatedAt time.Time
	Bookmarks int
}
