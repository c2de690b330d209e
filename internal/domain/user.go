package domain

import "time"

type User struct {
	ID    ID
	Name  string
	Email string
	Phone string
	// Password is stored as entered, there is no hashing.
	Password string

	CreatedAt time.Time
}
