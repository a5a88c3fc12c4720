// README: User profile keyed by the identity provider's subject uid.
package user

import "time"

type User struct {
	UID            string
	Email          string
	FullName       string
	PhoneNumber    string
	University     string
	Rating         float64
	RidesCompleted int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
