package model

type User struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	HashedPassword string `json:"-"`
	// Address is the opaque identity every contest operation is keyed by.
	// Assigned once at registration, never changed.
	Address   string `json:"address"`
	CreatedAt int64  `json:"created_at"`
}
