package domain

// Credential Model
type Credential struct {
	Username string // Unique username, used as storage key suffix
	Password string // Stored password (plaintext unless hashing is enabled)
}

// SessionMarker is the persisted record of the currently authenticated user
type SessionMarker struct {
	Username string `json:"username"` // Username of the active session
}
