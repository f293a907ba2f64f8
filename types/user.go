package types

// User represents an operator account in the credential table.
type User struct {
	// ID is the unique identifier of the user.
	ID int `json:"id" db:"id"`

	// Username is the login name. Uniqueness is not enforced by the store;
	// lookups by username return the first match.
	Username string `json:"username" db:"username"`

	// Password is stored as supplied. It is never exposed in API responses.
	Password string `json:"-" db:"password"`
}

// NewUser holds the caller-supplied fields for creating a user.
type NewUser struct {
	Username string `json:"username" yaml:"username"`
	Password string `json:"password" yaml:"password"`
}
