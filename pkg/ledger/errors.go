package ledger

// UserError is an error message that is safe to relay to the end user
type UserError string

func (u UserError) Error() string {
	return string(u)
}

// ErrDuplicateKey happens when an insert violates a unique constraint
var ErrDuplicateKey = UserError("duplicate key constraint violation")
