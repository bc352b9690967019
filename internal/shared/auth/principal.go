package auth

// Principal is the authenticated caller. It is passed by value into every
// service call that needs authorization; services never re-validate it.
type Principal struct {
	UserID string
	Role   string
}

// IsZero reports whether no caller was resolved.
func (p Principal) IsZero() bool { return p.UserID == "" }
