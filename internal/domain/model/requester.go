package model

// Requester is the resolved identity a request acts under. A nil
// *Requester is an anonymous caller. It is built once by the auth
// middleware and passed explicitly into every service operation.
type Requester struct {
	ID   string
	Role Role
}

// Is reports whether the requester is the given user.
func (r *Requester) Is(userID string) bool {
	return r != nil && r.ID == userID
}

// CanModerate reports whether the requester holds moderator-or-above.
func (r *Requester) CanModerate() bool {
	return r != nil && ModOrAbove(r.Role)
}

// CanAdminister reports whether the requester holds admin-or-above.
func (r *Requester) CanAdminister() bool {
	return r != nil && AdminOrAbove(r.Role)
}
