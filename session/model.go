package session

// Snapshot is the persisted view of an authenticated session: enough to
// rehydrate the signed-in identity after a restart without a second
// login. Snapshot instances are written once at login and treated as
// immutable afterwards.
//
// The role travels as a plain string so this package stays below the
// RBAC layer; the Engine revalidates it against the directory on
// restore.
type Snapshot struct {
	SessionID  string
	IdentityID string
	Email      string
	Name       string
	Role       string
	Department string

	CreatedAt int64
}
