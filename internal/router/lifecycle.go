package router

// Operation is a CLI-level unit of work: one command invocation, run as a
// chain of workflows against a single browser session.
type Operation string

// Operations.
const (
	// OpRun changes the passphrase, applies the channel state and logs out.
	OpRun Operation = "run"

	// OpSetPassword changes the passphrase only.
	OpSetPassword Operation = "set-password"

	// OpToggleChannel applies the channel state only.
	OpToggleChannel Operation = "toggle-channel"

	// OpLogin checks the credentials by logging in and out.
	OpLogin Operation = "login"
)

// String returns the operation name.
func (o Operation) String() string {
	return string(o)
}
