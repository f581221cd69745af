// Package router maps CLI operations to the chain of console workflows they
// run.
//
// Every operation starts with a login and ends with a logout; the workflows
// in between decide what the operation changes on the router.
//
// Key types:
//   - [Router] - operation routing table
//   - [Operation] - a CLI-level operation such as "set-password"
//
// Package-level functions [GetChain] and [NeedsNewPassword] use the default
// router.
package router

import (
	"errors"
	"slices"

	"routerctl/internal/console"
)

// ErrUnknownOperation is returned for an operation with no chain.
var ErrUnknownOperation = errors.New("unknown operation")

// Router routes operations to workflow chains.
type Router struct {
	chains map[Operation][]string
}

// NewRouter creates a [Router] with the default chains:
//   - run: login -> change-password -> toggle-channel -> logout
//   - set-password: login -> change-password -> logout
//   - toggle-channel: login -> toggle-channel -> logout
//   - login: login -> logout
func NewRouter() *Router {
	return &Router{
		chains: map[Operation][]string{
			OpRun:           wrap(console.ChangePasswordWorkflow, console.ToggleChannelWorkflow),
			OpSetPassword:   wrap(console.ChangePasswordWorkflow),
			OpToggleChannel: wrap(console.ToggleChannelWorkflow),
			OpLogin:         wrap(),
		},
	}
}

// wrap surrounds the middle workflows with login and logout.
func wrap(middle ...string) []string {
	chain := []string{console.LoginWorkflow}
	chain = append(chain, middle...)
	return append(chain, console.LogoutWorkflow)
}

// GetChain returns the workflow names op runs, in order. The returned slice
// is a copy.
//
// Returns [ErrUnknownOperation] for operations not in the table.
func (r *Router) GetChain(op Operation) ([]string, error) {
	chain, ok := r.chains[op]
	if !ok {
		return nil, ErrUnknownOperation
	}
	return slices.Clone(chain), nil
}

// NeedsNewPassword reports whether op changes the passphrase and so needs
// router.new_password configured.
func (r *Router) NeedsNewPassword(op Operation) bool {
	return slices.Contains(r.chains[op], console.ChangePasswordWorkflow)
}

// Operations lists the routed operations in sorted order.
func (r *Router) Operations() []Operation {
	ops := make([]Operation, 0, len(r.chains))
	for op := range r.chains {
		ops = append(ops, op)
	}
	slices.Sort(ops)
	return ops
}

// defaultRouter is the package-level router.
var defaultRouter = NewRouter()

// GetChain returns the workflow chain for op using the default router.
func GetChain(op Operation) ([]string, error) {
	return defaultRouter.GetChain(op)
}

// NeedsNewPassword reports whether op changes the passphrase, using the
// default router.
func NeedsNewPassword(op Operation) bool {
	return defaultRouter.NeedsNewPassword(op)
}
