// Package feedback pushes the arbitrated motion state back to UI clients
// over Server-Sent Events. The hub is a pure consumer of state changes:
// it renders what the store decided and is never consulted when deciding
// the outgoing command.
package feedback
