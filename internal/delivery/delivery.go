// Package delivery defines the contract every transport server implements.
package delivery

import "context"

// Delivery is a running transport surface, started by the application
// lifecycle and stopped through an fx hook.
type Delivery interface {
	Serve(ctx context.Context) error
}
