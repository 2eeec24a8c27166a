// Package delivery defines the contract shared by all transport front-ends.
package delivery

import "context"

// Delivery is a transport listener managed by the application lifecycle.
type Delivery interface {
	Serve(ctx context.Context) error
}
