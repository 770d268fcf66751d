package testutil

import (
	"context"

	"github.com/kbukum/hubspotkit/component"
)

// TestComponent is a component.Component that tests can rewind. The HubSpot
// sandbox server implements it so each test starts from known data.
type TestComponent interface {
	component.Component

	// Reset restores the component to its initial state.
	Reset(ctx context.Context) error

	// Snapshot captures the current state for a later Restore.
	Snapshot(ctx context.Context) (interface{}, error)

	// Restore returns the component to a state captured by Snapshot.
	Restore(ctx context.Context, snapshot interface{}) error
}
