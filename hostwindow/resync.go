package hostwindow

import (
	"context"
	"fmt"
)

// ResyncStrategy brings an already-open host window into the state the next behavior expects.
type ResyncStrategy interface {
	Resync(ctx context.Context, doc Document, barrier Barrier, setup SetupFunc) error
}

// InjectSetup runs the setup against the document as it is, without reloading it.
type InjectSetup struct{}

func (InjectSetup) Resync(ctx context.Context, doc Document, barrier Barrier, setup SetupFunc) error {
	return RunSetup(ctx, doc, barrier, setup)
}

// ReloadThenSetup reloads the document, waits for it to load again, and then runs the setup.
// This discards state left behind by the previous behavior.
type ReloadThenSetup struct{}

func (ReloadThenSetup) Resync(ctx context.Context, doc Document, barrier Barrier, setup SetupFunc) error {
	if err := doc.Reload(ctx); err != nil {
		return fmt.Errorf("reloading host window: %w", err)
	}
	return RunSetup(ctx, doc, barrier, setup)
}

// RunSetup waits for the document to be ready and then runs setup, which may be nil.
func RunSetup(ctx context.Context, doc Document, barrier Barrier, setup SetupFunc) error {
	if setup == nil {
		return nil
	}
	if err := barrier.Await(ctx, doc); err != nil {
		return err
	}
	return setup(ctx, doc)
}

// ParseResyncStrategy accepts "inject" (the default, also selected by "") or "reload".
func ParseResyncStrategy(name string) (ResyncStrategy, error) {
	switch name {
	case "", "inject":
		return InjectSetup{}, nil
	case "reload":
		return ReloadThenSetup{}, nil
	}
	return nil, fmt.Errorf("unknown host window resync strategy %q", name)
}
