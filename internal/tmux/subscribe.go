package tmux

import (
	"context"
	"fmt"
	"strings"

	"github.com/atomicstack/treectl/internal/backend"
	"github.com/atomicstack/treectl/internal/event"
)

// listingSource fingerprints the server by its full pane listing, so any
// session, window, pane, focus or bell change shows up as a difference.
type listingSource struct {
	client tmuxClient
}

func (s listingSource) Fingerprint(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	lines, err := s.client.ListPanesFormat("", "", paneFormat)
	if err != nil {
		return "", err
	}
	return strings.Join(lines, "\n"), nil
}

func (s listingSource) Close() error {
	return s.client.Close()
}

// Subscribe opens a dedicated connection and takes the first listing before
// returning, so a dead server fails here rather than in the watcher.
func (c *Client) Subscribe() (event.Subscription, error) {
	client, err := newTmux(c.socketPath)
	if err != nil {
		return nil, fmt.Errorf("subscribe to tmux changes: %w", err)
	}
	src := listingSource{client: client}
	baseline, err := src.Fingerprint(context.Background())
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("subscribe to tmux changes: %w", err)
	}
	return backend.NewWatcher(src, c.poll, baseline), nil
}
