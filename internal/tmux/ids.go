package tmux

import (
	"fmt"
	"strconv"

	"github.com/atomicstack/treectl/internal/tree"
)

// kind occupies the bits above idShift of a ContainerID; tmux's own numeric
// id fills the rest.
type kind int64

const (
	kindServer kind = iota + 1
	kindSession
	kindWindow
	kindPane
)

const idShift = 32

func (k kind) String() string {
	switch k {
	case kindServer:
		return "server"
	case kindSession:
		return "session"
	case kindWindow:
		return "window"
	case kindPane:
		return "pane"
	default:
		return fmt.Sprintf("kind(%d)", int64(k))
	}
}

func (k kind) sigil() string {
	switch k {
	case kindSession:
		return "$"
	case kindWindow:
		return "@"
	case kindPane:
		return "%"
	default:
		return ""
	}
}

func encode(k kind, n int64) tree.ContainerID {
	return tree.ContainerID(int64(k)<<idShift | n&(1<<idShift-1))
}

func decode(id tree.ContainerID) (kind, int64) {
	return kind(int64(id) >> idShift), int64(id) & (1<<idShift - 1)
}

// parseID converts a tmux id such as "$3", "@12" or "%7".
func parseID(k kind, raw string) (tree.ContainerID, error) {
	sigil := k.sigil()
	if len(raw) <= len(sigil) || raw[:len(sigil)] != sigil {
		return 0, fmt.Errorf("malformed %s id %q", k, raw)
	}
	n, err := strconv.ParseInt(raw[len(sigil):], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed %s id %q: %w", k, raw, err)
	}
	return encode(k, n), nil
}

// target renders id the way tmux expects it in -t arguments.
func target(id tree.ContainerID) (kind, string) {
	k, n := decode(id)
	return k, k.sigil() + strconv.FormatInt(n, 10)
}
