package core

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func newTestCoordinator() *Coordinator {
	logger := zerolog.Nop()
	return NewCoordinator(NewStore(), &logger)
}

// findBroadcast returns the first broadcast of the given kind, or fails.
func findBroadcast(t *testing.T, out []Broadcast, kind EventKind) Broadcast {
	t.Helper()

	for _, b := range out {
		if b.Event == kind {
			return b
		}
	}
	t.Fatalf("no broadcast of kind %v in %+v", kind, out)
	return Broadcast{}
}

// memberListFor returns the member-list broadcast addressed to one room.
func memberListFor(t *testing.T, out []Broadcast, room string) Broadcast {
	t.Helper()

	if i := memberListIndex(out, room); i >= 0 {
		return out[i]
	}
	t.Fatalf("no member-list broadcast for room %q in %+v", room, out)
	return Broadcast{}
}

func memberListIndex(out []Broadcast, room string) int {
	for i, b := range out {
		if b.Event == EventUserList && b.Target.Kind == TargetRoom && b.Target.Room == room {
			return i
		}
	}
	return -1
}

func hasUser(b Broadcast, sid string) bool {
	for _, u := range b.Users {
		if u.SID == sid {
			return true
		}
	}
	return false
}

func roomNames(b Broadcast) string {
	names := make([]string, 0, len(b.Rooms))
	for _, r := range b.Rooms {
		names = append(names, r.Name)
	}
	return strings.Join(names, ",")
}
