package core

// Result tags the internal outcome of a transition. The wire protocol stays
// silent on failure (a rejected request produces no broadcast at all), so
// results never reach clients; they exist for logging and tests.
type Result string

const (
	ResultOK            Result = "ok"
	ResultRoomExists    Result = "room_exists"
	ResultRoomNotFound  Result = "room_not_found"
	ResultNotIdentified Result = "not_identified"
	ResultUnknownConn   Result = "unknown_conn"
)

// OK reports whether the transition mutated state.
func (r Result) OK() bool {
	return r == ResultOK
}
