package monitor

import "github.com/vodhunter/vodwatch/api"

// ChangeToken is an opaque comparable value derived from the parts of a
// status snapshot that matter to dependent consumers. Two tokens are equal
// iff both the state and the current video id are equal; every other status
// field is ignored. Consumers compare tokens by value to decide whether to
// re-fetch, so steady-state polling with an unchanged status never triggers
// downstream refreshes.
type ChangeToken struct {
	State    api.LiveState
	VideoID  int64
	HasVideo bool
}

// TokenFor derives the change token for a status snapshot.
func TokenFor(s api.LiveStatus) ChangeToken {
	t := ChangeToken{State: s.State}
	if s.CurrentVideoID != nil {
		t.VideoID = *s.CurrentVideoID
		t.HasVideo = true
	}
	return t
}
