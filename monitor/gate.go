package monitor

import "github.com/vodhunter/vodwatch/api"

// MonitorRunning reports whether a monitor is active on the service. It is
// derived from the cached status snapshot and nowhere else; callers must not
// keep their own flag.
func MonitorRunning(s api.LiveStatus) bool {
	return s.State != api.StateIdle
}

// SearchPermitted reports whether a clip search may be submitted. Search and
// live monitoring are mutually exclusive: only the idle state permits a
// search, every other state (including error) blocks it.
func SearchPermitted(s api.LiveStatus) bool {
	return s.State == api.StateIdle
}
