package web

import "sync"

// inflight is the per-session busy flag: at most one outstanding analysis per session.
type inflight struct {
	active sync.Map
}

func (f *inflight) TryAcquire(sessionID string) bool {
	_, loaded := f.active.LoadOrStore(sessionID, struct{}{})
	return !loaded
}

func (f *inflight) Release(sessionID string) {
	f.active.Delete(sessionID)
}

func (f *inflight) Busy(sessionID string) bool {
	_, ok := f.active.Load(sessionID)
	return ok
}
