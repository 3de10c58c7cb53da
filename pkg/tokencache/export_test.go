package tokencache

// Pending exposes the number of live lock entries to tests.
func (r *Refresher) Pending() int { return r.pending() }
