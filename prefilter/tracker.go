package prefilter

// Tracker gates a prefilter on how often its candidates pan out.
//
// Every candidate costs the matcher one anchored attempt. A candidate the
// attempt rejects is a miss. Once more than Limits.Grace misses have been
// seen and they outnumber the confirmed candidates by more than
// Limits.Ratio to one, the tracker switches the prefilter off until Reset:
// the matcher then tries every position instead.
//
// The matcher drives it like this:
//
//	for start := from; t.Active(); start = next(c) {
//	    c := t.Next(text, start)
//	    if c < 0 {
//	        return false
//	    }
//	    if attempt(c) {
//	        t.Confirm()
//	        return true
//	    }
//	}
//
// A nil *Tracker is valid and never active. A Tracker belongs to one
// matcher.
type Tracker struct {
	pf     Prefilter
	limits Limits

	hits, misses int
	pending      bool // the last candidate is neither confirmed nor missed yet
	off          bool
}

// Limits bound how many misses a Tracker tolerates.
type Limits struct {
	// Grace is the number of misses always tolerated.
	// Default: 64
	Grace int

	// Ratio is the number of misses per confirmed candidate beyond which
	// the prefilter is switched off.
	// Default: 8
	Ratio int
}

// DefaultLimits returns the limits NewTracker uses.
func DefaultLimits() Limits {
	return Limits{Grace: 64, Ratio: 8}
}

// NewTracker returns a tracker for pf with the default limits, or nil when
// pf is nil.
func NewTracker(pf Prefilter) *Tracker {
	return NewTrackerWithLimits(pf, DefaultLimits())
}

// NewTrackerWithLimits is like NewTracker with custom limits.
func NewTrackerWithLimits(pf Prefilter, limits Limits) *Tracker {
	if pf == nil {
		return nil
	}
	return &Tracker{pf: pf, limits: limits}
}

// Next returns the first candidate in text at or after from, or -1. An
// unconfirmed previous candidate counts as a miss.
func (t *Tracker) Next(text []byte, from int) int {
	if t.pending {
		t.pending = false
		t.misses++
		if t.misses > t.limits.Grace && t.misses > t.hits*t.limits.Ratio {
			t.off = true
		}
	}
	c := t.pf.Find(text, from)
	t.pending = c >= 0
	return c
}

// Confirm records that the last candidate began a match.
func (t *Tracker) Confirm() {
	if t.pending {
		t.pending = false
		t.hits++
	}
}

// Active reports whether the prefilter is still in use.
func (t *Tracker) Active() bool {
	return t != nil && !t.off
}

// Counts returns the confirmed and missed candidates since the last Reset.
func (t *Tracker) Counts() (hits, misses int) {
	return t.hits, t.misses
}

// Reset clears the counts and switches the prefilter back on. Matchers
// call it for new input.
func (t *Tracker) Reset() {
	if t == nil {
		return
	}
	*t = Tracker{pf: t.pf, limits: t.limits}
}

// Prefilter returns the gated prefilter.
func (t *Tracker) Prefilter() Prefilter {
	return t.pf
}
