package check

// Block is the checked-block construct: a scoped region whose internal
// assertion-style failures are logged to the Recorder and suppressed, so that
// execution continues after the region.
//
// A Block handle is reusable, but a message set with Msg applies to the next
// Do call only; it is cleared on every exit, whether or not a failure
// occurred.
type Block struct {
	r      *Recorder
	msg    string
	hasMsg bool
}

// Block returns a checked-block handle for this recorder.
func (r *Recorder) Block() *Block {
	return &Block{r: r}
}

// Msg sets a custom message for the next Do call only. When a failure is
// intercepted, the message is prefixed to the failure text on its own line.
func (b *Block) Msg(msg string) *Block {
	b.msg = msg
	b.hasMsg = true
	return b
}

// Do runs action. If action raises an assertion-style failure (via Fail or
// Failf), the failure is logged and suppressed. In stop-on-first-failure mode
// the failure propagates instead, so that the whole test stops at the first
// failure no matter which mechanism produced it. Escalations and non-failure
// panics always propagate.
func (b *Block) Do(action func()) {
	var site CallSite
	haveSite := false
	if b.r.wantCallSite() {
		// The failing statement is unreachable once the stack has unwound, so
		// the diagnostic points at the block entry instead.
		site, haveSite = callSite(0)
	}

	defer func() {
		msg, hasMsg := b.msg, b.hasMsg
		b.msg, b.hasMsg = "", false

		rec := recover()
		if rec == nil {
			return
		}
		f, isFailure := rec.(*Failure)
		if !isFailure || b.r.stopOnFail {
			panic(rec)
		}
		text := f.Message
		if hasMsg {
			text = msg + "\n" + text
		}
		b.r.recordAt(site, haveSite, text, "")
	}()

	action()
}

// CheckFunc runs fn and converts an assertion-style failure raised inside it
// into a logged soft failure and a false return. It returns true when fn
// returns normally. This lets arbitrary multi-step check logic participate in
// soft aggregation, not just single predicates. Escalations and non-failure
// panics propagate.
func (r *Recorder) CheckFunc(fn func()) (ok bool) {
	var site CallSite
	haveSite := false
	if r.wantCallSite() {
		site, haveSite = callSite(0)
	}

	ok = true
	defer func() {
		rec := recover()
		if rec == nil {
			return
		}
		f, isFailure := rec.(*Failure)
		if !isFailure {
			panic(rec)
		}
		// Recording escalates by itself in stop-on-first mode.
		r.recordAt(site, haveSite, f.Message, "")
		ok = false
	}()

	fn()
	return ok
}
