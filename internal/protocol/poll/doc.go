// Package poll defines the resumable operation contract.
//
// An operation is a state machine driven by repeated calls to PollStage. A
// call never blocks: it either finishes (value or error) or returns pending
// after arranging for the Context's waker to fire once progress is possible.
// A finished stage must not be polled again.
//
// Memo composes stages: it polls an inner stage until it finishes once and
// then serves the cached value, so multi-step codecs can be re-polled after
// spurious wakeups without repeating completed work.
package poll
