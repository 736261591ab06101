// Package order implements the Order aggregate and its status state machine.
//
// Every status change is validated by CanTransition, which combines the
// transition table with the channel the change arrives through: the generic
// status engine, the artisan self-ship path, the shipping agent path, or an
// admin override. Status history is append-only; reverts are bounded by a
// fifteen minute modification window measured from the last transition.
//
// The aggregate also carries the pickup broadcast, agent assignment and
// delivery proof that the shipping workflow attaches to an order, plus an
// optimistic concurrency version that repositories check on every update.
package order
