// Package reactive implements Filament's fine-grained reactivity system.
//
// The core primitives are Signal (a mutable reactive value), Computed
// (a lazily cached derivation), Effect (an eagerly re-run side effect),
// and Store (a deep reactive wrapper around plain maps and slices).
//
// Reading a signal inside a tracked context (an effect body, a computed
// function, or a component render) subscribes the running computation to
// the signal. Writing a signal notifies subscribers, unless the new value
// is equal to the old one.
//
// Scopes form the lifecycle tree: each component and each reactive
// insertion boundary owns a Scope. Disposing a scope disposes its child
// scopes, its effects, and runs registered cleanup callbacks. Scopes also
// carry provide/inject values resolved by walking scope ancestry.
//
// Batch groups multiple writes into a single synchronous notification
// phase. The Scheduler provides the asynchronous counterpart: a job queue
// with deduplication, pre-flush callbacks, and NextTick for awaiting a
// settled state.
package reactive
