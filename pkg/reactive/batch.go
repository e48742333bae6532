package reactive

// Batch groups multiple signal writes into a single notification phase.
// Writes inside the batch function queue their notifications; when the
// outermost batch exits, queued listeners are deduplicated by ID and each
// is notified exactly once, in first-scheduled order.
//
// Batches nest: notifications fire only when the outermost batch
// completes. The flush happens in a defer, so a panic inside fn still
// flushes before the panic propagates to the caller.
//
// Example:
//
//	Batch(func() {
//	    firstName.Set("John")
//	    lastName.Set("Doe")
//	    age.Set(30)
//	})
//	// Subscribers re-run once with all three changes.
func Batch(fn func()) {
	incrementBatchDepth()

	defer func() {
		if decrementBatchDepth() {
			processPendingUpdates()
		}
	}()

	fn()
}

// processPendingUpdates deduplicates and notifies all pending listeners.
func processPendingUpdates() {
	updates := drainPendingUpdates()
	if len(updates) == 0 {
		return
	}

	seen := make(map[uint64]bool, len(updates))
	unique := make([]Listener, 0, len(updates))

	for _, listener := range updates {
		id := listener.ID()
		if !seen[id] {
			seen[id] = true
			unique = append(unique, listener)
		}
	}

	for _, listener := range unique {
		listener.MarkDirty()
	}
}
