package reacton

// Optimistic applies optimisticValue to src immediately, runs commit to
// reconcile with some external source of truth, and rolls back to the
// prior value if commit fails — invoking onRollback with the commit error,
// if provided, and then propagating that error to the caller (spec's
// "optimistic(ref, optimisticValue, mutation, onRollback?)"). On success
// the Source is set to whatever commit actually returned (which may differ
// from the optimistic guess, e.g. a server-assigned id).
func Optimistic[T any](store *Store, src *Source[T], optimisticValue T, commit func() (T, error), onRollback ...func(error)) error {
	prev, err := src.Get(store)
	if err != nil {
		return err
	}
	if err := src.Set(store, optimisticValue); err != nil {
		return err
	}

	final, err := commit()
	if err != nil {
		_ = src.Set(store, prev)
		for _, fn := range onRollback {
			fn(err)
		}
		return err
	}
	return src.Set(store, final)
}
