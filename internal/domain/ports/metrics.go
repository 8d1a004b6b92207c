package ports

// StoreMetrics receives counters from the store.
type StoreMetrics interface {
	// MutationApplied counts an effective mutation by action.
	MutationApplied(action string)

	// MutationDenied counts a mutation dropped because the caller was not privileged.
	MutationDenied(action string)

	// PersistFailed counts a failed background save.
	PersistFailed()
}
