package ports

// Watcher notifies about changes to a set of files and glob patterns.
type Watcher interface {
	// Watch starts monitoring paths, which may be files or glob patterns.
	// onChange is called with the path of each changed file once its burst of
	// events has settled, and may be invoked from any goroutine.
	Watch(paths []string, onChange func(path string)) error

	// Stop ends monitoring. Safe to call multiple times.
	Stop() error
}
