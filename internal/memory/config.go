package memory

type Configuration struct {
	// Seed loads the mock SLO dataset on startup.
	Seed bool
	// Latency simulates a remote backend, e.g. "500ms".
	Latency string
}
