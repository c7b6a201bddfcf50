package curate

// Skip records a single-candidate drop recovered locally by a pipeline stage.
// Skips never alter control flow; the orchestrator aggregates them so every
// discarded candidate is observable with its URL and reason.
type Skip struct {
	URL    string `json:"url"`
	Stage  string `json:"stage"`
	Reason string `json:"reason"`
}
