package domain

// Candidate is an unvalidated article reference returned by an extraction
// strategy for one source page. The URL may still be relative.
type Candidate struct {
	Title     string `json:"title"`
	URL       string `json:"url"`
	Published string `json:"published"`
}

// Article is an accepted record persisted in the article database.
// Disk field names match the archive the editorial tooling already reads.
type Article struct {
	Title     string `json:"title"`
	URL       string `json:"url"`
	Published string `json:"published"`
	FoundDate string `json:"funnet_dato"`
}

// RunStats aggregates counters for a single discovery run.
type RunStats struct {
	Sources       int
	FailedSources int
	Candidates    int
	Accepted      int
}
