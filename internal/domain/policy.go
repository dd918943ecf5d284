package domain

// AdmissionInput is the document handed to the sync policy for one
// manifest entry.
type AdmissionInput struct {
	RepositoryID string        `json:"repository_id"`
	App          ManifestEntry `json:"app"`
}

// AdmissionDecision is the policy verdict for one manifest entry. A denied
// entry is counted as a per-entry sync error; it never aborts the run.
type AdmissionDecision struct {
	Allow   bool     `json:"allow"`
	Reasons []string `json:"reasons,omitempty"`
}
