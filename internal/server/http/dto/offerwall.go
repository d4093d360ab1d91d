package dto

// OfferwallResponse describes one catalog entry.
type OfferwallResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category,omitempty"`
	Description string `json:"description,omitempty"`
	Logo        string `json:"logo,omitempty"`
	Badge       string `json:"badge,omitempty"`
	Kind        string `json:"kind"`
	Tracked     bool   `json:"tracked"`
}

// LaunchResponse tells the client how to open an offerwall.
type LaunchResponse struct {
	Kind string `json:"kind"`
	URL  string `json:"url"`
}
