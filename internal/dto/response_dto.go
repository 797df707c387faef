package dto

// ResultEnvelope is returned by the quiz engine for every outcome.
type ResultEnvelope struct {
	Status         int    `json:"status"`
	RequestOwnerID string `json:"request_owner_id"`
	Message        string `json:"message"`
	Data           any    `json:"data"`
}

type ErrorResponse struct {
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}
