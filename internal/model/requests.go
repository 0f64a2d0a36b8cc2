package model

type AuditRequest struct {
	URL        string `json:"url"`
	Pro        bool   `json:"pro"`
	CustomerID string `json:"customer_id"`
}

type RestoreRequest struct {
	Email string `json:"email"`
}

type SubscriptionStatus struct {
	Active     bool   `json:"active"`
	CustomerID string `json:"customer_id,omitempty"`
}

type WebhookAck struct {
	Received bool `json:"received"`
}
