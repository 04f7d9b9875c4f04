package domain

// Transaction types and priorities offered on the client details form.
var (
	TransactionTypes = []string{"New Investment", "Rebalance", "Review Only"}
	Priorities       = []string{"Standard", "Urgent", "ASAP"}
)

// ClientDetails is free-form metadata attached to a shared or exported portfolio.
type ClientDetails struct {
	ClientName      string `json:"clientName,omitempty"`
	AdviserName     string `json:"adviserName,omitempty"`
	TransactionType string `json:"transactionType,omitempty"`
	Priority        string `json:"priority,omitempty"`
	Notes           string `json:"notes,omitempty"`
}
