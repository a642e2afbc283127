package dto

import "time"

// RequestDeletionRequest body de POST /api/products/:id/request-deletion.
type RequestDeletionRequest struct {
	Reason string `json:"reason" validate:"max=1000"`
}

// DecisionRequest body de approve / cancel.
type DecisionRequest struct {
	Comment string `json:"comment" validate:"max=1000"`
}

// DeletionRequestResponse salida de una solicitud de eliminación.
type DeletionRequestResponse struct {
	ID              string     `json:"id"`
	ProposalID      string     `json:"proposal_id"`
	ProductID       string     `json:"product_id"`
	RequesterID     string     `json:"requester_id"`
	ResponsibleID   string     `json:"responsible_id"`
	Status          string     `json:"status"`
	Reason          string     `json:"reason"`
	RequestedAt     time.Time  `json:"requested_at"`
	DecidedAt       *time.Time `json:"decided_at,omitempty"`
	DeciderID       string     `json:"decider_id,omitempty"`
	DecisionComment string     `json:"decision_comment,omitempty"`
}

// DeletionDecisionResponse resultado de aprobar: la solicitud decidida y el producto archivado.
type DeletionDecisionResponse struct {
	Request  DeletionRequestResponse  `json:"request"`
	Archived *ArchivedProductResponse `json:"archived_product,omitempty"`
}
