package entity

import "time"

// Estados de una solicitud de eliminación. APPROVED y CANCELLED son terminales.
const (
	DeletionStatusPending   = "PENDING"
	DeletionStatusApproved  = "APPROVED"
	DeletionStatusCancelled = "CANCELLED"
)

// DeletionRequest propuesta de eliminar un producto, decidida por un responsable de boutique.
// Una propuesta crea una fila por responsable distinto; todas comparten ProposalID.
type DeletionRequest struct {
	ID              string
	ProposalID      string
	ProductID       string
	RequesterID     string
	ResponsibleID   string
	Status          string
	Reason          string
	RequestedAt     time.Time
	DecidedAt       *time.Time
	DeciderID       string
	DecisionComment string
}

// IsPending indica si la solicitud aún admite decisión.
func (r *DeletionRequest) IsPending() bool {
	return r.Status == DeletionStatusPending
}
