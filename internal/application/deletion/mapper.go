package deletion

import (
	"github.com/jhoicas/eboutique-api/internal/application/dto"
	"github.com/jhoicas/eboutique-api/internal/domain/entity"
)

// ToResponse mapea una solicitud a su DTO.
func ToResponse(r *entity.DeletionRequest) dto.DeletionRequestResponse {
	return dto.DeletionRequestResponse{
		ID:              r.ID,
		ProposalID:      r.ProposalID,
		ProductID:       r.ProductID,
		RequesterID:     r.RequesterID,
		ResponsibleID:   r.ResponsibleID,
		Status:          r.Status,
		Reason:          r.Reason,
		RequestedAt:     r.RequestedAt,
		DecidedAt:       r.DecidedAt,
		DeciderID:       r.DeciderID,
		DecisionComment: r.DecisionComment,
	}
}

// ToResponses mapea una lista.
func ToResponses(list []*entity.DeletionRequest) []dto.DeletionRequestResponse {
	out := make([]dto.DeletionRequestResponse, 0, len(list))
	for _, r := range list {
		out = append(out, ToResponse(r))
	}
	return out
}
