package dto

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// ArchiveEntryResponse salida de una entrada del archivo.
type ArchiveEntryResponse struct {
	ID         string          `json:"id"`
	Kind       string          `json:"kind"`
	OriginalID string          `json:"original_id"`
	Snapshot   json.RawMessage `json:"snapshot"`
	ActorID    string          `json:"actor_id,omitempty"`
	Reason     string          `json:"reason"`
	ArchivedAt time.Time       `json:"archived_at"`
}

// ArchivedProductResponse producto archivado (resultado de aprobar una eliminación).
type ArchivedProductResponse struct {
	ArchiveID  string          `json:"archive_id"`
	OriginalID string          `json:"original_id"`
	Name       string          `json:"name"`
	Brand      string          `json:"brand"`
	Model      string          `json:"model"`
	Price      decimal.Decimal `json:"price"`
	Color      string          `json:"color"`
	Capacity   decimal.Decimal `json:"capacity"`
	ArchivedBy string          `json:"archived_by"`
	Reason     string          `json:"reason"`
	ArchivedAt time.Time       `json:"archived_at"`
}
