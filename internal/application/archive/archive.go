// Package archive implementa el registro de archivo append-only y el patrón
// archivar-y-eliminar compartido por productos, boutiques y usuarios.
package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/eboutique-api/internal/domain"
	"github.com/jhoicas/eboutique-api/internal/domain/entity"
	"github.com/jhoicas/eboutique-api/internal/domain/repository"
)

// Record inserta una entrada en el archivo. snapshot se serializa a JSON.
// Debe llamarse con el repositorio de la transacción que realiza la acción destructiva.
func Record(
	ctx context.Context,
	repo repository.ArchiveRepository,
	kind entity.ArchiveKind,
	originalID string,
	snapshot interface{},
	actorID, reason string,
) (*entity.ArchiveEntry, error) {
	if !kind.Valid() {
		return nil, domain.Invalid("kind", "tipo de archivo desconocido")
	}
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("archive: serializar snapshot: %w", err)
	}
	entry := &entity.ArchiveEntry{
		ID:         uuid.New().String(),
		Kind:       kind,
		OriginalID: originalID,
		Snapshot:   raw,
		ActorID:    actorID,
		Reason:     reason,
		ArchivedAt: time.Now().UTC(),
	}
	if err := repo.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// SnapshotMapper convierte la entidad en el snapshot que se guarda en el archivo.
type SnapshotMapper[T any] func(item T) interface{}

// ArchiveAndDelete escribe el snapshot de item y luego ejecuta del.
// Ambos pasos usan la misma transacción del caller: si del falla, el Rollback descarta el snapshot.
func ArchiveAndDelete[T any](
	ctx context.Context,
	repo repository.ArchiveRepository,
	kind entity.ArchiveKind,
	originalID string,
	item T,
	mapper SnapshotMapper[T],
	actorID, reason string,
	del func(ctx context.Context, id string) error,
) (*entity.ArchiveEntry, error) {
	entry, err := Record(ctx, repo, kind, originalID, mapper(item), actorID, reason)
	if err != nil {
		return nil, err
	}
	if err := del(ctx, originalID); err != nil {
		return nil, err
	}
	return entry, nil
}

// ProductSnapshot construye el ArchivedProduct (marca y modelo como texto).
func ProductSnapshot(actorID, reason string, at time.Time) SnapshotMapper[*entity.ProductDetails] {
	return func(p *entity.ProductDetails) interface{} {
		return entity.ArchivedProduct{
			OriginalID: p.ID,
			Name:       p.Name,
			Brand:      p.BrandName,
			Model:      p.ModelName,
			Price:      p.Price,
			Color:      p.Color,
			Capacity:   p.Capacity,
			RAM:        p.RAM,
			OwnerID:    p.OwnerUserID,
			ImageRef:   p.ImageRef,
			ArchivedBy: actorID,
			Reason:     reason,
			ArchivedAt: at,
		}
	}
}

// ShopSnapshot construye el ArchivedShop.
func ShopSnapshot(s *entity.Shop) interface{} {
	out := entity.ArchivedShop{
		OriginalID:    s.ID,
		Name:          s.Name,
		Address:       s.Address,
		City:          s.City,
		PostalCode:    s.PostalCode,
		Department:    s.Department,
		Phone:         s.Phone,
		Email:         s.Email,
		ResponsibleID: s.ResponsibleID,
		ManagerIDs:    s.ManagerIDs,
	}
	if s.Location != nil {
		lat, lon := s.Location.Lat, s.Location.Lon
		out.Lat, out.Lon = &lat, &lon
	}
	return out
}

// UserSnapshot construye el ArchivedUser (sin hash de contraseña).
func UserSnapshot(u *entity.User) interface{} {
	return entity.ArchivedUser{OriginalID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role}
}

// RetiredProduct resultado de archivar y eliminar un producto.
type RetiredProduct struct {
	Entry    *entity.ArchiveEntry
	Snapshot entity.ArchivedProduct
}

// RetireProduct archiva el producto, cancela sus solicitudes de eliminación aún pendientes
// y lo elimina (sus StockEntry caen en cascada). Se ejecuta dentro de la tx de repos.
func RetireProduct(ctx context.Context, repos repository.TxRepos, productID, actorID, reason string) (*RetiredProduct, error) {
	details, err := repos.Products.GetDetails(ctx, productID)
	if err != nil {
		return nil, err
	}
	if details == nil {
		return nil, domain.ErrNotFound
	}
	now := time.Now().UTC()
	mapper := ProductSnapshot(actorID, reason, now)

	pending, err := repos.Deletions.ListPendingByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	for _, req := range pending {
		req.Status = entity.DeletionStatusCancelled
		req.DecidedAt = &now
		req.DeciderID = actorID
		req.DecisionComment = "producto eliminado: " + reason
		if err := repos.Deletions.Decide(ctx, req); err != nil {
			return nil, err
		}
	}

	entry, err := ArchiveAndDelete(ctx, repos.Archive, entity.ArchiveKindProduct, productID, details, mapper, actorID, reason, repos.Products.Delete)
	if err != nil {
		return nil, err
	}
	return &RetiredProduct{Entry: entry, Snapshot: mapper(details).(entity.ArchivedProduct)}, nil
}
