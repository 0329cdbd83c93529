package bridge

import (
	"context"

	"github.com/magabrotheeeer/content-gate/internal/models"
	"github.com/magabrotheeeer/content-gate/internal/services/entitlement"
)

// RegistryEngines отдаёт мобильные сессии из реестра движков. Уже открытая
// сессия используется как есть, чтобы не сбросить флаг администратора.
type RegistryEngines struct {
	Registry *entitlement.Registry
}

// Engine возвращает движок мобильной сессии пользователя.
func (r RegistryEngines) Engine(ctx context.Context, userID string) Engine {
	if e, ok := r.Registry.Lookup(userID, models.SurfaceMobile); ok {
		e.Init(ctx)
		return e
	}
	return r.Registry.Session(ctx, models.Identity{UserID: userID}, models.SurfaceMobile)
}

// RefreshOthers перечитывает тариф во всех сессиях пользователя, кроме мобильной.
func (r RegistryEngines) RefreshOthers(ctx context.Context, userID string) int {
	return r.Registry.Refresh(ctx, userID, models.SurfaceMobile)
}
