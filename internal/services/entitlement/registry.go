package entitlement

import (
	"context"
	"log/slog"
	"sync"

	"github.com/magabrotheeeer/content-gate/internal/metrics"
	"github.com/magabrotheeeer/content-gate/internal/models"
)

type sessionKey struct {
	userID  string
	surface models.Surface
}

// Registry хранит движки активных пользователей. Движок создаётся при первом
// обращении или смене личности и сносится при выходе. Гостевые движки не хранятся.
type Registry struct {
	deps Deps
	log  *slog.Logger

	mu       sync.Mutex
	sessions map[sessionKey]*Engine
}

// NewRegistry создаёт пустой реестр сессий.
func NewRegistry(deps Deps, log *slog.Logger) *Registry {
	return &Registry{
		deps:     deps,
		log:      log,
		sessions: make(map[sessionKey]*Engine),
	}
}

// Session возвращает инициализированный движок для личности и поверхности.
func (r *Registry) Session(ctx context.Context, identity models.Identity, surface models.Surface) *Engine {
	if identity.IsGuest() {
		e := NewEngine(identity, surface, r.deps, r.log)
		e.Init(ctx)
		return e
	}

	key := sessionKey{userID: identity.UserID, surface: surface}

	r.mu.Lock()
	e, ok := r.sessions[key]
	if !ok || e.identity != identity {
		if ok {
			r.log.Info("identity changed, reinitialising session",
				slog.String("user_id", identity.UserID), slog.String("surface", string(surface)))
		} else {
			metrics.ActiveSessions.Inc()
		}
		e = NewEngine(identity, surface, r.deps, r.log)
		r.sessions[key] = e
	}
	r.mu.Unlock()

	e.Init(ctx)
	return e
}

// Lookup возвращает существующий движок без создания нового.
func (r *Registry) Lookup(userID string, surface models.Surface) (*Engine, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[sessionKey{userID: userID, surface: surface}]
	return e, ok
}

// SignOut сносит все сессии пользователя. Токен ожидающего гранта удаляется.
func (r *Registry) SignOut(ctx context.Context, userID string) int {
	r.mu.Lock()
	var removed []*Engine
	for key, e := range r.sessions {
		if key.userID == userID {
			removed = append(removed, e)
			delete(r.sessions, key)
		}
	}
	r.mu.Unlock()

	for _, e := range removed {
		metrics.ActiveSessions.Dec()
		e.Teardown(ctx)
	}
	if len(removed) == 0 && userID != "" {
		// Сессий в этом процессе нет, но токен мог остаться от прошлой.
		NewEngine(models.Identity{UserID: userID}, models.SurfaceWeb, r.deps, r.log).Teardown(ctx)
	}
	return len(removed)
}

// userSessions живые сессии пользователя, кроме поверхности skip.
func (r *Registry) userSessions(userID string, skip models.Surface) []*Engine {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*Engine
	for key, e := range r.sessions {
		if key.userID == userID && key.surface != skip {
			out = append(out, e)
		}
	}
	return out
}

// Refresh перечитывает реестр и биллинг во всех живых сессиях пользователя,
// кроме поверхности skip. Возвращает число обновлённых сессий.
func (r *Registry) Refresh(ctx context.Context, userID string, skip models.Surface) int {
	sessions := r.userSessions(userID, skip)
	for _, e := range sessions {
		e.Refetch(ctx)
	}
	return len(sessions)
}

// Grant выдаёт пользователю грант на сегодня. Запись в реестр делает одна
// сессия, остальные живые сессии получают грант в памяти. Без живых сессий
// грант пишется через временный движок. false означает, что запись в реестр
// не удалась или запрос некорректен.
func (r *Registry) Grant(ctx context.Context, userID string, ct models.ContentType, contentID string) bool {
	if userID == "" || contentID == "" {
		return false
	}
	if _, err := models.ParseContentType(string(ct)); err != nil {
		return false
	}

	sessions := r.userSessions(userID, "")
	if len(sessions) == 0 {
		e := NewEngine(models.Identity{UserID: userID}, models.SurfaceWeb, r.deps, r.log)
		return e.UnlockContent(ctx, ct, contentID)
	}
	persisted := sessions[0].UnlockContent(ctx, ct, contentID)
	for _, e := range sessions[1:] {
		e.grants.Add(models.NewDailyGrant(ct, contentID, e.now()))
	}
	return persisted
}

// Len возвращает число живых сессий.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Close отпускает все сессии. Долговременные токены остаются на месте.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	metrics.ActiveSessions.Sub(float64(len(r.sessions)))
	r.sessions = make(map[sessionKey]*Engine)
}
