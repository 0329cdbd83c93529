// Package content отдаёт прогнозы и купоны с учётом решения о доступе.
// Тело записи возвращается только для открытых элементов, закрытые
// элементы приходят с решением и подсказкой действия.
package content

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/content-gate/internal/lib/sl"
	"github.com/magabrotheeeer/content-gate/internal/markets"
	"github.com/magabrotheeeer/content-gate/internal/models"
	"github.com/magabrotheeeer/content-gate/internal/storage/repository"
)

// ErrNotFound запись контента не найдена.
var ErrNotFound = errors.New("content: not found")

const keyPrefix = "content_gate:content:"

// Repository читает записи контента.
type Repository interface {
	GetPrediction(ctx context.Context, matchID string) (*models.Prediction, error)
	GetTicket(ctx context.Context, ticketID string) (*models.Ticket, error)
	ListTicketPredictions(ctx context.Context, ticketID string) ([]*models.Prediction, error)
}

// Cache JSON-кэш с поколениями ключей.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Generation(ctx context.Context, key string) (int64, error)
	Bump(ctx context.Context, key string) (int64, error)
	Invalidate(ctx context.Context, key string) error
}

// Gate принимает решение о доступе для текущей сессии.
type Gate interface {
	Identity() models.Identity
	Decide(tier models.ContentTier, ct models.ContentType, contentID string) models.AccessResult
}

// PredictionView прогноз в том виде, в каком его видит пользователь.
type PredictionView struct {
	models.AccessResult
	MatchID    string                 `json:"match_id"`
	HomeTeam   string                 `json:"home_team,omitempty"`
	AwayTeam   string                 `json:"away_team,omitempty"`
	KickoffAt  *time.Time             `json:"kickoff_at,omitempty"`
	Prediction *models.Prediction     `json:"prediction,omitempty"`
	Markets    *models.DerivedMarkets `json:"markets,omitempty"`
}

// TicketView купон в том виде, в каком его видит пользователь.
type TicketView struct {
	models.AccessResult
	ID          string               `json:"id"`
	Title       string               `json:"title"`
	Predictions []*models.Prediction `json:"predictions,omitempty"`
}

type cachedPrediction struct {
	Prediction models.Prediction     `json:"prediction"`
	Markets    models.DerivedMarkets `json:"markets"`
}

type cachedTicket struct {
	Ticket      models.Ticket        `json:"ticket"`
	Predictions []*models.Prediction `json:"predictions"`
}

// Service собирает представления контента.
type Service struct {
	repo  Repository
	cache Cache
	ttl   time.Duration
	log   *slog.Logger
}

// New создаёт сервис. cache может быть nil, тогда записи всегда читаются из репозитория.
func New(repo Repository, cache Cache, ttl time.Duration, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
		ttl:   ttl,
		log:   log,
	}
}

// TierOf возвращает уровень прогноза. Старые записи без уровня
// определяются по флагу is_premium.
func TierOf(p models.Prediction) models.ContentTier {
	if p.Tier != "" {
		return p.Tier
	}
	if p.IsPremium {
		return models.TierPremium
	}
	return models.TierFree
}

// Prediction возвращает прогноз вместе с производными рынками, если он открыт.
func (s *Service) Prediction(ctx context.Context, gate Gate, matchID string) (*PredictionView, error) {
	const op = "content.Prediction"

	userID := gate.Identity().UserID
	key := s.key(ctx, userID, "prediction", matchID)

	var entry cachedPrediction
	cached := s.fromCache(ctx, key, &entry)
	if !cached {
		p, err := s.repo.GetPrediction(ctx, matchID)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, mapNotFound(err))
		}
		entry = cachedPrediction{Prediction: *p, Markets: markets.Derive(*p)}
	}

	p := entry.Prediction
	view := &PredictionView{
		AccessResult: gate.Decide(TierOf(p), models.ContentTip, p.MatchID),
		MatchID:      p.MatchID,
		HomeTeam:     p.HomeTeam,
		AwayTeam:     p.AwayTeam,
		KickoffAt:    p.KickoffAt,
	}
	if !view.Unlocked {
		return view, nil
	}

	view.Prediction = &p
	view.Markets = &entry.Markets
	if !cached {
		s.toCache(ctx, key, entry)
	}
	return view, nil
}

// Ticket возвращает купон с прогнозами, если он открыт.
func (s *Service) Ticket(ctx context.Context, gate Gate, ticketID string) (*TicketView, error) {
	const op = "content.Ticket"

	userID := gate.Identity().UserID
	key := s.key(ctx, userID, "ticket", ticketID)

	var entry cachedTicket
	cached := s.fromCache(ctx, key, &entry)
	if !cached {
		t, err := s.repo.GetTicket(ctx, ticketID)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, mapNotFound(err))
		}
		entry.Ticket = *t
	}

	t := entry.Ticket
	view := &TicketView{
		AccessResult: gate.Decide(t.Tier, models.ContentTicket, t.ID),
		ID:           t.ID,
		Title:        t.Title,
	}
	if !view.Unlocked {
		return view, nil
	}

	if !cached {
		predictions, err := s.repo.ListTicketPredictions(ctx, ticketID)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		entry.Predictions = predictions
		s.toCache(ctx, key, entry)
	}
	view.Predictions = entry.Predictions
	return view, nil
}

// Invalidate делает недостижимыми все кэшированные представления пользователя.
func (s *Service) Invalidate(ctx context.Context, userID string) error {
	const op = "content.Invalidate"
	if s.cache == nil {
		return nil
	}
	if _, err := s.cache.Bump(ctx, generationKey(userID)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Service) key(ctx context.Context, userID, kind, id string) string {
	if s.cache == nil {
		return ""
	}
	gen, err := s.cache.Generation(ctx, generationKey(userID))
	if err != nil {
		s.log.Warn("content cache generation unavailable", slog.String("user_id", userID), sl.Err(err))
		return ""
	}
	return fmt.Sprintf("%s%s:%d:%s:%s", keyPrefix, userKey(userID), gen, kind, id)
}

func (s *Service) fromCache(ctx context.Context, key string, result any) bool {
	if key == "" {
		return false
	}
	found, err := s.cache.Get(ctx, key, result)
	if err != nil {
		s.log.Warn("content cache read failed", slog.String("key", key), sl.Err(err))
		// Битую запись удаляем.
		if err := s.cache.Invalidate(ctx, key); err != nil {
			s.log.Warn("failed to evict content cache entry", slog.String("key", key), sl.Err(err))
		}
		return false
	}
	return found
}

func (s *Service) toCache(ctx context.Context, key string, value any) {
	if key == "" {
		return
	}
	if err := s.cache.Set(ctx, key, value, s.ttl); err != nil {
		s.log.Warn("failed to cache content", slog.String("key", key), sl.Err(err))
	}
}

func generationKey(userID string) string {
	return keyPrefix + userKey(userID) + ":gen"
}

func userKey(userID string) string {
	if userID == "" {
		return "guest"
	}
	return userID
}

func mapNotFound(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
