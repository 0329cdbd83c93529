// Package platform реализует клиент биллинга мобильной платформы. Используется только
// на мобильной поверхности как основной источник тарифа.
package platform

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/magabrotheeeer/content-gate/internal/lib/sl"
	"github.com/magabrotheeeer/content-gate/internal/metrics"
	"github.com/magabrotheeeer/content-gate/internal/models"
)

// ErrUnexpectedStatus биллинг ответил статусом, отличным от 200 и 404.
var ErrUnexpectedStatus = errors.New("platform: unexpected status")

// Client ходит в REST API биллинга платформы.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        *slog.Logger
	now        func() time.Time
}

// NewClient создаёт клиента. Пустой baseURL отключает клиента.
func NewClient(baseURL, apiKey string, timeout time.Duration, log *slog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
		now:        time.Now,
	}
}

// Enabled сообщает, настроен ли клиент.
func (c *Client) Enabled() bool {
	return c != nil && c.baseURL != ""
}

// ForUser возвращает состояние подписчика. До первого запроса оно в статусе загрузки.
func (c *Client) ForUser(userID string) *Subscriber {
	s := &Subscriber{client: c, userID: userID}
	if c.Enabled() && userID != "" {
		s.state = models.PlatformEntitlement{Plan: models.PlanFree, IsLoading: true}
	} else {
		s.state = models.PlatformEntitlement{Plan: models.PlanFree}
	}
	return s
}

// Fetch запрашивает активные права пользователя и выбирает наивысшее.
func (c *Client) Fetch(ctx context.Context, userID string) (models.PlatformEntitlement, error) {
	const op = "platform.Fetch"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/v1/subscribers/"+url.PathEscape(userID), nil)
	if err != nil {
		return models.PlatformEntitlement{}, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return models.PlatformEntitlement{}, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return models.PlatformEntitlement{Plan: models.PlanFree}, nil
	default:
		return models.PlatformEntitlement{}, fmt.Errorf("%s: %w: %s", op, ErrUnexpectedStatus, resp.Status)
	}

	var body subscriberResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return models.PlatformEntitlement{}, fmt.Errorf("%s: %w", op, err)
	}
	return resolve(body, c.now()), nil
}

// resolve выбирает наивысшее действующее право. Неизвестные идентификаторы прав игнорируются.
func resolve(body subscriberResponse, now time.Time) models.PlatformEntitlement {
	best := models.PlanFree
	var expires *time.Time
	for id, ent := range body.Subscriber.Entitlements {
		plan, err := models.ParsePlan(id)
		if err != nil || plan == models.PlanFree {
			continue
		}
		if ent.ExpiresDate != nil && !now.Before(*ent.ExpiresDate) {
			continue
		}
		switch {
		case plan.Rank() > best.Rank():
			best, expires = plan, ent.ExpiresDate
		case plan == best && expires != nil && (ent.ExpiresDate == nil || ent.ExpiresDate.After(*expires)):
			expires = ent.ExpiresDate
		}
	}
	if best == models.PlanFree {
		return models.PlatformEntitlement{Plan: models.PlanFree}
	}
	return models.PlatformEntitlement{
		Plan:                  best,
		HasActiveSubscription: true,
		ExpiresAt:             expires,
	}
}

// Subscriber хранит последнее известное состояние прав одного пользователя.
type Subscriber struct {
	client *Client
	userID string

	mu    sync.RWMutex
	state models.PlatformEntitlement
}

// State возвращает последнее известное состояние. Срок действия права
// проверяет вызывающий через PlatformEntitlement.ActiveAt.
func (s *Subscriber) State() models.PlatformEntitlement {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Refetch перечитывает права из биллинга. При ошибке подписка считается
// неактивной, и тариф определяется по реестру.
func (s *Subscriber) Refetch(ctx context.Context) error {
	const op = "platform.Refetch"

	if !s.client.Enabled() || s.userID == "" {
		return nil
	}

	state, err := s.client.Fetch(ctx, s.userID)
	if err != nil {
		metrics.PlatformFetches.WithLabelValues("error").Inc()
		s.client.log.Warn("platform entitlement fetch failed",
			slog.String("op", op), slog.String("user_id", s.userID), sl.Err(err))
		state = models.PlatformEntitlement{Plan: models.PlanFree}
	} else {
		metrics.PlatformFetches.WithLabelValues("ok").Inc()
	}

	s.mu.Lock()
	s.state = state
	s.mu.Unlock()

	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
