// Package entitlement разрешает доступ к платному контенту. Engine сводит реестр
// подписок, биллинг платформы, гранты за рекламу и флаг администратора в один
// тариф и решение по каждому элементу. Источники не сливаются: тариф вычисляется
// цепочкой приоритетов при каждом обращении.
package entitlement

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/magabrotheeeer/content-gate/internal/lib/sl"
	"github.com/magabrotheeeer/content-gate/internal/metrics"
	"github.com/magabrotheeeer/content-gate/internal/models"
	"github.com/magabrotheeeer/content-gate/internal/services/grants"
)

var (
	// ErrGuest операция требует аутентификации.
	ErrGuest = errors.New("entitlement: identity required")
	// ErrAdUnavailable разблокировка через рекламу недоступна на этой поверхности.
	ErrAdUnavailable = errors.New("entitlement: ad unlock is not available on this surface")
	// ErrInvalidContent пустой идентификатор или неизвестный тип контента.
	ErrInvalidContent = errors.New("entitlement: invalid content reference")
)

// Deps зависимости движка.
type Deps struct {
	Ledger      Ledger
	Pending     PendingStore
	Invalidator ContentInvalidator
	// Platform возвращает состояние биллинга для пользователя. Вызывается только для мобильной поверхности.
	Platform func(userID string) Platform
	// PurchaseRefreshDelay пауза перед перечитыванием тарифа после покупки.
	PurchaseRefreshDelay time.Duration
	// Now по умолчанию time.Now.
	Now func() time.Time
}

// Engine состояние доступа одной пары (пользователь, поверхность).
// Жизненный цикл: Init при появлении пользователя, Teardown при выходе.
type Engine struct {
	identity models.Identity
	surface  models.Surface

	ledger       Ledger
	platform     Platform
	pending      PendingStore
	invalidator  ContentInvalidator
	grants       *grants.Store
	refreshDelay time.Duration
	now          func() time.Time
	log          *slog.Logger

	initOnce sync.Once

	mu           sync.RWMutex
	subscription *models.SubscriptionRecord
	unlockState  models.UnlockState
}

// NewEngine создаёт движок. Состояние пустое до вызова Init.
func NewEngine(identity models.Identity, surface models.Surface, deps Deps, log *slog.Logger) *Engine {
	e := &Engine{
		identity:     identity,
		surface:      surface,
		ledger:       deps.Ledger,
		pending:      deps.Pending,
		invalidator:  deps.Invalidator,
		grants:       grants.New(),
		refreshDelay: deps.PurchaseRefreshDelay,
		now:          deps.Now,
		unlockState:  models.UnlockIdle,
		log: log.With(
			slog.String("user_id", identity.UserID),
			slog.String("surface", string(surface)),
		),
	}
	if e.now == nil {
		e.now = time.Now
	}
	if surface == models.SurfaceMobile && !identity.IsGuest() && deps.Platform != nil {
		e.platform = deps.Platform(identity.UserID)
	}
	return e
}

// Identity возвращает личность, для которой создан движок.
func (e *Engine) Identity() models.Identity { return e.identity }

// Surface возвращает клиентскую поверхность движка.
func (e *Engine) Surface() models.Surface { return e.surface }

// Init загружает тариф и сегодняшние гранты из реестра, а на мобильной
// поверхности ещё и состояние биллинга. Повторные вызовы ничего не делают.
func (e *Engine) Init(ctx context.Context) {
	e.initOnce.Do(func() {
		if e.identity.IsGuest() {
			return
		}
		rec, today := e.readLedger(ctx)
		e.grants.Load(today)
		e.mu.Lock()
		e.subscription = rec
		e.mu.Unlock()
		e.refetchPlatform(ctx)
	})
}

// Teardown сбрасывает состояние в памяти и токен ожидающего гранта.
func (e *Engine) Teardown(ctx context.Context) {
	const op = "entitlement.Teardown"

	e.grants.Reset()
	e.mu.Lock()
	e.subscription = nil
	e.unlockState = models.UnlockIdle
	e.mu.Unlock()

	if e.identity.IsGuest() || e.pending == nil {
		return
	}
	if err := e.pending.Clear(ctx, e.identity.UserID); err != nil {
		e.log.Warn("failed to clear pending unlock token", slog.String("op", op), sl.Err(err))
	}
}

// Refetch перечитывает реестр и биллинг платформы. Гранты из реестра
// добавляются к уже известным, локальные гранты не теряются.
func (e *Engine) Refetch(ctx context.Context) {
	if e.identity.IsGuest() {
		return
	}
	rec, today := e.readLedger(ctx)
	for _, g := range today {
		e.grants.Add(g)
	}
	e.mu.Lock()
	e.subscription = rec
	e.mu.Unlock()
	e.refetchPlatform(ctx)
}

func (e *Engine) readLedger(ctx context.Context) (*models.SubscriptionRecord, []models.UnlockGrant) {
	rec := e.ledger.Subscription(ctx, e.identity.UserID)
	today := e.ledger.TodayGrants(ctx, e.identity.UserID, e.now())
	return rec, today
}

func (e *Engine) refetchPlatform(ctx context.Context) {
	if e.platform == nil {
		return
	}
	// Ошибка уже залогирована клиентом, тариф возьмётся из реестра.
	_ = e.platform.Refetch(ctx)
}

// ResolvePlan возвращает действующий тариф. Порядок: администратор → premium;
// активная подписка в биллинге платформы (только мобильная поверхность)
// замещает реестр; иначе тариф по реестру с учётом срока. Гость всегда free.
func (e *Engine) ResolvePlan() models.Plan {
	if e.identity.IsGuest() {
		return models.PlanFree
	}
	if e.identity.IsAdmin {
		return models.PlanPremium
	}
	if st, ok := e.platformState(); ok && st.ActiveAt(e.now()) {
		return st.Plan
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.subscription.EffectivePlan(e.now())
}

func (e *Engine) platformState() (models.PlatformEntitlement, bool) {
	if e.platform == nil {
		return models.PlatformEntitlement{}, false
	}
	return e.platform.State(), true
}

// CanAccess сообщает, открыт ли элемент с уровнем tier.
func (e *Engine) CanAccess(tier models.ContentTier, ct models.ContentType, contentID string) bool {
	if e.identity.IsAdmin {
		return true
	}
	if e.identity.IsGuest() {
		return false
	}

	plan := e.ResolvePlan()
	switch tier {
	case models.TierFree:
		return true
	case models.TierDaily:
		// В браузере daily монетизируется рекламой на странице, а не поштучно.
		if e.surface == models.SurfaceWeb {
			return true
		}
		return plan.AtLeast(tier.RequiredPlan()) || e.IsContentUnlocked(ct, contentID)
	case models.TierExclusive:
		if plan.AtLeast(tier.RequiredPlan()) {
			return true
		}
		return e.surface == models.SurfaceMobile && e.IsContentUnlocked(ct, contentID)
	case models.TierPremium:
		return plan.AtLeast(tier.RequiredPlan())
	default:
		return false
	}
}

// GetUnlockMethod возвращает, что нужно сделать для доступа к элементу.
// Если доступ уже есть, возвращает DecisionUnlocked. Рекламные варианты бывают только
// на мобильной поверхности.
func (e *Engine) GetUnlockMethod(tier models.ContentTier, ct models.ContentType, contentID string) models.AccessDecision {
	if e.CanAccess(tier, ct, contentID) {
		return models.DecisionUnlocked
	}
	if e.identity.IsGuest() {
		return models.DecisionLoginRequired
	}

	if e.surface == models.SurfaceMobile {
		switch tier {
		case models.TierDaily:
			return models.DecisionWatchAd
		case models.TierExclusive:
			return models.DecisionWatchAdOrUpgradeBasic
		default:
			return models.DecisionUpgradePremiumOnly
		}
	}

	if tier == models.TierExclusive {
		return models.DecisionUpgradeBasic
	}
	return models.DecisionUpgradePremium
}

// Decide возвращает решение о доступе вместе с действием для оркестратора разблокировки.
func (e *Engine) Decide(tier models.ContentTier, ct models.ContentType, contentID string) models.AccessResult {
	decision := e.GetUnlockMethod(tier, ct, contentID)
	metrics.AccessDecisions.WithLabelValues(string(e.surface), string(tier), string(decision)).Inc()
	return models.AccessResult{
		Tier:     tier,
		Unlocked: decision == models.DecisionUnlocked,
		Decision: decision,
		Action:   decision.Action(),
	}
}

// IsContentUnlocked сообщает, есть ли у элемента действующий грант.
func (e *Engine) IsContentUnlocked(ct models.ContentType, contentID string) bool {
	if contentID == "" {
		return false
	}
	return e.grants.Has(ct, contentID, e.now())
}

// Grants возвращает действующие гранты сессии.
func (e *Engine) Grants() []models.UnlockGrant {
	return e.grants.Snapshot(e.now())
}

// UnlockContent выдаёт грант на сегодня. Грант сразу появляется в памяти,
// затем записывается в реестр. false означает, что запись в реестр не удалась
// (или запрос некорректен), но выданный в памяти грант при этом остаётся.
func (e *Engine) UnlockContent(ctx context.Context, ct models.ContentType, contentID string) bool {
	return e.unlock(ctx, ct, contentID, "explicit")
}

func (e *Engine) unlock(ctx context.Context, ct models.ContentType, contentID, source string) bool {
	const op = "entitlement.UnlockContent"

	if e.identity.IsGuest() {
		return false
	}
	if _, err := models.ParseContentType(string(ct)); err != nil || contentID == "" {
		return false
	}

	now := e.now()
	e.grants.Add(models.NewDailyGrant(ct, contentID, now))

	if err := e.ledger.RecordGrant(ctx, e.identity.UserID, ct, contentID, now); err != nil {
		metrics.UnlockGrants.WithLabelValues(source, "not_persisted").Inc()
		e.log.Warn("unlock grant kept in memory only",
			slog.String("op", op), sl.Content(string(ct), contentID), sl.Err(err))
		return false
	}
	metrics.UnlockGrants.WithLabelValues(source, "persisted").Inc()
	return true
}

// UnlockState возвращает состояние разблокировки через рекламу.
func (e *Engine) UnlockState() models.UnlockState {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.unlockState
}

func (e *Engine) setUnlockState(s models.UnlockState) {
	e.mu.Lock()
	e.unlockState = s
	e.mu.Unlock()
}

// BeginAdUnlock сохраняет токен ожидающего гранта до запуска нативного показа
// рекламы. Новый запрос замещает предыдущий токен.
func (e *Engine) BeginAdUnlock(ctx context.Context, ct models.ContentType, contentID string) error {
	const op = "entitlement.BeginAdUnlock"

	if e.identity.IsGuest() {
		return ErrGuest
	}
	if e.surface != models.SurfaceMobile {
		return ErrAdUnavailable
	}
	if _, err := models.ParseContentType(string(ct)); err != nil || contentID == "" {
		return ErrInvalidContent
	}

	if prev := e.UnlockState(); prev == models.UnlockGrantPending || prev == models.UnlockAdRequested {
		e.log.Info("previous ad unlock abandoned by a new request", slog.String("op", op))
	}
	e.setUnlockState(models.UnlockAdRequested)

	token := models.PendingUnlock{ContentType: ct, ContentID: contentID, RequestedAt: e.now().UTC()}
	if err := e.pending.Set(ctx, e.identity.UserID, token); err != nil {
		e.setUnlockState(models.UnlockIdle)
		return fmt.Errorf("%s: %w", op, err)
	}
	e.setUnlockState(models.UnlockGrantPending)
	return nil
}

// AbandonAdUnlock удаляет токен ожидающего гранта.
func (e *Engine) AbandonAdUnlock(ctx context.Context) error {
	const op = "entitlement.AbandonAdUnlock"

	if e.identity.IsGuest() {
		return ErrGuest
	}
	if err := e.pending.Clear(ctx, e.identity.UserID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	e.setUnlockState(models.UnlockGrantAbandoned)
	return nil
}

// PendingUnlock возвращает токен ожидающего гранта, если он есть.
func (e *Engine) PendingUnlock(ctx context.Context) (*models.PendingUnlock, error) {
	if e.identity.IsGuest() {
		return nil, nil
	}
	return e.pending.Get(ctx, e.identity.UserID)
}

// HandleAdUnlockSuccess завершает разблокировку по подтверждению из нативной
// оболочки. Токен снимается до изменения состояния, поэтому повторная доставка
// того же подтверждения ничего не делает. Без токена подтверждение отбрасывается.
func (e *Engine) HandleAdUnlockSuccess(ctx context.Context) (bool, error) {
	const op = "entitlement.HandleAdUnlockSuccess"

	if e.identity.IsGuest() {
		return false, ErrGuest
	}
	token, err := e.pending.Take(ctx, e.identity.UserID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if token == nil {
		e.log.Warn("ad unlock confirmation without pending token, discarded", slog.String("op", op))
		return false, nil
	}

	e.setUnlockState(models.UnlockGrantConfirmed)
	e.unlock(ctx, token.ContentType, token.ContentID, "ad")
	return true, nil
}

// HandlePurchaseSuccess выжидает фиксированную паузу, чтобы вебхук биллинга
// успел записать подписку в реестр, перечитывает тариф и сбрасывает кеш платного контента.
func (e *Engine) HandlePurchaseSuccess(ctx context.Context) error {
	const op = "entitlement.HandlePurchaseSuccess"

	if e.identity.IsGuest() {
		return ErrGuest
	}

	if e.refreshDelay > 0 {
		timer := time.NewTimer(e.refreshDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("%s: %w", op, ctx.Err())
		case <-timer.C:
		}
	}

	e.Refetch(ctx)

	if e.invalidator != nil {
		if err := e.invalidator.Invalidate(ctx, e.identity.UserID); err != nil {
			e.log.Warn("failed to invalidate cached content", slog.String("op", op), sl.Err(err))
		}
	}
	e.log.Info("plan refreshed after purchase", slog.String("plan", string(e.ResolvePlan())))
	return nil
}

// PlanSources тариф вместе с источниками, из которых он получен.
type PlanSources struct {
	Plan       models.Plan                 `json:"plan"`
	LedgerPlan models.Plan                 `json:"ledger_plan"`
	Platform   *models.PlatformEntitlement `json:"platform,omitempty"`
	IsAdmin    bool                        `json:"is_admin"`
	Surface    models.Surface              `json:"surface"`
	Guest      bool                        `json:"guest"`
}

// Sources возвращает тариф и его источники.
func (e *Engine) Sources() PlanSources {
	e.mu.RLock()
	ledgerPlan := e.subscription.EffectivePlan(e.now())
	e.mu.RUnlock()

	out := PlanSources{
		Plan:       e.ResolvePlan(),
		LedgerPlan: ledgerPlan,
		IsAdmin:    e.identity.IsAdmin,
		Surface:    e.surface,
		Guest:      e.identity.IsGuest(),
	}
	if st, ok := e.platformState(); ok {
		st.HasActiveSubscription = st.ActiveAt(e.now())
		out.Platform = &st
	}
	return out
}
