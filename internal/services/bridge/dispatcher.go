// Package bridge разбирает входящие сообщения мобильного моста и передаёт их
// движку доступа пользователя. Диспетчер подключается при старте процесса и
// живёт всё время его работы.
package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/xeipuuv/gojsonschema"

	"github.com/magabrotheeeer/content-gate/internal/lib/sl"
	"github.com/magabrotheeeer/content-gate/internal/metrics"
	"github.com/magabrotheeeer/content-gate/internal/models"
)

// ErrMalformedMessage сообщение не разбирается или не проходит схему конверта.
var ErrMalformedMessage = errors.New("bridge: malformed message")

const envelopeSchema = `{
	"type": "object",
	"required": ["kind", "user_id"],
	"properties": {
		"kind": {"type": "string", "minLength": 1},
		"user_id": {"type": "string", "minLength": 1},
		"payload": {}
	}
}`

// Engine операции движка доступа, вызываемые из моста.
type Engine interface {
	HandleAdUnlockSuccess(ctx context.Context) (bool, error)
	HandlePurchaseSuccess(ctx context.Context) error
	ResolvePlan() models.Plan
}

// Engines находит движок мобильной сессии пользователя, создавая его при необходимости.
type Engines interface {
	Engine(ctx context.Context, userID string) Engine
	// RefreshOthers перечитывает тариф в остальных живых сессиях пользователя.
	RefreshOthers(ctx context.Context, userID string) int
}

// Notifier ставит письмо в очередь отправки.
type Notifier interface {
	Publish(message any) error
}

type handlerFunc func(ctx context.Context, msg models.BridgeMessage) error

// Dispatcher направляет сообщения обработчикам по виду.
type Dispatcher struct {
	engines  Engines
	notifier Notifier
	log      *slog.Logger
	schema   *gojsonschema.Schema
	handlers map[models.MessageKind]handlerFunc
	now      func() time.Time

	// emailed одноразовый флаг письма о покупке на пользователя. Живёт до перезапуска процесса.
	emailed sync.Map
}

// New создаёт диспетчер. notifier может быть nil, тогда письма не отправляются.
func New(engines Engines, notifier Notifier, log *slog.Logger) (*Dispatcher, error) {
	const op = "bridge.New"

	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(envelopeSchema))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	d := &Dispatcher{
		engines:  engines,
		notifier: notifier,
		log:      log,
		schema:   schema,
		now:      time.Now,
	}
	d.handlers = map[models.MessageKind]handlerFunc{
		models.KindAdUnlockSuccess: d.handleAdUnlock,
		models.KindPurchaseSuccess: d.handlePurchase,
		models.KindRestoreSuccess:  d.handleRestore,
	}
	return d, nil
}

// Decode проверяет конверт по схеме и разбирает его.
func (d *Dispatcher) Decode(body []byte) (models.BridgeMessage, error) {
	result, err := d.schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return models.BridgeMessage{}, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return models.BridgeMessage{}, fmt.Errorf("%w: %s", ErrMalformedMessage, strings.Join(errs, "; "))
	}

	var msg models.BridgeMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return models.BridgeMessage{}, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}
	return msg, nil
}

// HandleDelivery обработчик очереди. Битые и неизвестные сообщения
// подтверждаются и отбрасываются; ошибка возвращается только для повторной доставки.
func (d *Dispatcher) HandleDelivery(ctx context.Context, body []byte) error {
	const op = "bridge.HandleDelivery"

	msg, err := d.Decode(body)
	if err != nil {
		metrics.BridgeMessages.WithLabelValues("unknown", "malformed").Inc()
		d.log.Warn("malformed bridge message discarded", slog.String("op", op), sl.Err(err))
		return nil
	}
	return d.Dispatch(ctx, msg)
}

// Dispatch передаёт сообщение обработчику его вида.
func (d *Dispatcher) Dispatch(ctx context.Context, msg models.BridgeMessage) error {
	const op = "bridge.Dispatch"

	log := d.log.With(slog.String("op", op), slog.String("kind", string(msg.Kind)), slog.String("user_id", msg.UserID))

	handler, ok := d.handlers[msg.Kind]
	if !ok {
		metrics.BridgeMessages.WithLabelValues("unrecognized", "dropped").Inc()
		log.Warn("unrecognized bridge message kind, dropped")
		return nil
	}
	if err := handler(ctx, msg); err != nil {
		metrics.BridgeMessages.WithLabelValues(string(msg.Kind), "failed").Inc()
		log.Error("bridge message handling failed", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	metrics.BridgeMessages.WithLabelValues(string(msg.Kind), "handled").Inc()
	return nil
}

func (d *Dispatcher) handleAdUnlock(ctx context.Context, msg models.BridgeMessage) error {
	granted, err := d.engines.Engine(ctx, msg.UserID).HandleAdUnlockSuccess(ctx)
	if err != nil {
		return err
	}
	if granted {
		d.log.Info("ad unlock confirmed", slog.String("user_id", msg.UserID))
	}
	return nil
}

func (d *Dispatcher) handleRestore(ctx context.Context, msg models.BridgeMessage) error {
	_, err := d.refreshPlan(ctx, msg.UserID)
	return err
}

// refreshPlan перечитывает тариф в мобильной сессии, затем во всех остальных сессиях пользователя.
func (d *Dispatcher) refreshPlan(ctx context.Context, userID string) (Engine, error) {
	engine := d.engines.Engine(ctx, userID)
	if err := engine.HandlePurchaseSuccess(ctx); err != nil {
		return nil, err
	}
	if n := d.engines.RefreshOthers(ctx, userID); n > 0 {
		d.log.Info("plan refreshed in other sessions", slog.String("user_id", userID), slog.Int("sessions", n))
	}
	return engine, nil
}

func (d *Dispatcher) handlePurchase(ctx context.Context, msg models.BridgeMessage) error {
	engine, err := d.refreshPlan(ctx, msg.UserID)
	if err != nil {
		return err
	}

	var payload models.PurchasePayload
	if len(msg.Payload) > 0 {
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			d.log.Warn("purchase payload not understood, skipping confirmation email",
				slog.String("user_id", msg.UserID), sl.Err(err))
			return nil
		}
	}
	if payload.Plan == "" {
		payload.Plan = engine.ResolvePlan()
	}
	d.sendConfirmationOnce(msg.UserID, payload)
	return nil
}

// sendConfirmationOnce ставит письмо о покупке не больше одного раза на пользователя.
func (d *Dispatcher) sendConfirmationOnce(userID string, payload models.PurchasePayload) {
	const op = "bridge.sendConfirmationOnce"

	if d.notifier == nil || payload.Email == "" {
		return
	}
	if _, already := d.emailed.LoadOrStore(userID, struct{}{}); already {
		d.log.Info("purchase confirmation already sent, skipping", slog.String("op", op), slog.String("user_id", userID))
		return
	}

	notification := models.PurchaseNotification{
		ID:        uuid.New().String(),
		UserID:    userID,
		Email:     payload.Email,
		Plan:      payload.Plan,
		ProductID: payload.ProductID,
		CreatedAt: d.now().UTC(),
	}
	if err := d.notifier.Publish(notification); err != nil {
		d.emailed.Delete(userID)
		d.log.Error("failed to queue purchase confirmation", slog.String("op", op),
			slog.String("user_id", userID), sl.Err(err))
	}
}
