package models

// AccessDecision вычисляемый результат проверки доступа к элементу.
// Никогда не хранится: считается заново при каждом запросе.
type AccessDecision string

const (
	DecisionUnlocked              AccessDecision = "unlocked"
	DecisionLoginRequired         AccessDecision = "login_required"
	DecisionWatchAd               AccessDecision = "watch_ad"
	DecisionUpgradeBasic          AccessDecision = "upgrade_basic"
	DecisionUpgradePremium        AccessDecision = "upgrade_premium"
	DecisionWatchAdOrUpgradeBasic AccessDecision = "watch_ad_or_upgrade_basic"
	DecisionUpgradePremiumOnly    AccessDecision = "upgrade_premium_only"
)

// ActionKind что должен сделать клиент, чтобы открыть элемент.
type ActionKind string

const (
	ActionNone     ActionKind = "none"
	ActionSignIn   ActionKind = "sign_in"
	ActionShowAd   ActionKind = "show_ad"
	ActionCheckout ActionKind = "checkout"
)

// UnlockAction подсказка оркестратору разблокировки: основное действие
// и, для двойного варианта, альтернативное.
type UnlockAction struct {
	Kind        ActionKind    `json:"kind"`
	Plan        Plan          `json:"plan,omitempty"`
	Alternative *UnlockAction `json:"alternative,omitempty"`
}

// Action переводит решение в действие оркестратора.
func (d AccessDecision) Action() UnlockAction {
	switch d {
	case DecisionLoginRequired:
		return UnlockAction{Kind: ActionSignIn}
	case DecisionWatchAd:
		return UnlockAction{Kind: ActionShowAd}
	case DecisionWatchAdOrUpgradeBasic:
		return UnlockAction{
			Kind:        ActionShowAd,
			Alternative: &UnlockAction{Kind: ActionCheckout, Plan: PlanBasic},
		}
	case DecisionUpgradeBasic:
		return UnlockAction{Kind: ActionCheckout, Plan: PlanBasic}
	case DecisionUpgradePremium, DecisionUpgradePremiumOnly:
		return UnlockAction{Kind: ActionCheckout, Plan: PlanPremium}
	default:
		return UnlockAction{Kind: ActionNone}
	}
}

// AccessResult решение о доступе вместе с действием для клиента.
type AccessResult struct {
	Tier     ContentTier    `json:"tier"`
	Unlocked bool           `json:"unlocked"`
	Decision AccessDecision `json:"decision"`
	Action   UnlockAction   `json:"action"`
}
