package models

import "time"

// Outcome исход матча в нотации 1/X/2.
type Outcome string

const (
	OutcomeHome Outcome = "1"
	OutcomeDraw Outcome = "X"
	OutcomeAway Outcome = "2"
)

// RiskLevel оценка риска прогноза.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Prediction статистический прогноз на матч. Создаётся стороной
// публикации контента и для этого сервиса только читается.
type Prediction struct {
	MatchID        string      `json:"match_id" validate:"required"`
	HomeTeam       string      `json:"home_team,omitempty"`
	AwayTeam       string      `json:"away_team,omitempty"`
	KickoffAt      *time.Time  `json:"kickoff_at,omitempty"`
	Prediction     Outcome     `json:"prediction" validate:"required,oneof=1 X 2"`
	HomeWin        float64     `json:"home_win"`
	Draw           float64     `json:"draw"`
	AwayWin        float64     `json:"away_win"`
	PredictedScore string      `json:"predicted_score"`
	Confidence     float64     `json:"confidence" validate:"gte=0,lte=100"`
	RiskLevel      RiskLevel   `json:"risk_level" validate:"omitempty,oneof=low medium high"`
	IsPremium      bool        `json:"is_premium"`
	Tier           ContentTier `json:"tier,omitempty"`
}

// Ticket купон, объединяющий несколько прогнозов.
type Ticket struct {
	ID       string      `json:"id"`
	Title    string      `json:"title"`
	Tier     ContentTier `json:"tier"`
	MatchIDs []string    `json:"match_ids"`
}

// GoalsMarkets рынки тоталов. Флаги независимы друг от друга.
type GoalsMarkets struct {
	Over15  bool `json:"over15"`
	Over25  bool `json:"over25"`
	Under35 bool `json:"under35"`
}

// BTTSMarket «обе забьют». Ровно один из флагов истинен.
type BTTSMarket struct {
	GG bool `json:"gg"`
	NG bool `json:"ng"`
}

// DoubleChance двойной шанс, выводимый из основного исхода.
type DoubleChance struct {
	Option      string `json:"option"`
	Recommended bool   `json:"recommended"`
}

// Combo комбинация исхода и тотала.
type Combo struct {
	Label       string `json:"label"`
	Recommended bool   `json:"recommended"`
}

// Badge категория рекомендации.
type Badge string

const (
	BadgeRecommended Badge = "recommended"
	BadgeBestValue   Badge = "best-value"
	BadgeMediumRisk  Badge = "medium-risk"
	BadgeHighRisk    Badge = "high-risk"
)

// Guidance итоговая подсказка по прогнозу.
type Guidance struct {
	Badge Badge  `json:"badge"`
	Text  string `json:"text"`
}

// DerivedMarkets набор вторичных рынков, детерминированно выводимый из Prediction.
type DerivedMarkets struct {
	MatchID      string       `json:"match_id"`
	Goals        GoalsMarkets `json:"goals"`
	BTTS         BTTSMarket   `json:"btts"`
	DoubleChance DoubleChance `json:"double_chance"`
	Combos       []Combo      `json:"combos"`
	Guidance     Guidance     `json:"guidance"`
}
