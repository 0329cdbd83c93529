// Package markets разворачивает один статистический прогноз в семейство
// связанных вторичных рынков: тоталы, «обе забьют», двойной шанс, комбинации
// и итоговую рекомендацию.
//
// Derive чистая функция: без состояния, часов и ввода-вывода. Одинаковый
// вход всегда даёт побайтно одинаковый результат.
package markets

import (
	"strconv"
	"strings"

	"github.com/magabrotheeeer/content-gate/internal/models"
)

// MaxCombos предельное число комбинаций в результате.
const MaxCombos = 2

// maxGoals наибольшее число голов одной команды в разбираемом счёте.
const maxGoals = 99

// Пороги рекомендации.
const (
	recommendedConfidence = 75
	bestValueConfidence   = 65
	highRiskConfidence    = 45
)

// Derive вычисляет вторичные рынки для прогноза.
func Derive(p models.Prediction) models.DerivedMarkets {
	home, away, parsed := ParseScore(p.PredictedScore)
	total := home + away

	goals := models.GoalsMarkets{
		Over15:  total >= 2,
		Over25:  total >= 3,
		Under35: total <= 3,
	}

	// Счёт по умолчанию 0-0 годится для тоталов, но не для «обе забьют».
	gg := parsed && home > 0 && away > 0
	btts := models.BTTSMarket{GG: gg, NG: !gg}

	outcome := normalizeOutcome(p.Prediction)

	return models.DerivedMarkets{
		MatchID:      p.MatchID,
		Goals:        goals,
		BTTS:         btts,
		DoubleChance: doubleChance(outcome),
		Combos:       combos(outcome, goals),
		Guidance:     Guide(p.Confidence, p.RiskLevel),
	}
}

// ParseScore разбирает прогнозируемый счёт вида "2-1" (допускаются "2:1" и пробелы).
// Счёт вне диапазона 0..99 у любой из сторон считается неразобранным.
// При неудаче возвращает 0, 0, false.
func ParseScore(score string) (home, away int, ok bool) {
	s := strings.TrimSpace(score)
	if s == "" {
		return 0, 0, false
	}
	sep := strings.IndexAny(s, "-:")
	if sep <= 0 || sep == len(s)-1 {
		return 0, 0, false
	}
	h, err := strconv.Atoi(strings.TrimSpace(s[:sep]))
	if err != nil || h < 0 || h > maxGoals {
		return 0, 0, false
	}
	a, err := strconv.Atoi(strings.TrimSpace(s[sep+1:]))
	if err != nil || a < 0 || a > maxGoals {
		return 0, 0, false
	}
	return h, a, true
}

func normalizeOutcome(o models.Outcome) models.Outcome {
	switch strings.ToUpper(strings.TrimSpace(string(o))) {
	case "1":
		return models.OutcomeHome
	case "X":
		return models.OutcomeDraw
	case "2":
		return models.OutcomeAway
	default:
		return ""
	}
}

func doubleChance(o models.Outcome) models.DoubleChance {
	switch o {
	case models.OutcomeHome:
		return models.DoubleChance{Option: "1X", Recommended: true}
	case models.OutcomeDraw:
		return models.DoubleChance{Option: "12", Recommended: true}
	case models.OutcomeAway:
		return models.DoubleChance{Option: "X2", Recommended: true}
	default:
		return models.DoubleChance{}
	}
}

// combos строит не более двух комбинаций. Сильная комбинация попадает в список
// только если её линия проходит; слабая добавляется следом как запасная.
func combos(o models.Outcome, g models.GoalsMarkets) []models.Combo {
	out := make([]models.Combo, 0, MaxCombos)
	switch o {
	case models.OutcomeHome, models.OutcomeAway:
		if g.Over25 {
			out = append(out, models.Combo{Label: string(o) + " & Over 2.5", Recommended: true})
		}
		out = append(out, models.Combo{Label: string(o) + " & Over 1.5", Recommended: g.Over15})
	case models.OutcomeDraw:
		if g.Under35 {
			out = append(out, models.Combo{Label: "X & Under 3.5", Recommended: true})
		}
		out = append(out, models.Combo{Label: "X & Over 1.5", Recommended: g.Over15})
	}
	if len(out) > MaxCombos {
		out = out[:MaxCombos]
	}
	return out
}

// Guide классифицирует прогноз по уверенности и риску. Срабатывает первое подходящее правило.
func Guide(confidence float64, risk models.RiskLevel) models.Guidance {
	r := models.RiskLevel(strings.ToLower(strings.TrimSpace(string(risk))))
	switch {
	case confidence >= recommendedConfidence && r == models.RiskLow:
		return models.Guidance{Badge: models.BadgeRecommended, Text: "High confidence, low risk"}
	case confidence >= bestValueConfidence && r != models.RiskHigh:
		return models.Guidance{Badge: models.BadgeBestValue, Text: "Solid confidence at acceptable risk"}
	case r == models.RiskHigh || confidence < highRiskConfidence:
		return models.Guidance{Badge: models.BadgeHighRisk, Text: "Speculative pick, stake carefully"}
	default:
		return models.Guidance{Badge: models.BadgeMediumRisk, Text: "Moderate confidence"}
	}
}
