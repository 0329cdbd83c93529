package markets

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/content-gate/internal/models"
)

func TestDerive_HomeWinLowRisk(t *testing.T) {
	p := models.Prediction{
		MatchID:        "m1",
		Prediction:     models.OutcomeHome,
		PredictedScore: "2-0",
		Confidence:     80,
		RiskLevel:      models.RiskLow,
	}

	got := Derive(p)

	assert.Equal(t, models.BadgeRecommended, got.Guidance.Badge)
	assert.False(t, got.BTTS.GG)
	assert.True(t, got.BTTS.NG)
	assert.Equal(t, "1X", got.DoubleChance.Option)
	assert.True(t, got.DoubleChance.Recommended)
	assert.Equal(t, models.GoalsMarkets{Over15: true, Over25: false, Under35: true}, got.Goals)
	assert.Equal(t, []models.Combo{{Label: "1 & Over 1.5", Recommended: true}}, got.Combos)
}

func TestDerive_Goals(t *testing.T) {
	tests := []struct {
		name  string
		score string
		want  models.GoalsMarkets
		btts  models.BTTSMarket
	}{
		{name: "0-0", score: "0-0", want: models.GoalsMarkets{Under35: true}, btts: models.BTTSMarket{NG: true}},
		{name: "1-1", score: "1-1", want: models.GoalsMarkets{Over15: true, Under35: true}, btts: models.BTTSMarket{GG: true}},
		{name: "2-1", score: "2-1", want: models.GoalsMarkets{Over15: true, Over25: true, Under35: true}, btts: models.BTTSMarket{GG: true}},
		{name: "3-1", score: "3-1", want: models.GoalsMarkets{Over15: true, Over25: true}, btts: models.BTTSMarket{GG: true}},
		{name: "colon separator", score: "2:2", want: models.GoalsMarkets{Over15: true, Over25: true}, btts: models.BTTSMarket{GG: true}},
		{name: "spaces", score: " 1 - 0 ", want: models.GoalsMarkets{Under35: true}, btts: models.BTTSMarket{NG: true}},
		{name: "empty defaults to 0-0", score: "", want: models.GoalsMarkets{Under35: true}, btts: models.BTTSMarket{NG: true}},
		{name: "garbage defaults to 0-0", score: "two-one", want: models.GoalsMarkets{Under35: true}, btts: models.BTTSMarket{NG: true}},
		{name: "negative is unparsed", score: "-1-2", want: models.GoalsMarkets{Under35: true}, btts: models.BTTSMarket{NG: true}},
		{name: "99-99 is the upper bound", score: "99-99", want: models.GoalsMarkets{Over15: true, Over25: true}, btts: models.BTTSMarket{GG: true}},
		{name: "over 99 is unparsed", score: "100-1", want: models.GoalsMarkets{Under35: true}, btts: models.BTTSMarket{NG: true}},
		{name: "max int home is unparsed", score: "9223372036854775807-1", want: models.GoalsMarkets{Under35: true}, btts: models.BTTSMarket{NG: true}},
		{name: "max int both sides is unparsed", score: "9223372036854775807-9223372036854775807", want: models.GoalsMarkets{Under35: true}, btts: models.BTTSMarket{NG: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Derive(models.Prediction{Prediction: models.OutcomeHome, PredictedScore: tt.score})
			assert.Equal(t, tt.want, got.Goals)
			assert.Equal(t, tt.btts, got.BTTS)
		})
	}
}

func TestParseScore(t *testing.T) {
	tests := []struct {
		score      string
		home, away int
		ok         bool
	}{
		{"2-1", 2, 1, true},
		{" 0 : 0 ", 0, 0, true},
		{"99-0", 99, 0, true},
		{"100-0", 0, 0, false},
		{"0-100", 0, 0, false},
		{"9223372036854775807-1", 0, 0, false},
		{"1-9223372036854775807", 0, 0, false},
		{"99999999999999999999-1", 0, 0, false},
		{"2-", 0, 0, false},
		{"-2", 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.score, func(t *testing.T) {
			home, away, ok := ParseScore(tt.score)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.home, home)
			assert.Equal(t, tt.away, away)
		})
	}
}

func TestDerive_DoubleChance(t *testing.T) {
	tests := []struct {
		outcome models.Outcome
		want    string
	}{
		{models.OutcomeHome, "1X"},
		{models.OutcomeDraw, "12"},
		{"x", "12"},
		{models.OutcomeAway, "X2"},
	}
	for _, tt := range tests {
		t.Run(string(tt.outcome), func(t *testing.T) {
			got := Derive(models.Prediction{Prediction: tt.outcome})
			assert.Equal(t, tt.want, got.DoubleChance.Option)
			assert.True(t, got.DoubleChance.Recommended)
		})
	}

	unknown := Derive(models.Prediction{Prediction: "home"})
	assert.Equal(t, models.DoubleChance{}, unknown.DoubleChance)
	assert.Empty(t, unknown.Combos)
}

func TestDerive_Combos(t *testing.T) {
	tests := []struct {
		name    string
		outcome models.Outcome
		score   string
		want    []models.Combo
	}{
		{
			name:    "away with over 2.5 fills both slots",
			outcome: models.OutcomeAway,
			score:   "1-2",
			want: []models.Combo{
				{Label: "2 & Over 2.5", Recommended: true},
				{Label: "2 & Over 1.5", Recommended: true},
			},
		},
		{
			name:    "home without goals keeps only the weak combo unrecommended",
			outcome: models.OutcomeHome,
			score:   "1-0",
			want:    []models.Combo{{Label: "1 & Over 1.5", Recommended: false}},
		},
		{
			name:    "draw 1-1",
			outcome: models.OutcomeDraw,
			score:   "1-1",
			want: []models.Combo{
				{Label: "X & Under 3.5", Recommended: true},
				{Label: "X & Over 1.5", Recommended: true},
			},
		},
		{
			name:    "draw 2-2 loses the under line",
			outcome: models.OutcomeDraw,
			score:   "2-2",
			want:    []models.Combo{{Label: "X & Over 1.5", Recommended: true}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Derive(models.Prediction{Prediction: tt.outcome, PredictedScore: tt.score})
			assert.Equal(t, tt.want, got.Combos)
		})
	}
}

func TestGuide_FirstMatchWins(t *testing.T) {
	tests := []struct {
		name       string
		confidence float64
		risk       models.RiskLevel
		want       models.Badge
	}{
		{"recommended", 75, models.RiskLow, models.BadgeRecommended},
		{"high confidence medium risk is best value", 90, models.RiskMedium, models.BadgeBestValue},
		{"best value at threshold", 65, models.RiskLow, models.BadgeBestValue},
		{"high risk beats confidence", 95, models.RiskHigh, models.BadgeHighRisk},
		{"low confidence", 44, models.RiskLow, models.BadgeHighRisk},
		{"medium", 50, models.RiskMedium, models.BadgeMediumRisk},
		{"missing risk level", 70, "", models.BadgeBestValue},
		{"upper-case risk", 80, "LOW", models.BadgeRecommended},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Guide(tt.confidence, tt.risk).Badge)
		})
	}
}

func TestDerive_Invariants(t *testing.T) {
	outcomes := []models.Outcome{models.OutcomeHome, models.OutcomeDraw, models.OutcomeAway, "", "?"}
	scores := []string{"", "0-0", "1-0", "0-1", "1-1", "2-1", "3-3", "5-0", "x", "10-10", "9223372036854775807-1"}
	risks := []models.RiskLevel{models.RiskLow, models.RiskMedium, models.RiskHigh, ""}

	for _, o := range outcomes {
		for _, s := range scores {
			for _, r := range risks {
				p := models.Prediction{MatchID: "m", Prediction: o, PredictedScore: s, Confidence: 70, RiskLevel: r}
				first := Derive(p)
				second := Derive(p)

				assert.LessOrEqual(t, len(first.Combos), MaxCombos)
				assert.NotEqual(t, first.BTTS.GG, first.BTTS.NG, "exactly one of gg/ng must hold")

				a, err := json.Marshal(first)
				require.NoError(t, err)
				b, err := json.Marshal(second)
				require.NoError(t, err)
				assert.Equal(t, a, b)
			}
		}
	}
}
