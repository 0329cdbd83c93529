package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/content-gate/internal/models"
)

const predictionColumns = `p.match_id, p.home_team, p.away_team, p.kickoff_at, p.prediction,
	p.home_win, p.draw, p.away_win, p.predicted_score, p.confidence, p.risk_level, p.is_premium, p.tier`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPrediction(row rowScanner) (*models.Prediction, error) {
	var (
		p         models.Prediction
		kickoffAt sql.NullTime
		outcome   string
		risk      string
		tier      string
	)
	if err := row.Scan(&p.MatchID, &p.HomeTeam, &p.AwayTeam, &kickoffAt, &outcome,
		&p.HomeWin, &p.Draw, &p.AwayWin, &p.PredictedScore, &p.Confidence, &risk, &p.IsPremium, &tier); err != nil {
		return nil, err
	}
	if kickoffAt.Valid {
		t := kickoffAt.Time.UTC()
		p.KickoffAt = &t
	}
	p.Prediction = models.Outcome(outcome)
	p.RiskLevel = models.RiskLevel(risk)
	p.Tier = models.ContentTier(tier)
	return &p, nil
}

// GetPrediction возвращает прогноз по идентификатору матча.
func (s *Storage) GetPrediction(ctx context.Context, matchID string) (*models.Prediction, error) {
	const op = "storage.GetPrediction"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + predictionColumns + ` FROM predictions p WHERE p.match_id = $1`
	p, err := scanPrediction(s.DB.QueryRowContext(ctx, query, matchID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// GetTicket возвращает купон вместе со списком матчей в порядке позиций.
func (s *Storage) GetTicket(ctx context.Context, ticketID string) (*models.Ticket, error) {
	const op = "storage.GetTicket"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var (
		t    models.Ticket
		tier string
	)
	err := s.DB.QueryRowContext(ctx, `SELECT id, title, tier FROM tickets WHERE id = $1`, ticketID).
		Scan(&t.ID, &t.Title, &tier)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	t.Tier = models.ContentTier(tier)

	rows, err := s.DB.QueryContext(ctx,
		`SELECT match_id FROM ticket_matches WHERE ticket_id = $1 ORDER BY position, match_id`, ticketID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	t.MatchIDs = []string{}
	for rows.Next() {
		var matchID string
		if err := rows.Scan(&matchID); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		t.MatchIDs = append(t.MatchIDs, matchID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &t, nil
}

// ListTicketPredictions возвращает прогнозы, входящие в купон.
func (s *Storage) ListTicketPredictions(ctx context.Context, ticketID string) ([]*models.Prediction, error) {
	const op = "storage.ListTicketPredictions"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + predictionColumns + `
			  FROM ticket_matches tm
			  JOIN predictions p ON p.match_id = tm.match_id
			  WHERE tm.ticket_id = $1
			  ORDER BY tm.position, tm.match_id`
	rows, err := s.DB.QueryContext(ctx, query, ticketID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var result []*models.Prediction
	for rows.Next() {
		p, err := scanPrediction(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
