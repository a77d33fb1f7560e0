package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/dsagrinders/tracker/internal/domain"
)

type DailyStatRepository struct {
	db *sql.DB
}

func NewDailyStatRepository(db *sql.DB) *DailyStatRepository {
	return &DailyStatRepository{db: db}
}

const statColumns = `id, user_id, date, easy, medium, hard, total, ranking,
	avatar, country, streak, last_submission, recent_problems, previous_total, today_points`

func (r *DailyStatRepository) GetByUserAndDate(ctx context.Context, userID int64, date string) (*domain.DailyStat, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+statColumns+` FROM daily_stats WHERE user_id = ? AND date = ?`,
		userID, date)
	return scanStat(row)
}

func (r *DailyStatRepository) GetLatestBefore(ctx context.Context, userID int64, date string) (*domain.DailyStat, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+statColumns+` FROM daily_stats
		 WHERE user_id = ? AND date < ? ORDER BY date DESC LIMIT 1`,
		userID, date)
	return scanStat(row)
}

func (r *DailyStatRepository) GetLatest(ctx context.Context, userID int64) (*domain.DailyStat, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+statColumns+` FROM daily_stats
		 WHERE user_id = ? ORDER BY date DESC LIMIT 1`,
		userID)
	return scanStat(row)
}

func (r *DailyStatRepository) Upsert(ctx context.Context, stat *domain.DailyStat) error {
	recent, err := json.Marshal(stat.RecentProblems)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO daily_stats (
			user_id, date, easy, medium, hard, total, ranking,
			avatar, country, streak, last_submission, recent_problems,
			previous_total, today_points
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, date) DO UPDATE SET
			easy            = excluded.easy,
			medium          = excluded.medium,
			hard            = excluded.hard,
			total           = excluded.total,
			ranking         = excluded.ranking,
			avatar          = excluded.avatar,
			country         = excluded.country,
			streak          = excluded.streak,
			last_submission = excluded.last_submission,
			recent_problems = excluded.recent_problems,
			previous_total  = excluded.previous_total,
			today_points    = excluded.today_points`,
		stat.UserID, stat.Date, stat.Easy, stat.Medium, stat.Hard, stat.Total,
		stat.Ranking, stat.Avatar, stat.Country, stat.Streak,
		stat.LastSubmission, string(recent), stat.PreviousTotal, stat.TodayPoints)
	return err
}

func scanStat(row rowScanner) (*domain.DailyStat, error) {
	var s domain.DailyStat
	var recent []byte
	err := row.Scan(&s.ID, &s.UserID, &s.Date, &s.Easy, &s.Medium, &s.Hard,
		&s.Total, &s.Ranking, &s.Avatar, &s.Country, &s.Streak,
		&s.LastSubmission, &recent, &s.PreviousTotal, &s.TodayPoints)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(recent, &s.RecentProblems); err != nil {
		return nil, err
	}
	return &s, nil
}
