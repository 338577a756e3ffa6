package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"review-dashboard/internal/domain"
)

const (
	selectLatestSnapshot = `
SELECT id, total_reviews, monthly_reviews, previous_month_reviews, unique_authors,
       avg_review_time, reviews_by_month, approved, needs_changes, needs_review
FROM metric_snapshots
ORDER BY published_at DESC, id DESC
LIMIT 1`

	selectSnapshotReviews = `
SELECT pr, title, author, reviewer, to_char(review_date, 'YYYY-MM-DD'), outcome
FROM snapshot_reviews
WHERE snapshot_id = $1
ORDER BY position`

	insertSnapshot = `
INSERT INTO metric_snapshots (
    total_reviews, monthly_reviews, previous_month_reviews, unique_authors,
    avg_review_time, reviews_by_month, approved, needs_changes, needs_review
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING id`

	insertSnapshotReview = `
INSERT INTO snapshot_reviews (snapshot_id, position, pr, title, author, reviewer, review_date, outcome)
VALUES ($1, $2, $3, $4, $5, $6, $7::date, $8)`
)

// SnapshotRepository реализует domain.SnapshotRepository поверх Postgres.
type SnapshotRepository struct {
	db *sql.DB
}

// NewSnapshotRepository создает новый экземпляр SnapshotRepository.
func NewSnapshotRepository(db *sql.DB) domain.SnapshotRepository {
	return &SnapshotRepository{
		db: db,
	}
}

// FetchSnapshot возвращает последний опубликованный снапшот с лентой ревью в исходном порядке.
func (r *SnapshotRepository) FetchSnapshot(ctx context.Context) (*domain.MetricsSnapshot, error) {
	var (
		id      int64
		s       domain.MetricsSnapshot
		byMonth []byte
	)
	err := r.db.QueryRowContext(ctx, selectLatestSnapshot).Scan(
		&id, &s.TotalReviews, &s.MonthlyReviews, &s.PreviousMonthReviews, &s.UniqueAuthors,
		&s.AvgReviewTime, &byMonth, &s.Outcomes.Approved, &s.Outcomes.NeedsChanges, &s.Outcomes.NeedsReview,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewProviderError(domain.ErrSnapshotNotFound.Error(), domain.ErrSnapshotNotFound)
	}
	if err != nil {
		return nil, domain.NewProviderError(fmt.Sprintf("failed to load snapshot: %v", err), err)
	}

	if err := json.Unmarshal(byMonth, &s.ReviewsByMonth); err != nil {
		return nil, domain.NewProviderError(fmt.Sprintf("failed to decode monthly series: %v", err), err)
	}

	rows, err := r.db.QueryContext(ctx, selectSnapshotReviews, id)
	if err != nil {
		return nil, domain.NewProviderError(fmt.Sprintf("failed to load recent reviews: %v", err), err)
	}
	defer rows.Close()

	s.RecentReviews = []domain.ReviewRecord{}
	for rows.Next() {
		var rec domain.ReviewRecord
		if err := rows.Scan(&rec.ID, &rec.Title, &rec.Author, &rec.ReviewerIdentity, &rec.Date, &rec.Outcome); err != nil {
			return nil, domain.NewProviderError(fmt.Sprintf("failed to scan recent review: %v", err), err)
		}
		s.RecentReviews = append(s.RecentReviews, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewProviderError(fmt.Sprintf("failed to read recent reviews: %v", err), err)
	}

	return &s, nil
}

// Publish сохраняет снапшот в одной транзакции и возвращает его идентификатор.
func (r *SnapshotRepository) Publish(ctx context.Context, s *domain.MetricsSnapshot) (int64, error) {
	if s == nil {
		return 0, domain.ErrEmptySnapshot
	}

	byMonth, err := json.Marshal(s.ReviewsByMonth)
	if err != nil {
		return 0, fmt.Errorf("failed to encode monthly series: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var id int64
	err = tx.QueryRowContext(ctx, insertSnapshot,
		s.TotalReviews, s.MonthlyReviews, s.PreviousMonthReviews, s.UniqueAuthors,
		s.AvgReviewTime, string(byMonth), s.Outcomes.Approved, s.Outcomes.NeedsChanges, s.Outcomes.NeedsReview,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert snapshot: %w", err)
	}

	for i, rec := range s.RecentReviews {
		_, err := tx.ExecContext(ctx, insertSnapshotReview,
			id, i, rec.ID, rec.Title, rec.Author, rec.ReviewerIdentity, rec.Date, string(rec.Outcome),
		)
		if err != nil {
			return 0, fmt.Errorf("failed to insert review %s: %w", rec.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return id, nil
}
