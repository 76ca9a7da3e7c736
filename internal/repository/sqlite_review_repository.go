package repository

import (
	"context"
	"database/sql"

	"event-discovery/internal/domain"
)

var _ ReviewRepository = (*sqliteReviewRepo)(nil)

const reviewColumns = `id, event_id, user_email, user_name, user_avatar, rating, comment, created_at`

type sqliteReviewRepo struct {
	db *sql.DB
}

func (r *sqliteReviewRepo) SaveReview(ctx context.Context, review *domain.Review) error {
	review.ID = docKey(review.EventID, review.UserEmail)
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO reviews (`+reviewColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		review.ID, review.EventID, review.UserEmail, review.UserName, review.UserAvatar,
		review.Rating, review.Comment, toMillis(review.CreatedAt),
	)
	return mapSQLiteErr(err)
}

func (r *sqliteReviewRepo) GetReview(ctx context.Context, eventID, email string) (*domain.Review, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+reviewColumns+` FROM reviews WHERE event_id = ? AND user_email = ?`, eventID, email)
	review, err := scanReview(row)
	if err != nil {
		return nil, mapSQLiteErr(err)
	}
	return review, nil
}

func (r *sqliteReviewRepo) UpdateReview(ctx context.Context, eventID, email string, rating int, comment string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE reviews SET rating = ?, comment = ? WHERE event_id = ? AND user_email = ?`,
		rating, comment, eventID, email)
	return requireAffected(res, err)
}

func (r *sqliteReviewRepo) DeleteReview(ctx context.Context, eventID, email string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM reviews WHERE event_id = ? AND user_email = ?`, eventID, email)
	return requireAffected(res, err)
}

func (r *sqliteReviewRepo) ListReviews(ctx context.Context, eventID string) ([]domain.Review, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+reviewColumns+` FROM reviews WHERE event_id = ? ORDER BY created_at DESC, id`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []domain.Review
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, *review)
	}
	return reviews, rows.Err()
}

func scanReview(row rowScanner) (*domain.Review, error) {
	var (
		review    domain.Review
		createdAt int64
	)
	if err := row.Scan(
		&review.ID, &review.EventID, &review.UserEmail, &review.UserName,
		&review.UserAvatar, &review.Rating, &review.Comment, &createdAt,
	); err != nil {
		return nil, err
	}
	review.CreatedAt = fromMillis(createdAt)
	return &review, nil
}
