package repository

import (
	"context"
	"database/sql"
	"errors"

	"event-discovery/internal/domain"
)

var _ UserEventRepository = (*sqliteUserEventRepo)(nil)

type sqliteUserEventRepo struct {
	db *sql.DB
}

func (r *sqliteUserEventRepo) SaveRelation(ctx context.Context, relation *domain.UserRelation) error {
	relation.ID = docKey(relation.UserEmail, relation.Target)
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO user_relations (id, kind, user_email, target, created_at) VALUES (?, ?, ?, ?, ?)`,
		relation.Kind+"/"+relation.ID, relation.Kind, relation.UserEmail, relation.Target,
		toMillis(relation.CreatedAt),
	)
	return mapSQLiteErr(err)
}

func (r *sqliteUserEventRepo) DeleteRelation(ctx context.Context, kind, email, target string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM user_relations WHERE kind = ? AND user_email = ? AND target = ?`,
		kind, email, target)
	return requireAffected(res, err)
}

func (r *sqliteUserEventRepo) HasRelation(ctx context.Context, kind, email, target string) (bool, error) {
	var found int
	err := r.db.QueryRowContext(ctx,
		`SELECT 1 FROM user_relations WHERE kind = ? AND user_email = ? AND target = ?`,
		kind, email, target).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *sqliteUserEventRepo) ListRelations(ctx context.Context, kind, email string) ([]domain.UserRelation, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT kind, user_email, target, created_at FROM user_relations
WHERE kind = ? AND user_email = ? ORDER BY created_at DESC, target`, kind, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var relations []domain.UserRelation
	for rows.Next() {
		var (
			rel       domain.UserRelation
			createdAt int64
		)
		if err := rows.Scan(&rel.Kind, &rel.UserEmail, &rel.Target, &createdAt); err != nil {
			return nil, err
		}
		rel.ID = docKey(rel.UserEmail, rel.Target)
		rel.CreatedAt = fromMillis(createdAt)
		relations = append(relations, rel)
	}
	return relations, rows.Err()
}
