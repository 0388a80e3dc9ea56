package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/kament/internal/model"
)

// PostgresPostRepo はPostgreSQLを使用した記事ページリポジトリ。
type PostgresPostRepo struct {
	db *sql.DB
}

// NewPostgresPostRepo はPostgresPostRepoを生成する。
func NewPostgresPostRepo(db *sql.DB) *PostgresPostRepo {
	return &PostgresPostRepo{db: db}
}

// FindBySlug はslugで記事ページを検索する。見つからない場合はnilを返す。
func (r *PostgresPostRepo) FindBySlug(ctx context.Context, slug string) (*model.Post, error) {
	post := &model.Post{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, slug, created_at FROM posts WHERE slug = $1`,
		slug,
	).Scan(&post.ID, &post.Slug, &post.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find post by slug: %w", err)
	}

	return post, nil
}

// Create は記事ページを作成する。
// slugの一意制約違反はそのまま返し、呼び出し側がIsUniqueViolationで判定する。
func (r *PostgresPostRepo) Create(ctx context.Context, post *model.Post) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO posts (id, slug, created_at) VALUES ($1, $2, $3)`,
		post.ID, post.Slug, post.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert post: %w", err)
	}

	return nil
}

// compile-time interface check
var _ PostRepository = (*PostgresPostRepo)(nil)
