package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/kament/internal/model"
)

// PostgresCommentRepo はPostgreSQLを使用したコメントリポジトリ。
type PostgresCommentRepo struct {
	db *sql.DB
}

// NewPostgresCommentRepo はPostgresCommentRepoを生成する。
func NewPostgresCommentRepo(db *sql.DB) *PostgresCommentRepo {
	return &PostgresCommentRepo{db: db}
}

// Create はコメントを作成する。
func (r *PostgresCommentRepo) Create(ctx context.Context, comment *model.Comment) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO comments (id, post_id, user_id, text, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		comment.ID, comment.PostID, comment.UserID, comment.Text, comment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert comment: %w", err)
	}

	return nil
}

// ListBySlug は指定slugの記事ページに対するコメント一覧を投稿者情報付きで返す。
// seq（挿入時に採番される単調な連番）昇順で返すため、created_atが同時刻でも
// 順序は安定する。記事ページが存在しない場合は空スライスを返す。
func (r *PostgresCommentRepo) ListBySlug(ctx context.Context, slug string) ([]model.Comment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT c.id, c.post_id, c.user_id, c.text, c.created_at,
		        u.username, u.name, u.avatar
		 FROM comments c
		 JOIN posts p ON p.id = c.post_id
		 JOIN users u ON u.id = c.user_id
		 WHERE p.slug = $1
		 ORDER BY c.seq`,
		slug,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments by slug: %w", err)
	}
	defer rows.Close()

	comments := []model.Comment{}
	for rows.Next() {
		var c model.Comment
		if err := rows.Scan(
			&c.ID, &c.PostID, &c.UserID, &c.Text, &c.CreatedAt,
			&c.User.Username, &c.User.Name, &c.User.Avatar,
		); err != nil {
			return nil, fmt.Errorf("failed to scan comment row: %w", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate comment rows: %w", err)
	}

	return comments, nil
}

// compile-time interface check
var _ CommentRepository = (*PostgresCommentRepo)(nil)
