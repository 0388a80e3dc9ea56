// Package auth はGitHub OAuthによるID交換とセッショントークンの発行・検証を提供する。
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/kament/internal/metrics"
	"github.com/hitoshi/kament/internal/model"
	"github.com/hitoshi/kament/internal/repository"
)

// IdentityProvider はIDプロバイダーのインターフェース。
// 将来的に複数プロバイダー（GitHub, GitLab等）に対応するための抽象化。
type IdentityProvider interface {
	// ExchangeCode はワンタイム認可コードをアクセストークンに交換する。
	ExchangeCode(ctx context.Context, code string) (*AccessToken, error)
	// FetchProfile はアクセストークンでプロフィール情報を取得する。
	FetchProfile(ctx context.Context, accessToken string) (*Profile, error)
}

// TokenResult はID交換の結果。発行したトークンとプロフィール情報を含む。
type TokenResult struct {
	Token    string
	Username string
	Name     string
	Avatar   string

	// Created はこの交換でユーザーレコードが新規作成されたことを示す。
	Created bool
}

// Service はID交換に関するビジネスロジックを提供する。
type Service struct {
	provider IdentityProvider
	users    repository.UserRepository
	issuer   *TokenIssuer
	metrics  metrics.MetricsCollector
}

// NewService はServiceを生成する。
func NewService(
	provider IdentityProvider,
	users repository.UserRepository,
	issuer *TokenIssuer,
	collector metrics.MetricsCollector,
) *Service {
	return &Service{
		provider: provider,
		users:    users,
		issuer:   issuer,
		metrics:  collector,
	}
}

// ExchangeToken は認可コードをセッショントークンに交換する。
// 未登録ユーザーの場合はusersレコードをusernameをキーに自動作成する。
// 必須のemailスコープが付与されていない場合はクライアントエラーを返す。
func (s *Service) ExchangeToken(ctx context.Context, code string) (*TokenResult, error) {
	// 1. 認可コードをアクセストークンに交換
	accessToken, err := s.provider.ExchangeCode(ctx, code)
	if err != nil {
		return nil, err
	}

	// 2. スコープの確認。スコープ不足はユーザーの同意内容の問題であり
	//    クライアントエラーとして扱う
	if !strings.Contains(accessToken.Scope, "email") {
		return nil, model.NewScopeMissingError()
	}

	// 3. プロフィール取得
	profile, err := s.provider.FetchProfile(ctx, accessToken.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}

	// 4. usernameをキーにユーザーを検索し、未登録なら作成
	user, err := s.users.FindByUsername(ctx, profile.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	created := false
	if user == nil {
		user = &model.User{
			ID:        uuid.New().String(),
			Username:  profile.Username,
			Name:      profile.Name,
			Email:     profile.Email,
			Avatar:    profile.Avatar,
			CreatedAt: time.Now(),
		}
		if err := s.users.Create(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
		created = true
		slog.Info("new user created",
			slog.String("user_id", user.ID),
			slog.String("username", user.Username),
		)
	} else {
		slog.Info("existing user logged in",
			slog.String("user_id", user.ID),
			slog.String("username", user.Username),
		)
	}

	// 5. セッショントークンを発行
	token, err := s.issuer.Issue(user.ID, user.Username)
	if err != nil {
		return nil, err
	}

	s.metrics.RecordTokenIssued()

	return &TokenResult{
		Token:    token,
		Username: user.Username,
		Name:     user.Name,
		Avatar:   user.Avatar,
		Created:  created,
	}, nil
}
