package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/hitoshi/kament/internal/model"
)

const (
	defaultGitHubTokenURL = "https://github.com/login/oauth/access_token"
	defaultGitHubUserURL  = "https://api.github.com/user"

	userAgent = "kament"
)

// GitHubOAuthConfig はGitHub OAuthプロバイダーの設定。
type GitHubOAuthConfig struct {
	ClientID     string
	ClientSecret string

	// テスト用にオーバーライド可能なURL
	TokenURL string
	UserURL  string
}

// GitHubOAuthProvider はGitHub OAuthによる認証を提供する。
type GitHubOAuthProvider struct {
	config GitHubOAuthConfig
}

// NewGitHubOAuthProvider はGitHubOAuthProviderを生成する。
func NewGitHubOAuthProvider(config GitHubOAuthConfig) *GitHubOAuthProvider {
	if config.TokenURL == "" {
		config.TokenURL = defaultGitHubTokenURL
	}
	if config.UserURL == "" {
		config.UserURL = defaultGitHubUserURL
	}
	return &GitHubOAuthProvider{config: config}
}

// AccessToken はGitHubのトークンエンドポイントから取得したアクセストークン。
type AccessToken struct {
	Token string
	Scope string
}

// Profile はGitHubのユーザー情報エンドポイントから取得したプロフィール。
type Profile struct {
	Username string
	Name     string
	Email    string
	Avatar   string
}

// githubTokenResponse はGitHubのトークンエンドポイントのレスポンス。
// 認可コードが不正な場合、GitHubは200でerror/error_descriptionを返す。
type githubTokenResponse struct {
	AccessToken      string `json:"access_token"`
	Scope            string `json:"scope"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// githubUserResponse はGitHubのユーザー情報エンドポイントのレスポンス。
type githubUserResponse struct {
	Login     string `json:"login"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
}

// ExchangeCode はワンタイム認可コードをアクセストークンに交換する。
// クライアント資格情報が未設定の場合は設定エラー、GitHubがコードを拒否した
// 場合はプロバイダーのerror_descriptionを含むクライアントエラーを返す。
func (p *GitHubOAuthProvider) ExchangeCode(ctx context.Context, code string) (*AccessToken, error) {
	if p.config.ClientID == "" {
		return nil, model.NewConfigError("GITHUB_CLIENT_ID")
	}
	if p.config.ClientSecret == "" {
		return nil, model.NewConfigError("GITHUB_CLIENT_SECRET")
	}

	payload, err := json.Marshal(map[string]string{
		"client_id":     p.config.ClientID,
		"client_secret": p.config.ClientSecret,
		"code":          code,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode token request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.config.TokenURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read token response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("token exchange failed with status %d: %s", resp.StatusCode, string(body))
	}

	var tokenResp githubTokenResponse
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return nil, fmt.Errorf("failed to parse token response: %w", err)
	}

	if tokenResp.Error != "" {
		description := tokenResp.ErrorDescription
		if description == "" {
			description = tokenResp.Error
		}
		return nil, model.NewProviderError(description)
	}

	if tokenResp.AccessToken == "" {
		return nil, fmt.Errorf("empty access token in response")
	}

	return &AccessToken{
		Token: tokenResp.AccessToken,
		Scope: tokenResp.Scope,
	}, nil
}

// FetchProfile はアクセストークンでGitHubのプロフィール情報を取得する。
func (p *GitHubOAuthProvider) FetchProfile(ctx context.Context, accessToken string) (*Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.config.UserURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create profile request: %w", err)
	}
	req.Header.Set("Authorization", "token "+accessToken)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("profile request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("profile fetch failed with status %d: %s", resp.StatusCode, string(body))
	}

	var userResp githubUserResponse
	if err := json.Unmarshal(body, &userResp); err != nil {
		return nil, fmt.Errorf("failed to parse profile response: %w", err)
	}

	if userResp.Login == "" {
		return nil, fmt.Errorf("empty login in profile response")
	}

	return &Profile{
		Username: userResp.Login,
		Name:     userResp.Name,
		Email:    userResp.Email,
		Avatar:   userResp.AvatarURL,
	}, nil
}

// compile-time interface check
var _ IdentityProvider = (*GitHubOAuthProvider)(nil)
