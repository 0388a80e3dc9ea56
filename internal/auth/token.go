package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/hitoshi/kament/internal/model"
)

// TokenClaims はセッショントークンのクレーム（ペイロード）を表す。
// クライアントにはBearer資格情報として不透明に扱われる。
type TokenClaims struct {
	jwt.RegisteredClaims
	// UserID は認証済みユーザーのストア側識別子。
	UserID string `json:"userId"`
	// Username はGitHubのログイン名。
	Username string `json:"username"`
}

// TokenIssuer はHMAC署名付きセッショントークンの発行と検証を行う。
// トークンはステートレスで自己検証可能であり、永続化しない。
type TokenIssuer struct {
	secret string
	ttl    time.Duration
}

// NewTokenIssuer はTokenIssuerを生成する。
// secretが空の場合でも生成は成功し、Issue/Verify時に設定エラーを返す。
func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{
		secret: secret,
		ttl:    ttl,
	}
}

// Issue はユーザーIDとユーザー名を埋め込んだHS512署名トークンを発行する。
// 有効期限は発行時に固定される。
func (i *TokenIssuer) Issue(userID, username string) (string, error) {
	if i.secret == "" {
		return "", model.NewConfigError("JWT_SIGNING_SECRET")
	}

	now := time.Now()
	claims := TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID:   userID,
		Username: username,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	signed, err := token.SignedString([]byte(i.secret))
	if err != nil {
		return "", err
	}
	return signed, nil
}

// Verify はトークンの署名と有効期限を検証し、クレームを返す。
// 署名不一致・期限切れはクライアントエラー、署名シークレット未設定は
// 設定エラー（サーバーエラー）として区別する。
func (i *TokenIssuer) Verify(tokenString string) (*TokenClaims, error) {
	if i.secret == "" {
		return nil, model.NewConfigError("JWT_SIGNING_SECRET")
	}

	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(i.secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}))

	if err != nil || !token.Valid {
		return nil, model.NewInvalidTokenError()
	}

	return claims, nil
}
