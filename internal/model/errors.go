package model

import "fmt"

// APIError は要求処理中に発生したエラーの統一表現。
// クライアントに返すのはMessageのみで、Code/Categoryはステータスコードへの
// マッピングとログ出力に使用する。
type APIError struct {
	Code     string // エラーコード
	Message  string // クライアントに返すメッセージ
	Category string // カテゴリ: validation, auth, config, store
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	ErrCodeMissingHeader    = "MISSING_HEADER"
	ErrCodeMissingParam     = "MISSING_PARAM"
	ErrCodeMissingBodyField = "MISSING_BODY_FIELD"
	ErrCodeInvalidBody      = "INVALID_BODY"
	ErrCodeEmptyComment     = "EMPTY_COMMENT"
	ErrCodeInvalidToken     = "INVALID_TOKEN"
	ErrCodeProviderRejected = "PROVIDER_REJECTED"
	ErrCodeScopeMissing     = "SCOPE_MISSING"
	ErrCodeConfigMissing    = "CONFIG_MISSING"
	ErrCodeStoreFailure     = "STORE_FAILURE"
)

// NewMethodNotAllowedError はスキーマに宣言されていないHTTPメソッドのエラーを生成する。
func NewMethodNotAllowedError(method string) *APIError {
	return &APIError{
		Code:     ErrCodeMethodNotAllowed,
		Message:  fmt.Sprintf("%s requests are not allowed at this route", method),
		Category: "validation",
	}
}

// NewMissingHeaderError は必須ヘッダー欠落のエラーを生成する。
func NewMissingHeaderError(header string) *APIError {
	return &APIError{
		Code:     ErrCodeMissingHeader,
		Message:  fmt.Sprintf("header '%s' is required to process the request", header),
		Category: "validation",
	}
}

// NewMissingParamError は必須クエリパラメータ欠落のエラーを生成する。
func NewMissingParamError(param string) *APIError {
	return &APIError{
		Code:     ErrCodeMissingParam,
		Message:  fmt.Sprintf("query parameter '%s' is required to process the request", param),
		Category: "validation",
	}
}

// NewMissingBodyFieldError は必須ボディフィールド欠落のエラーを生成する。
func NewMissingBodyFieldError(field string) *APIError {
	return &APIError{
		Code:     ErrCodeMissingBodyField,
		Message:  fmt.Sprintf("body field '%s' is required to process the request", field),
		Category: "validation",
	}
}

// NewInvalidBodyError はJSONとして解析できないリクエストボディのエラーを生成する。
func NewInvalidBodyError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidBody,
		Message:  "request body is not valid JSON",
		Category: "validation",
	}
}

// NewEmptyCommentError は空のコメント本文に対するエラーを生成する。
func NewEmptyCommentError() *APIError {
	return &APIError{
		Code:     ErrCodeEmptyComment,
		Message:  "comment text must not be empty",
		Category: "validation",
	}
}

// NewInvalidTokenError は署名不一致・期限切れなど検証に失敗した
// セッショントークンのエラーを生成する。
func NewInvalidTokenError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidToken,
		Message:  "invalid auth token",
		Category: "auth",
	}
}

// NewProviderError はIDプロバイダーが認可コードを拒否した場合のエラーを生成する。
// メッセージにはプロバイダーのerror_descriptionをそのまま使用する。
func NewProviderError(description string) *APIError {
	return &APIError{
		Code:     ErrCodeProviderRejected,
		Message:  description,
		Category: "auth",
	}
}

// NewScopeMissingError は必須のuser:emailスコープが付与されなかった場合の
// エラーを生成する。ユーザーの同意内容の問題であり、クライアントエラーとして扱う。
func NewScopeMissingError() *APIError {
	return &APIError{
		Code:     ErrCodeScopeMissing,
		Message:  "user:email scope not available",
		Category: "auth",
	}
}

// NewConfigError は必須シークレット未設定のエラーを生成する。
// 全リクエストに等しく影響するためサーバーエラーとして扱う。
func NewConfigError(name string) *APIError {
	return &APIError{
		Code:     ErrCodeConfigMissing,
		Message:  fmt.Sprintf("environment variable %s not set", name),
		Category: "config",
	}
}

// NewStoreError はデータストア操作の失敗に対するエラーを生成する。
func NewStoreError(message string) *APIError {
	return &APIError{
		Code:     ErrCodeStoreFailure,
		Message:  message,
		Category: "store",
	}
}
