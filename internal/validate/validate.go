// Package validate はリクエストスキーマ検証を提供する。
//
// エンドポイントごとにメソッド別の契約（必須ヘッダー・クエリパラメータ・
// ボディフィールド）を宣言し、ビジネスロジックの実行前に検証する。
// 検証失敗時に副作用は発生しない。
package validate

import (
	"encoding/json"
	"net/http"

	"github.com/hitoshi/kament/internal/model"
)

// Terms は1つのHTTPメソッドに対する検証契約。
type Terms struct {
	// Headers は必須リクエストヘッダー名。
	Headers []string
	// Params は必須クエリパラメータ名。
	Params []string
	// Body は必須のJSONボディフィールド名。
	// 空でない場合、ボディはJSONオブジェクトとして解析される。
	Body []string
}

// MethodTerms はHTTPメソッド名から検証契約へのマッピング。
// ここに存在しないメソッドのリクエストは405相当として拒否される。
type MethodTerms map[string]Terms

// Request はリクエストをメソッド別契約に対して検証する。
// ボディ契約がある場合は解析済みのJSONオブジェクトを返す。
// 検証に失敗した場合はnilとAPIErrorを返す。
func Request(r *http.Request, terms MethodTerms) (map[string]json.RawMessage, *model.APIError) {
	t, ok := terms[r.Method]
	if !ok {
		return nil, model.NewMethodNotAllowedError(r.Method)
	}

	for _, header := range t.Headers {
		if r.Header.Get(header) == "" {
			return nil, model.NewMissingHeaderError(header)
		}
	}

	query := r.URL.Query()
	for _, param := range t.Params {
		if query.Get(param) == "" {
			return nil, model.NewMissingParamError(param)
		}
	}

	if len(t.Body) == 0 {
		return nil, nil
	}

	var body map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return nil, model.NewInvalidBodyError()
	}

	for _, field := range t.Body {
		if _, ok := body[field]; !ok {
			return nil, model.NewMissingBodyFieldError(field)
		}
	}

	return body, nil
}

// StringField は解析済みボディから文字列フィールドを取り出す。
// フィールドが文字列でない場合は空文字列とfalseを返す。
func StringField(body map[string]json.RawMessage, field string) (string, bool) {
	raw, ok := body[field]
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}
