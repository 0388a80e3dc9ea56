package security

import "testing"

// HTML要素が除去され、プレーンテキストが保存されることを検証
func TestSanitize_StripsHTML(t *testing.T) {
	s := NewCommentSanitizer()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain text untouched", in: "nice post!", want: "nice post!"},
		{name: "script removed", in: `<script>alert(1)</script>`, want: ""},
		{name: "tags stripped keeping text", in: "<b>bold</b> statement", want: "bold statement"},
		{name: "anchor stripped keeping text", in: `<a href="https://evil.example">link</a>`, want: "link"},
		{name: "img removed", in: `before<img src=x onerror=alert(1)>after`, want: "beforeafter"},
		{name: "markdown preserved", in: "check `code` and *emphasis*", want: "check `code` and *emphasis*"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Sanitize(tt.in); got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

// 同一入力に対して常に同一出力を返すことを検証（冪等）
func TestSanitize_Idempotent(t *testing.T) {
	s := NewCommentSanitizer()

	in := "<b>bold</b> statement"
	once := s.Sanitize(in)
	if twice := s.Sanitize(once); twice != once {
		t.Errorf("second pass = %q, want %q", twice, once)
	}
}
