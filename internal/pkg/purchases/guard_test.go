package purchases

import "testing"

func TestAuthorizeWebhook(t *testing.T) {
	tests := []struct {
		name   string
		header string
		secret string
		want   bool
	}{
		{name: "raw secret", header: "s3cret", secret: "s3cret", want: true},
		{name: "bearer secret", header: "Bearer s3cret", secret: "s3cret", want: true},
		{name: "bearer case insensitive", header: "bearer s3cret", secret: "s3cret", want: true},
		{name: "whitespace tolerated", header: "  Bearer   s3cret  ", secret: "s3cret", want: true},
		{name: "wrong secret", header: "other", secret: "s3cret", want: false},
		{name: "wrong bearer secret", header: "Bearer other", secret: "s3cret", want: false},
		{name: "missing header", header: "", secret: "s3cret", want: false},
		{name: "no secret configured", header: "s3cret", secret: "", want: false},
		{name: "both empty fails closed", header: "", secret: "", want: false},
	}

	for _, tt := range tests {
		if got := AuthorizeWebhook(tt.header, tt.secret); got != tt.want {
			t.Fatalf("%s: AuthorizeWebhook(%q, %q) = %v, want %v", tt.name, tt.header, tt.secret, got, tt.want)
		}
	}
}
