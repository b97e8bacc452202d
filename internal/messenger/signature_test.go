package messenger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerifySignature(t *testing.T) {
	body := []byte(`{"object":"page","entry":[]}`)
	valid := Sign("app-secret", body)

	tests := []struct {
		name    string
		secret  string
		header  string
		wantErr bool
	}{
		{"valid", "app-secret", valid, false},
		{"secret unset skips check", "", "", false},
		{"missing header", "app-secret", "", true},
		{"missing prefix", "app-secret", valid[len("sha256="):], true},
		{"not hex", "app-secret", "sha256=zzzz", true},
		{"wrong secret", "other-secret", valid, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := VerifySignature(tt.secret, body, tt.header)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidSignature)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestVerifySignature_TamperedBody(t *testing.T) {
	header := Sign("app-secret", []byte(`{"a":1}`))
	assert.ErrorIs(t, VerifySignature("app-secret", []byte(`{"a":2}`), header), ErrInvalidSignature)
}
