package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestVerificationCode_IsExpired(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name      string
		expiresAt time.Time
		want      bool
	}{
		{"one second before expiry", now.Add(1 * time.Second), false},
		{"exactly at expiry", now, true},
		{"one second after expiry", now.Add(-1 * time.Second), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code := &VerificationCode{ExpiresAt: tt.expiresAt}
			assert.Equal(t, tt.want, code.IsExpired(now))
		})
	}
}

func TestPasswordReset_IsExpired(t *testing.T) {
	now := time.Now()

	assert.False(t, (&PasswordReset{ExpiresAt: now.Add(time.Second)}).IsExpired(now))
	assert.True(t, (&PasswordReset{ExpiresAt: now}).IsExpired(now))
	assert.True(t, (&PasswordReset{ExpiresAt: now.Add(-time.Second)}).IsExpired(now))
}
