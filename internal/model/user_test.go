package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAvatarFor(t *testing.T) {
	tests := []struct {
		username string
		want     string
	}{
		{"alice", "AL"},
		{"a", "A"},
		{"Bo", "BO"},
		{"x1y", "X1"},
		{"élan", "ÉL"},
		{"ßa", "SSA"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.username, func(t *testing.T) {
			assert.Equal(t, tt.want, AvatarFor(tt.username))
		})
	}
}

func TestUserJSON_OmitsPasswordHash(t *testing.T) {
	u := User{ID: 3, Username: "alice", Email: "alice@example.com", PasswordHash: "secret-hash", Avatar: "AL"}

	raw, err := json.Marshal(u)
	require.NoError(t, err)

	assert.NotContains(t, string(raw), "secret-hash")
	assert.NotContains(t, string(raw), "password")
	assert.Contains(t, string(raw), `"full_name":""`)
	assert.Contains(t, string(raw), `"is_creator":false`)
}
