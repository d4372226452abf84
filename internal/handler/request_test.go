package handler

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/social-feed/internal/apperror"
)

func TestID_Unmarshal(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    ID
		wantErr bool
	}{
		{"number", `7`, 7, false},
		{"numeric string", `"42"`, 42, false},
		{"padded string", `" 9 "`, 9, false},
		{"null", `null`, 0, false},
		{"empty string", `""`, 0, false},
		{"word", `"abc"`, 0, true},
		{"fraction", `1.5`, 0, true},
		{"bool", `true`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var id ID
			err := json.Unmarshal([]byte(tt.in), &id)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, id)
		})
	}
}

func TestDecodeAuthRequest(t *testing.T) {
	tests := []struct {
		name string
		body string
		want authRequest
	}{
		{"empty body", "", unsupportedRequest{}},
		{"empty object", "{}", unsupportedRequest{}},
		{"unknown action", `{"action":"logout"}`, unsupportedRequest{Action: "logout"}},
		{"unknown action ignores fields", `{"action":"logout","username":5}`, unsupportedRequest{Action: "logout"}},
		{"numeric action", `{"action":5}`, unsupportedRequest{}},
		{"null action", `{"action":null}`, unsupportedRequest{}},
		{"login ignores register fields", `{"action":"login","username":"a","password":"p","email":7}`, loginRequest{Username: "a", Password: "p"}},
		{
			"register",
			`{"action":"register","username":"a","email":"a@b.c","password":"p","full_name":"A B","extra":1}`,
			registerRequest{Username: "a", Email: "a@b.c", Password: "p", FullName: "A B"},
		},
		{"login", `{"action":"login","username":"a","password":"p"}`, loginRequest{Username: "a", Password: "p"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeAuthRequest(tt.body)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodePostsRequest(t *testing.T) {
	got, err := decodePostsRequest(`{"action":"create","user_id":"3","content":"hi"}`)
	require.NoError(t, err)
	assert.Equal(t, createPostRequest{UserID: 3, Content: "hi"}, got)

	got, err = decodePostsRequest(`{"action":"like","post_id":11}`)
	require.NoError(t, err)
	assert.Equal(t, likePostRequest{PostID: 11}, got)

	got, err = decodePostsRequest(`{"action":"delete","post_id":"abc"}`)
	require.NoError(t, err)
	assert.Equal(t, unsupportedRequest{Action: "delete"}, got)

	got, err = decodePostsRequest(`{"action":"create","user_id":1,"content":"hi","post_id":"abc"}`)
	require.NoError(t, err)
	assert.Equal(t, createPostRequest{UserID: 1, Content: "hi"}, got)

	got, err = decodePostsRequest(`{"action":"like","post_id":2,"user_id":"abc"}`)
	require.NoError(t, err)
	assert.Equal(t, likePostRequest{PostID: 2}, got)

	got, err = decodePostsRequest(`{"action":["like"],"post_id":2}`)
	require.NoError(t, err)
	assert.Equal(t, unsupportedRequest{}, got)
}

func TestDecode_InvalidJSON(t *testing.T) {
	for _, body := range []string{`{`, `not json`, `[1,2]`, `{"user_id":"abc","action":"create"}`, `{"action":"like","post_id":true}`} {
		_, err := decodePostsRequest(body)
		require.ErrorIs(t, err, apperror.ErrValidation, body)
		assert.Equal(t, "Invalid JSON body", err.Error())
	}
}
