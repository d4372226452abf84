package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/sakif/social-feed/internal/apperror"
)

const msgInvalidJSON = "Invalid JSON body"

// REQUEST VARIANTS:
// A POST body is decoded at the boundary into one of a closed set of request
// types: the action first, then only the fields that action uses. The
// unexported marker method keeps other packages from adding variants, and
// each handler's type switch ends in a default that answers 405.
//
//	auth:  registerRequest | loginRequest | unsupportedRequest
//	posts: createPostRequest | likePostRequest | unsupportedRequest

type authRequest interface{ authRequest() }

type postsRequest interface{ postsRequest() }

type registerRequest struct {
	Username string
	Email    string
	Password string
	FullName string
}

type loginRequest struct {
	Username string
	Password string
}

type createPostRequest struct {
	UserID  int64
	Content string
}

type likePostRequest struct {
	PostID int64
}

// unsupportedRequest is a POST whose action is missing or unknown.
type unsupportedRequest struct {
	Action string
}

func (registerRequest) authRequest()     {}
func (loginRequest) authRequest()        {}
func (unsupportedRequest) authRequest()  {}
func (createPostRequest) postsRequest()  {}
func (likePostRequest) postsRequest()    {}
func (unsupportedRequest) postsRequest() {}

// actionBody reads only the dispatch key. It is decoded first so that
// fields an action does not use never affect which variant is chosen.
type actionBody struct {
	Action json.RawMessage `json:"action"`
}

type registerBody struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

type loginBody struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type createBody struct {
	UserID  ID     `json:"user_id"`
	Content string `json:"content"`
}

type likeBody struct {
	PostID ID `json:"post_id"`
}

func decodeAuthRequest(body string) (authRequest, error) {
	action, err := decodeAction(body)
	if err != nil {
		return nil, err
	}

	switch action {
	case "register":
		var b registerBody
		if err := decodeBody(body, &b); err != nil {
			return nil, err
		}
		return registerRequest{Username: b.Username, Email: b.Email, Password: b.Password, FullName: b.FullName}, nil
	case "login":
		var b loginBody
		if err := decodeBody(body, &b); err != nil {
			return nil, err
		}
		return loginRequest{Username: b.Username, Password: b.Password}, nil
	default:
		return unsupportedRequest{Action: action}, nil
	}
}

func decodePostsRequest(body string) (postsRequest, error) {
	action, err := decodeAction(body)
	if err != nil {
		return nil, err
	}

	switch action {
	case "create":
		var b createBody
		if err := decodeBody(body, &b); err != nil {
			return nil, err
		}
		return createPostRequest{UserID: int64(b.UserID), Content: b.Content}, nil
	case "like":
		var b likeBody
		if err := decodeBody(body, &b); err != nil {
			return nil, err
		}
		return likePostRequest{PostID: int64(b.PostID)}, nil
	default:
		return unsupportedRequest{Action: action}, nil
	}
}

// decodeAction returns the body's action. A missing or non-string action
// comes back as "", which no handler supports. Only a body that is not a
// JSON object is an error.
func decodeAction(body string) (string, error) {
	var b actionBody
	if err := decodeBody(body, &b); err != nil {
		return "", err
	}

	var action string
	if err := json.Unmarshal(b.Action, &action); err != nil {
		return "", nil
	}
	return action, nil
}

// decodeBody unmarshals a raw event body. An empty body is treated as {}.
func decodeBody(body string, v any) error {
	if strings.TrimSpace(body) == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(body), v); err != nil {
		return apperror.ValidationFailed("body", msgInvalidJSON)
	}
	return nil
}

// ID is an identifier that arrives either as a JSON number or as a numeric
// string ("user_id": 7 and "user_id": "7" are the same). null and "" decode
// as 0, which the services treat as missing.
type ID int64

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = 0
		return nil
	}

	raw := string(data)
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
		if raw == "" {
			*id = 0
			return nil
		}
	}

	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid id %q", raw)
	}
	*id = ID(n)
	return nil
}
