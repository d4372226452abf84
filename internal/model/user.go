// Package model defines the data structures used throughout the application.
package model

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// User is a registered account as returned to callers.
//
// The JSON shape matches what the frontend already consumes:
//
//	{"id":1,"username":"alice","email":"a@x.io","full_name":"","avatar":"AL","is_creator":false}
//
// PasswordHash is carried for the login check only. The `json:"-"` tag keeps
// it out of every response, so a User can be serialized as-is.
type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	FullName     string `json:"full_name"`
	Avatar       string `json:"avatar"`
	IsCreator    bool   `json:"is_creator"`
}

// NewUser holds the columns written on registration. id and is_creator are
// left to the store's defaults.
type NewUser struct {
	Username     string
	Email        string
	PasswordHash string
	FullName     string
	Avatar       string
}

// AvatarFor derives the short avatar label shown in place of a profile
// picture: the first two characters of the username, upper-cased.
//
// Slicing is by rune, and upper-casing uses full Unicode case mapping, so a
// character may expand:
//
//	"alice" → "AL"
//	"a"     → "A"
//	"élan"  → "ÉL"
//	"ßa"    → "SSA"
func AvatarFor(username string) string {
	runes := []rune(username)
	if len(runes) > 2 {
		runes = runes[:2]
	}
	return cases.Upper(language.Und).String(string(runes))
}
