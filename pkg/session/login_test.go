package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLooksLikeLoginURL(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{url: "https://weiban.mycourse.cn/#/login", want: true},
		{url: "https://weiban.mycourse.cn/#/Login?from=home", want: true},
		{url: "https://sso.example/LOGIN", want: true},
		{url: "https://weiban.mycourse.cn/#/course/list", want: false},
		{url: "", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, looksLikeLoginURL(tt.url))
		})
	}
}

func TestCookieNameLooksAuthy(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{name: "SESSIONID", want: true},
		{name: "jsessionid", want: true},
		{name: "access_token", want: true},
		{name: "X-Auth", want: true},
		{name: "_ga", want: false},
		{name: "locale", want: false},
		{name: "", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cookieNameLooksAuthy(tt.name))
		})
	}
}
