package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuthorizeMutation(t *testing.T) {
	const id = "6a3c8f2e-9d7b-4c1a-8e5f-2b4d6f8a0c1e"

	tests := []struct {
		name   string
		owner  string
		caller string
		want   bool
	}{
		{name: "same id", owner: id, caller: id, want: true},
		{name: "case and whitespace differ", owner: strings.ToUpper(id), caller: " " + id, want: true},
		{name: "braced form", owner: "{" + id + "}", caller: id, want: true},
		{name: "different ids", owner: id, caller: "7a3c8f2e-9d7b-4c1a-8e5f-2b4d6f8a0c1e", want: false},
		{name: "empty caller", owner: id, caller: "", want: false},
		{name: "empty owner", owner: "", caller: id, want: false},
		{name: "both empty", owner: "", caller: "", want: false},
		{name: "nil uuid", owner: "00000000-0000-0000-0000-000000000000", caller: "00000000-0000-0000-0000-000000000000", want: false},
		{name: "garbage", owner: "abc", caller: "abc", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AuthorizeMutation(tt.owner, tt.caller))
		})
	}
}
