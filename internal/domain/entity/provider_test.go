package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseProvider(t *testing.T) {
	tests := []struct {
		in   string
		want ProviderType
		ok   bool
	}{
		{in: "google", want: ProviderGoogle, ok: true},
		{in: " Facebook ", want: ProviderFacebook, ok: true},
		{in: "github", want: ProviderType("github"), ok: false},
		{in: "", want: ProviderType(""), ok: false},
	}

	for _, tt := range tests {
		got, ok := ParseProvider(tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
	}
}

func TestProviderFromState(t *testing.T) {
	p, ok := ProviderFromState(NewState(ProviderGoogle, "abc"))
	assert.True(t, ok)
	assert.Equal(t, ProviderGoogle, p)

	p, ok = ProviderFromState("F-xyz-with-dashes")
	assert.True(t, ok)
	assert.Equal(t, ProviderFacebook, p)

	for _, state := range []string{"", "G", "X-abc", "google-abc"} {
		_, ok := ProviderFromState(state)
		assert.False(t, ok, state)
	}
}

func TestScopeOrDefault(t *testing.T) {
	assert.Equal(t, ScopeAdmin, ScopeOrDefault("admin", ScopeOwner))
	assert.Equal(t, ScopeOwner, ScopeOrDefault("root", ScopeOwner))
	assert.Equal(t, ScopeOwner, ScopeOrDefault("", ScopeOwner))
}

func TestProviderIdentity_ApplyToken(t *testing.T) {
	identity := &ProviderIdentity{AccessToken: "old"}
	identity.ApplyToken(nil)
	assert.Equal(t, "old", identity.AccessToken)
	assert.True(t, identity.IsPending())

	identity.ApplyToken(&ProviderToken{AccessToken: "new", RefreshToken: "r"})
	assert.Equal(t, "new", identity.AccessToken)
	assert.Equal(t, "r", identity.RefreshToken)
}

func TestAccountRegistration_Normalized(t *testing.T) {
	reg := AccountRegistration{ExternalID: " 42 ", FirstName: "\tAlice ", District: " ", Password: " pw "}

	got := reg.Normalized()

	assert.Equal(t, "42", got.ExternalID)
	assert.Equal(t, "Alice", got.FirstName)
	assert.Empty(t, got.District)
	assert.Equal(t, " pw ", got.Password)
	assert.Equal(t, "\tAlice ", reg.FirstName, "the receiver is left untouched")
}
