package entity

import "slices"

// Scope is the role granted to an account inside issued credentials.
type Scope string

const (
	// ScopeOwner is granted to every account created through registration.
	ScopeOwner Scope = "owner"
	// ScopeAdmin is reserved for operators.
	ScopeAdmin Scope = "admin"
)

// String returns the string representation of the Scope.
func (s Scope) String() string {
	return string(s)
}

// IsValid checks if the Scope is a known value.
func (s Scope) IsValid() bool {
	return slices.Contains([]Scope{ScopeOwner, ScopeAdmin}, s)
}

// ScopeOrDefault returns s when it is a known scope and fallback otherwise.
func ScopeOrDefault(s string, fallback Scope) Scope {
	if scope := Scope(s); scope.IsValid() {
		return scope
	}

	return fallback
}
