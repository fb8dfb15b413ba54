package enums

import "fmt"

// SignInMethod names the identity provider used for a session.
type SignInMethod string

const (
	SignInMethodPassword SignInMethod = "password"
	SignInMethodGoogle   SignInMethod = "google"
)

var validSignInMethods = []SignInMethod{
	SignInMethodPassword,
	SignInMethodGoogle,
}

// String implements fmt.Stringer.
func (m SignInMethod) String() string {
	return string(m)
}

// IsValid reports whether the value is a known SignInMethod.
func (m SignInMethod) IsValid() bool {
	for _, candidate := range validSignInMethods {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseSignInMethod converts raw input into a SignInMethod.
func ParseSignInMethod(value string) (SignInMethod, error) {
	for _, candidate := range validSignInMethods {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid sign-in method %q", value)
}
