package model

import "fmt"

// ProviderField names an attribute in a provider's raw account payload.
// Not every provider exposes every attribute (GitHub sends no
// email-verified indicator), so absence is an explicit, checked state
// rather than an empty key.
type ProviderField struct {
	Key       string
	Supported bool
}

// Provider describes how an OAuth provider's account payload maps onto a
// local user profile.
type Provider struct {
	Name          string
	NameField     string
	EmailField    string
	ImageField    string
	EmailVerified ProviderField
}

var Providers = map[string]Provider{
	"discord": {
		Name:          "Discord",
		NameField:     "username",
		EmailField:    "email",
		ImageField:    "image_url",
		EmailVerified: ProviderField{Key: "verified", Supported: true},
	},
	"google": {
		Name:          "Google",
		NameField:     "name",
		EmailField:    "email",
		ImageField:    "picture",
		EmailVerified: ProviderField{Key: "email_verified", Supported: true},
	},
	"github": {
		Name:          "GitHub",
		NameField:     "login",
		EmailField:    "email",
		ImageField:    "avatar_url",
		EmailVerified: ProviderField{Supported: false},
	},
	"zoom": {
		// Zoom's verified flag is unreliable for SSO-created accounts,
		// but it is the only signal the provider offers.
		Name:          "Zoom",
		NameField:     "display_name",
		EmailField:    "email",
		ImageField:    "pic_url", // Absent when the user has no profile picture
		EmailVerified: ProviderField{Key: "verified", Supported: true},
	},
}

// OAuthProfile is the provider-independent shape an account payload maps
// to. EmailVerified stays nil when the provider has no such field or did
// not send it.
type OAuthProfile struct {
	Name          string
	Email         string
	Image         *string
	EmailVerified *bool
}

// MapAccount projects a provider's raw account payload onto an
// OAuthProfile. Name and email are required; image and email-verified
// are best effort.
func (p Provider) MapAccount(account map[string]any) (OAuthProfile, error) {
	profile := OAuthProfile{}

	name, ok := account[p.NameField].(string)
	if !ok || name == "" {
		return profile, fmt.Errorf("%s account payload is missing %q", p.Name, p.NameField)
	}
	profile.Name = name

	email, ok := account[p.EmailField].(string)
	if !ok || email == "" {
		return profile, fmt.Errorf("%s account payload is missing %q", p.Name, p.EmailField)
	}
	profile.Email = email

	if image, ok := account[p.ImageField].(string); ok && image != "" {
		profile.Image = &image
	}

	if p.EmailVerified.Supported {
		if verified, ok := account[p.EmailVerified.Key].(bool); ok {
			profile.EmailVerified = &verified
		}
	}

	return profile, nil
}
