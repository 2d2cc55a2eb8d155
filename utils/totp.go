package utils

import (
	"github.com/pquerna/otp/totp"
)

// GenerateTOTPSecret creates a new TOTP secret for the account and returns
// the secret plus the otpauth:// provisioning URL for authenticator apps.
func GenerateTOTPSecret(email string) (string, string, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      "TripTally",
		AccountName: email,
	})
	if err != nil {
		return "", "", err
	}

	return key.Secret(), key.URL(), nil
}

// VerifyTOTP checks a 6-digit code against the secret for the current window.
func VerifyTOTP(secret, code string) bool {
	return totp.Validate(code, secret)
}
