package jwt

import "golang.org/x/crypto/bcrypt"

const keyHashCost = 10

// HashKey produces the bcrypt hash stored in SERVICE_KEY_HASH.
func HashKey(apiKey string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(apiKey), keyHashCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func ValidateKey(hashedKey, apiKey string) bool {
	if hashedKey == "" || apiKey == "" {
		return false
	}
	err := bcrypt.CompareHashAndPassword([]byte(hashedKey), []byte(apiKey))
	return err == nil
}
