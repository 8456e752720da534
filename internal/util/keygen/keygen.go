// Package keygen generates proxy account credentials.
package keygen

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"
)

// passwordBytes is the entropy drawn per password before encoding.
const passwordBytes = 18

// Credential holds one proxy account in ready-to-embed form.
type Credential struct {
	Username string
	Password string
}

// GeneratePassword returns a fresh high-entropy password containing no
// padding or URL-hostile characters.
func GeneratePassword() (string, error) {
	raw := make([]byte, passwordBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("failed to read random source: %w", err)
	}

	encoded := base64.StdEncoding.EncodeToString(raw)
	return strings.NewReplacer("=", "", "+", "", "/", "").Replace(encoded), nil
}

// GenerateCredentials issues one credential per username, each with an
// independently generated password.
func GenerateCredentials(usernames ...string) ([]Credential, error) {
	creds := make([]Credential, 0, len(usernames))
	for _, username := range usernames {
		if username == "" {
			return nil, fmt.Errorf("username cannot be empty")
		}
		password, err := GeneratePassword()
		if err != nil {
			return nil, fmt.Errorf("failed to generate password for %s: %w", username, err)
		}
		creds = append(creds, Credential{Username: username, Password: password})
	}
	return creds, nil
}
