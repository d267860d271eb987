package serveapi

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const jwtIssuer = "eagerparse"
const jwtSubject = "api"

// generateJWT issues a bearer token for the single static API identity,
// valid for one hour, signed with secret.
func generateJWT(secret []byte) (string, error) {
	claims := &jwt.MapClaims{
		"iss": jwtIssuer,
		"sub": jwtSubject,
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	return tok.SignedString(secret)
}

// validateJWT parses and verifies tok against secret, returning an error if
// it is malformed, expired, or signed with anything but HS512.
func validateJWT(tok string, secret []byte) error {
	_, err := jwt.Parse(tok, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}), jwt.WithIssuer(jwtIssuer), jwt.WithLeeway(time.Minute))
	return err
}

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header, or returns an error if the header is missing or malformed.
func bearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", fmt.Errorf("no authorization header present")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(strings.TrimSpace(parts[0]), "bearer") {
		return "", fmt.Errorf("authorization header not in Bearer format")
	}
	return strings.TrimSpace(parts[1]), nil
}
