package utils

import (
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const idAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// GenerateID returns a short random id for request and task correlation.
func GenerateID() string {
	id, err := gonanoid.Generate(idAlphabet, 12)
	if err != nil {
		return ""
	}
	return id
}

// RandomString returns n random alphanumeric characters, for OAuth state.
func RandomString(n int) (string, error) {
	return gonanoid.Generate(idAlphabet, n)
}
