package dto

import "time"

type GoogleAuthURLResponse struct {
	URL string `json:"url"`
}

type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	Email       string    `json:"email"`
	IsAdmin     bool      `json:"is_admin"`
	ExpiresAt   time.Time `json:"expires_at"`
}
