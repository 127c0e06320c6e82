package models

import "strings"

// RegistrationData is submitted to the evaluation service register endpoint
type RegistrationData struct {
	Email          string `json:"email"`
	Name           string `json:"name"`
	MobileNo       string `json:"mobileNo"`
	GithubUsername string `json:"githubUsername"`
	RollNo         string `json:"rollNo"`
	AccessCode     string `json:"accessCode"`
}

// RegistrationResponse carries the client credentials issued on registration
type RegistrationResponse struct {
	Email        string `json:"email"`
	Name         string `json:"name"`
	RollNo       string `json:"rollNo"`
	AccessCode   string `json:"accessCode"`
	ClientID     string `json:"clientID"`
	ClientSecret string `json:"clientSecret"`
}

// AuthData is submitted to the evaluation service auth endpoint
type AuthData struct {
	Email        string `json:"email"`
	Name         string `json:"name"`
	RollNo       string `json:"rollNo"`
	AccessCode   string `json:"accessCode"`
	ClientID     string `json:"clientID"`
	ClientSecret string `json:"clientSecret"`
}

// AuthResponse is the bearer token returned by the auth endpoint
type AuthResponse struct {
	TokenType   string `json:"token_type"`
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

// APIResponse is the uniform pass/fail result of an evaluation service call
type APIResponse[T any] struct {
	Success bool   `json:"success"`
	Data    *T     `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// MissingFields returns the JSON names of required registration fields that are blank
func (d RegistrationData) MissingFields() []string {
	return missing(map[string]string{
		"email":          d.Email,
		"name":           d.Name,
		"mobileNo":       d.MobileNo,
		"githubUsername": d.GithubUsername,
		"rollNo":         d.RollNo,
		"accessCode":     d.AccessCode,
	}, []string{"email", "name", "mobileNo", "githubUsername", "rollNo", "accessCode"})
}

// MissingFields returns the JSON names of required auth fields that are blank
func (d AuthData) MissingFields() []string {
	return missing(map[string]string{
		"email":        d.Email,
		"name":         d.Name,
		"rollNo":       d.RollNo,
		"accessCode":   d.AccessCode,
		"clientID":     d.ClientID,
		"clientSecret": d.ClientSecret,
	}, []string{"email", "name", "rollNo", "accessCode", "clientID", "clientSecret"})
}

func missing(values map[string]string, order []string) []string {
	var out []string
	for _, name := range order {
		if strings.TrimSpace(values[name]) == "" {
			out = append(out, name)
		}
	}
	return out
}
