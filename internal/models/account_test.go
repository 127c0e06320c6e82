package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistrationMissingFields(t *testing.T) {
	full := RegistrationData{
		Email: "a@b.com", Name: "Ada", MobileNo: "9999999999",
		GithubUsername: "ada", RollNo: "42", AccessCode: "xyz",
	}
	assert.Empty(t, full.MissingFields())

	partial := full
	partial.Email = " "
	partial.AccessCode = ""
	assert.Equal(t, []string{"email", "accessCode"}, partial.MissingFields())
}

func TestAuthMissingFields(t *testing.T) {
	assert.Equal(t,
		[]string{"email", "name", "rollNo", "accessCode", "clientID", "clientSecret"},
		AuthData{}.MissingFields())
}
