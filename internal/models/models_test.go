package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserJSON_DateOfBirthIsPlainDate(t *testing.T) {
	dob := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	lastName := "Lopez"
	user := User{
		BaseModel:   BaseModel{ID: "01HZX"},
		Email:       "ana@example.com",
		Role:        RoleCandidate,
		Name:        "Ana",
		LastName:    &lastName,
		DateOfBirth: &dob,
	}

	data, err := json.Marshal(&user)
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "2000-01-01", raw["fecha_nacimiento"])
	assert.Equal(t, "01HZX", raw["id"])
	assert.Equal(t, "Lopez", raw["apellido"])
	assert.NotContains(t, raw, "PasswordHash")

	var decoded User
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "ana@example.com", decoded.Email)
	require.NotNil(t, decoded.DateOfBirth)
	assert.True(t, dob.Equal(*decoded.DateOfBirth))
}

func TestUserJSON_CompanyHasNoDateOfBirth(t *testing.T) {
	description := "Builds things"
	data, err := json.Marshal(User{Email: "acme@example.com", Role: RoleCompany, Description: &description})
	require.NoError(t, err)
	assert.NotContains(t, string(data), "fecha_nacimiento")

	var decoded User
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Nil(t, decoded.DateOfBirth)
	assert.Equal(t, RoleCompany, decoded.Role)
}

func TestUserJSON_RejectsMalformedDate(t *testing.T) {
	var user User
	err := json.Unmarshal([]byte(`{"email":"a@b.c","fecha_nacimiento":"01/02/2000"}`), &user)
	assert.ErrorContains(t, err, "invalid fecha_nacimiento")
}
