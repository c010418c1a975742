package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisplayMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{errors.New("could not connect to the server"), "Could not connect to the server"},
		{errors.New("invalid email or password"), "Invalid email or password"},
		{errors.New("éxito parcial"), "Éxito parcial"},
		{errors.New("--email is required"), "--email is required"},
		{errors.New(""), ""},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, displayMessage(tt.err))
		})
	}
}
