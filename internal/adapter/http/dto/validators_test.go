package dto

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type safeIDPayload struct {
	Value string `binding:"safe_id"`
}

func TestValidateSafeID(t *testing.T) {
	cases := []struct {
		name  string
		input string
		valid bool
	}{
		{"alphanumeric", "EMP001", true},
		{"with separators", "inv_2026-08.29", true},
		{"spaces rejected", "EMP 001", false},
		{"html rejected", "<script>", false},
		{"empty rejected", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := binding.Validator.ValidateStruct(&safeIDPayload{Value: tc.input})
			if tc.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestSanitizeStruct(t *testing.T) {
	type payload struct {
		Name  string
		Email *string
		Count int
	}

	email := "  owner@example.com  "
	p := payload{
		Name:  "  <b>Acme</b> Bakery ",
		Email: &email,
		Count: 3,
	}

	SanitizeStruct(&p)

	assert.Equal(t, "&lt;b&gt;Acme&lt;/b&gt; Bakery", p.Name)
	require.NotNil(t, p.Email)
	assert.Equal(t, "owner@example.com", *p.Email)
	assert.Equal(t, 3, p.Count)
}

func TestSanitizeStruct_NonPointerIsNoop(t *testing.T) {
	type payload struct{ Name string }
	p := payload{Name: "  hello  "}

	SanitizeStruct(p) // value, not pointer

	assert.Equal(t, "  hello  ", p.Name)
}
