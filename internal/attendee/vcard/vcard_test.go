package vcard

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"passport/internal/attendee/models"
)

func TestRender(t *testing.T) {
	t.Run("full disclosure", func(t *testing.T) {
		got := Render(models.DisclosedProfile{
			FirstName: "Ada",
			LastName:  "Lovelace",
			Company:   "Analytical Engines",
			Role:      "Engineer",
			Email:     "ada@example.com",
			Phone:     "5551234567",
			SocialLinks: []models.SocialLink{
				{Name: "linkedin", URL: "https://linkedin.com/in/ada"},
			},
		})

		want := strings.Join([]string{
			"BEGIN:VCARD",
			"VERSION:3.0",
			"N:Ada Lovelace",
			"ORG:Analytical Engines",
			"ROLE:Engineer",
			"EMAIL:ada@example.com",
			"TEL:5551234567",
			"URL;TYPE=linkedin:https://linkedin.com/in/ada",
			"END:VCARD",
		}, "\n")
		assert.Equal(t, want, got)
	})

	t.Run("undisclosed fields are omitted, not empty", func(t *testing.T) {
		got := Render(models.DisclosedProfile{
			FirstName: "Ada",
			LastName:  "Lovelace",
			Company:   "Analytical Engines",
			Role:      "Engineer",
		})

		assert.NotContains(t, got, "EMAIL")
		assert.NotContains(t, got, "TEL")
	})

	t.Run("blank social link URLs are skipped", func(t *testing.T) {
		got := Render(models.DisclosedProfile{
			SocialLinks: []models.SocialLink{
				{Name: "x", URL: "  "},
				{Name: "site", URL: "https://example.com"},
			},
		})

		assert.NotContains(t, got, "URL;TYPE=x")
		assert.Contains(t, got, "URL;TYPE=site:https://example.com")
	})
}
