package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFallbackName(t *testing.T) {
	cases := []struct {
		address string
		first   string
		last    string
	}{
		{"ada.lovelace@x.com", "Ada", "Lovelace"},
		{"grace_hopper@navy.mil", "Grace", "Hopper"},
		{"ada@x.com", "Ada", "Attendee"},
		{"ada.m.lovelace@x.com", "Ada", "Lovelace"},
		{"a+tag@x.com", "A", "Tag"},
		{"@x.com", "Attendee", "Attendee"},
		{"", "Attendee", "Attendee"},
	}
	for _, tc := range cases {
		first, last := FallbackName(tc.address)
		assert.Equal(t, tc.first, first, tc.address)
		assert.Equal(t, tc.last, last, tc.address)
	}
}
