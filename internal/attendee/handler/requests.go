package handler

import (
	"strings"

	"passport/internal/attendee/models"
	dErrors "passport/pkg/domain-errors"
)

// registrationRequest is the payload delivered by the registration-platform
// webhook relay, already flattened to the fields the directory keeps.
type registrationRequest struct {
	Barcode   string `json:"barcode"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Company   string `json:"company"`
	Role      string `json:"role"`
	Gender    string `json:"gender"`
}

func (r registrationRequest) validate() error {
	if strings.TrimSpace(r.Barcode) == "" {
		return dErrors.New(dErrors.CodeBadRequest, "barcode is required")
	}
	return nil
}

func (r registrationRequest) toRegistration() models.Registration {
	return models.Registration{
		Barcode:   strings.TrimSpace(r.Barcode),
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
		Phone:     r.Phone,
		Company:   r.Company,
		Role:      r.Role,
		Gender:    r.Gender,
	}
}

// unlockRequest carries the ownership proof: the stored email or the last 6
// characters of the stored phone.
type unlockRequest struct {
	Value string `json:"value"`
}

// updateProfileRequest is the first-time-setup / edit payload. Required
// fields are pointers so "absent" and "zero" stay distinguishable.
type updateProfileRequest struct {
	UnlockKey   string              `json:"unlock_key"`
	Email       *string             `json:"email"`
	Phone       *string             `json:"phone"`
	ShareEmail  *bool               `json:"share_email"`
	SharePhone  *bool               `json:"share_phone"`
	PIN         *string             `json:"pin"`
	SocialLinks []models.SocialLink `json:"social_links"`

	Gender         *string `json:"gender"`
	ProfileType    *string `json:"profile"`
	AgeRange       *string `json:"age_range"`
	AreaOfInterest *string `json:"area_of_interest"`
}

func (r updateProfileRequest) validate() error {
	if r.UnlockKey == "" {
		return dErrors.New(dErrors.CodeBadRequest, "unlock_key is required")
	}
	for name, field := range map[string]bool{
		"email":       r.Email == nil,
		"phone":       r.Phone == nil,
		"share_email": r.ShareEmail == nil,
		"share_phone": r.SharePhone == nil,
		"pin":         r.PIN == nil,
	} {
		if field {
			return dErrors.New(dErrors.CodeBadRequest, name+" is required")
		}
	}
	return nil
}

func (r updateProfileRequest) toUpdate() models.ProfileUpdate {
	return models.ProfileUpdate{
		Email:          *r.Email,
		Phone:          *r.Phone,
		ShareEmail:     *r.ShareEmail,
		SharePhone:     *r.SharePhone,
		PIN:            *r.PIN,
		SocialLinks:    r.SocialLinks,
		Gender:         r.Gender,
		ProfileType:    r.ProfileType,
		AgeRange:       r.AgeRange,
		AreaOfInterest: r.AreaOfInterest,
	}
}
