package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"regexp"
	"slices"

	"essence-site/internal/models"
)

var usernameRegex = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)
var slugRegex = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

func Username(username string) error {
	length := len(username)
	if length < 3 {
		return fmt.Errorf("short_username")
	} else if length > 32 {
		return fmt.Errorf("long_username")
	}

	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("bad_format")
	}
	return nil
}

// Password limits the length to what bcrypt accepts.
func Password(password string) error {
	length := len(password)
	if length < 6 {
		return fmt.Errorf("short_password")
	} else if length > 72 {
		return fmt.Errorf("long_password")
	}
	return nil
}

func Slug(slug string) error {
	if len(slug) == 0 {
		return fmt.Errorf("empty_slug")
	} else if len(slug) > 64 {
		return fmt.Errorf("long_slug")
	}

	if !slugRegex.MatchString(slug) {
		return fmt.Errorf("bad_format")
	}
	return nil
}

var ErrEmptyPatch = errors.New("no fields to update")

type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("invalid field %q: %s", e.Field, e.Reason)
}

// SiteConfigPatch turns a decoded JSON object into a patch. The first field that is unknown,
// null or of the wrong JSON type rejects the whole update.
func SiteConfigPatch(raw map[string]json.RawMessage) (models.SiteConfigPatch, error) {
	var patch models.SiteConfigPatch
	if len(raw) == 0 {
		return patch, ErrEmptyPatch
	}

	// sorted so the reported field doesn't depend on map order
	for _, name := range slices.Sorted(maps.Keys(raw)) {
		value := raw[name]

		var err error
		switch name {
		case "siteName":
			patch.SiteName, err = stringField(name, value, 64)
		case "logoText":
			patch.LogoText, err = stringField(name, value, 64)
		case "primaryColor":
			patch.PrimaryColor, err = stringField(name, value, 32)
		case "discordInviteUrl":
			patch.DiscordInviteURL, err = stringField(name, value, 256)
		case "showStatistics":
			patch.ShowStatistics, err = boolField(name, value)
		case "showTestimonials":
			patch.ShowTestimonials, err = boolField(name, value)
		case "maintenanceMode":
			patch.MaintenanceMode, err = boolField(name, value)
		case "maintenanceMessage":
			patch.MaintenanceMessage, err = stringField(name, value, 1024)
		case "footerText":
			patch.FooterText, err = stringField(name, value, 256)
		case "customCss":
			patch.CustomCSS, err = stringField(name, value, 64*1024)
		default:
			err = &FieldError{Field: name, Reason: "unknown field"}
		}
		if err != nil {
			return models.SiteConfigPatch{}, err
		}
	}

	return patch, nil
}

func boolField(name string, value json.RawMessage) (*bool, error) {
	var b bool
	if firstByte(value) != 't' && firstByte(value) != 'f' {
		return nil, &FieldError{Field: name, Reason: "must be a boolean"}
	}
	if err := json.Unmarshal(value, &b); err != nil {
		return nil, &FieldError{Field: name, Reason: "must be a boolean"}
	}
	return &b, nil
}

func stringField(name string, value json.RawMessage, maxLength int) (*string, error) {
	var s string
	if firstByte(value) != '"' {
		return nil, &FieldError{Field: name, Reason: "must be a string"}
	}
	if err := json.Unmarshal(value, &s); err != nil {
		return nil, &FieldError{Field: name, Reason: "must be a string"}
	}
	if len(s) > maxLength {
		return nil, &FieldError{Field: name, Reason: fmt.Sprintf("longer than %d characters", maxLength)}
	}
	return &s, nil
}

func firstByte(value json.RawMessage) byte {
	for _, c := range value {
		switch c {
		case ' ', '\t', '\r', '\n':
			continue
		}
		return c
	}
	return 0
}
