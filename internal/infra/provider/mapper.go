package provider

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"authflow/internal/domain/entity"
	"authflow/internal/domain/service"
)

type profileMapper func(raw map[string]any) *entity.ProviderProfile

// profileMappers holds one pure normalizer per provider.
var profileMappers = map[entity.ProviderType]profileMapper{
	entity.ProviderGoogle:   mapGoogleProfile,
	entity.ProviderFacebook: mapFacebookProfile,
}

// NormalizeProfile maps a provider's profile payload into a ProviderProfile.
// A payload without an id is rejected; every other field is optional.
func NormalizeProfile(provider entity.ProviderType, raw map[string]any) (*entity.ProviderProfile, error) {
	mapper, ok := profileMappers[provider]
	if !ok {
		return nil, errors.Errorf("no profile mapper for provider %q", provider)
	}

	profile := mapper(raw)
	if profile.ExternalID == "" {
		return nil, errors.Wrap(service.ErrProviderRequest, "profile without id")
	}
	profile.Provider = provider

	return profile, nil
}

func mapGoogleProfile(raw map[string]any) *entity.ProviderProfile {
	id := stringField(raw, "id")
	if id == "" {
		id = stringField(raw, "sub")
	}

	return &entity.ProviderProfile{
		ExternalID: id,
		FirstName:  stringField(raw, "given_name"),
		LastName:   stringField(raw, "family_name"),
		Email:      stringField(raw, "email"),
	}
}

func mapFacebookProfile(raw map[string]any) *entity.ProviderProfile {
	profile := &entity.ProviderProfile{
		ExternalID: stringField(raw, "id"),
		FirstName:  stringField(raw, "first_name"),
		MiddleName: stringField(raw, "middle_name"),
		LastName:   stringField(raw, "last_name"),
		Email:      stringField(raw, "email"),
	}

	place := nestedName(raw, "location")
	if place == "" {
		place = nestedName(raw, "hometown")
	}
	profile.City, profile.Country = splitPlace(place)

	return profile
}

// splitPlace splits Facebook's "City, Country" place names on the last comma.
func splitPlace(place string) (city, country string) {
	place = strings.TrimSpace(place)
	if place == "" {
		return "", ""
	}

	idx := strings.LastIndex(place, ",")
	if idx < 0 {
		return place, ""
	}

	return strings.TrimSpace(place[:idx]), strings.TrimSpace(place[idx+1:])
}

func nestedName(raw map[string]any, key string) string {
	obj, ok := raw[key].(map[string]any)
	if !ok {
		return ""
	}

	return stringField(obj, "name")
}

func stringField(raw map[string]any, key string) string {
	switch v := raw[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

func int64Field(raw map[string]any, key string) int64 {
	switch v := raw[key].(type) {
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n
		}
		if f, err := v.Float64(); err == nil {
			return int64(f)
		}
	case float64:
		return int64(v)
	case string:
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}

	return 0
}
