package schemas

import (
	"strconv"
	"strings"

	"github.com/iota-uz/hr-console/modules/hrm/domain"
	"github.com/iota-uz/hr-console/modules/hrm/services"
	"github.com/iota-uz/hr-console/pkg/crud"
)

type LocationDTO struct {
	StreetAddress string `form:"street_address" validate:"omitempty,max=40"`
	PostalCode    string `form:"postal_code" validate:"omitempty,max=12"`
	City          string `form:"city" validate:"required,max=30"`
	StateProvince string `form:"state_province" validate:"omitempty,max=25"`
	CountryID     string `form:"country_id" validate:"required"`
}

// LocationPayload carries the whole Draft, unchanged fields included.
type LocationPayload struct {
	LocationID    *int   `json:"location_id,omitempty"`
	StreetAddress string `json:"street_address"`
	PostalCode    string `json:"postal_code"`
	City          string `json:"city"`
	StateProvince string `json:"state_province"`
	CountryID     string `json:"country_id"`
}

var locationFields = []string{"street_address", "postal_code", "city", "state_province", "country_id"}

func LocationValues(l domain.Location) map[string]string {
	return map[string]string{
		"location_id":    l.LocationID.String(),
		"street_address": l.StreetAddress,
		"postal_code":    l.PostalCode,
		"city":           l.City,
		"state_province": l.StateProvince,
		"country_id":     l.CountryID.String(),
	}
}

func NewLocationSchema(svc *services.Services, v *Validator) *crud.Schema[domain.Location] {
	return &crud.Schema[domain.Location]{
		Resource:     "location",
		IDField:      "location_id",
		CreateFields: locationFields,
		EditFields:   append([]string{"location_id"}, locationFields...),
		Values:       LocationValues,
		Validate: func(_ crud.Mode, draft crud.Draft, _ *crud.References) crud.ValidationErrors {
			return v.Check("Locations", draft, &LocationDTO{})
		},
		ToWire: func(mode crud.Mode, draft crud.Draft, _ *crud.References) (any, error) {
			dto := &LocationDTO{}
			if err := v.Decode(draft, dto); err != nil {
				return nil, err
			}
			payload := LocationPayload{
				StreetAddress: dto.StreetAddress,
				PostalCode:    dto.PostalCode,
				City:          dto.City,
				StateProvince: dto.StateProvince,
				CountryID:     strings.ToUpper(dto.CountryID),
			}
			if mode == crud.ModeEdit {
				id, err := optionalInt(draft.Get("location_id"))
				if err != nil {
					return nil, crud.ValidationErrors{crud.GeneralKey: "Location ID is invalid"}
				}
				payload.LocationID = id
			}
			return payload, nil
		},
		References: map[string]crud.Fetcher{
			RefCountries: CountryOptions(svc.Countries),
			RefRegions:   RegionOptions(svc.Regions),
		},
		Service: svc.Locations,
	}
}

type CountryDTO struct {
	CountryID   string `form:"country_id" validate:"required,len=2,alpha"`
	CountryName string `form:"country_name" validate:"required,max=40"`
	RegionID    string `form:"region_id" validate:"required,numeric"`
}

type CountryPayload struct {
	CountryID   string `json:"country_id"`
	CountryName string `json:"country_name"`
	RegionID    int    `json:"region_id"`
}

func CountryValues(c domain.Country) map[string]string {
	return map[string]string{
		"country_id":   c.CountryID.String(),
		"country_name": c.CountryName,
		"region_id":    c.RegionID.String(),
	}
}

// NewCountrySchema is the Add Country form opened from a location form.
func NewCountrySchema(svc *services.Services, v *Validator) *crud.Schema[domain.Country] {
	fields := []string{"country_id", "country_name", "region_id"}
	return &crud.Schema[domain.Country]{
		Resource:     "country",
		IDField:      "country_id",
		CreateFields: fields,
		EditFields:   fields,
		Values:       CountryValues,
		Validate: func(_ crud.Mode, draft crud.Draft, _ *crud.References) crud.ValidationErrors {
			return v.Check("Countries", draft, &CountryDTO{})
		},
		ToWire: func(_ crud.Mode, draft crud.Draft, _ *crud.References) (any, error) {
			dto := &CountryDTO{}
			if err := v.Decode(draft, dto); err != nil {
				return nil, err
			}
			regionID, err := strconv.Atoi(dto.RegionID)
			if err != nil {
				return nil, crud.ValidationErrors{"region_id": "Region is invalid"}
			}
			return CountryPayload{
				CountryID:   strings.ToUpper(dto.CountryID),
				CountryName: dto.CountryName,
				RegionID:    regionID,
			}, nil
		},
		References: map[string]crud.Fetcher{
			RefRegions: RegionOptions(svc.Regions),
		},
		Service: svc.Countries,
	}
}

type RegionDTO struct {
	RegionName string `form:"region_name" validate:"required,max=25"`
}

type RegionPayload struct {
	RegionName string `json:"region_name"`
}

func RegionValues(r domain.Region) map[string]string {
	return map[string]string{
		"region_id":   r.RegionID.String(),
		"region_name": r.RegionName,
	}
}

func NewRegionSchema(svc *services.Services, v *Validator) *crud.Schema[domain.Region] {
	return &crud.Schema[domain.Region]{
		Resource:     "region",
		IDField:      "region_id",
		CreateFields: []string{"region_name"},
		EditFields:   []string{"region_id", "region_name"},
		Values:       RegionValues,
		Validate: func(_ crud.Mode, draft crud.Draft, _ *crud.References) crud.ValidationErrors {
			return v.Check("Regions", draft, &RegionDTO{})
		},
		ToWire: func(_ crud.Mode, draft crud.Draft, _ *crud.References) (any, error) {
			dto := &RegionDTO{}
			if err := v.Decode(draft, dto); err != nil {
				return nil, err
			}
			return RegionPayload{RegionName: dto.RegionName}, nil
		},
		Service: svc.Regions,
	}
}
