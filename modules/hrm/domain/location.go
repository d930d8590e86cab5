package domain

import "encoding/json"

type Location struct {
	LocationID    ID     `json:"location_id"`
	StreetAddress string `json:"street_address"`
	PostalCode    string `json:"postal_code"`
	City          string `json:"city"`
	StateProvince string `json:"state_province"`
	CountryID     ID     `json:"country_id"`
	CountryName   string `json:"country_name,omitempty"`
}

func (l *Location) UnmarshalJSON(b []byte) error {
	type plain Location
	var wire struct {
		plain
		LegacyID ID `json:"id"`
	}
	if err := json.Unmarshal(b, &wire); err != nil {
		return err
	}
	*l = Location(wire.plain)
	l.LocationID = canonical(l.LocationID, wire.LegacyID)
	return nil
}

func (l Location) Key() string {
	return l.LocationID.String()
}

type Country struct {
	CountryID   ID     `json:"country_id"`
	CountryName string `json:"country_name"`
	RegionID    ID     `json:"region_id"`
	RegionName  string `json:"region_name,omitempty"`
}

func (c *Country) UnmarshalJSON(b []byte) error {
	type plain Country
	var wire struct {
		plain
		LegacyID ID `json:"id"`
	}
	if err := json.Unmarshal(b, &wire); err != nil {
		return err
	}
	*c = Country(wire.plain)
	c.CountryID = canonical(c.CountryID, wire.LegacyID)
	return nil
}

func (c Country) Key() string {
	return c.CountryID.String()
}

type Region struct {
	RegionID   ID     `json:"region_id"`
	RegionName string `json:"region_name"`
}

func (r *Region) UnmarshalJSON(b []byte) error {
	type plain Region
	var wire struct {
		plain
		LegacyID ID `json:"id"`
	}
	if err := json.Unmarshal(b, &wire); err != nil {
		return err
	}
	*r = Region(wire.plain)
	r.RegionID = canonical(r.RegionID, wire.LegacyID)
	return nil
}

func (r Region) Key() string {
	return r.RegionID.String()
}
