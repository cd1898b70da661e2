package models

// Coordinates is a WGS84 latitude/longitude pair.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether the pair lies within the WGS84 coordinate ranges.
func (c Coordinates) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

// LocationType classifies a reference location by administrative granularity.
type LocationType string

const (
	LocationTypeCity     LocationType = "city"
	LocationTypeTown     LocationType = "town"
	LocationTypeVillage  LocationType = "village"
	LocationTypeRegion   LocationType = "region"
	LocationTypeSuburb   LocationType = "suburb"
	LocationTypeDistrict LocationType = "district"
	LocationTypeCountry  LocationType = "country"
)

// LocationRecord is one entry of the in-memory reference store. Records are
// loaded once at startup and never mutated afterwards.
type LocationRecord struct {
	Name         string       `json:"name"`
	NameVariants []string     `json:"nameVariants,omitempty"`
	Coordinates  Coordinates  `json:"coordinates"`
	Country      string       `json:"country"`
	CountryCode  string       `json:"countryCode"`
	Region       string       `json:"region"`
	District     string       `json:"district,omitempty"`
	Population   int64        `json:"population,omitempty"`
	Type         LocationType `json:"type"`
	PostalCodes  []string     `json:"postalCodes,omitempty"`
}

// Hierarchy returns the denormalized administrative view of the record so
// callers need no secondary lookup.
func (r LocationRecord) Hierarchy() LocationHierarchy {
	return LocationHierarchy{
		Country:     r.Country,
		CountryCode: r.CountryCode,
		Region:      r.Region,
		District:    r.District,
		City:        r.Name,
		Coordinates: r.Coordinates,
		Population:  r.Population,
		Type:        r.Type,
	}
}

// LocationHierarchy is the country/region/district/city tuple attached to
// every resolution result.
type LocationHierarchy struct {
	Country     string       `json:"country"`
	CountryCode string       `json:"countryCode"`
	Region      string       `json:"region,omitempty"`
	District    string       `json:"district,omitempty"`
	City        string       `json:"city"`
	Coordinates Coordinates  `json:"coordinates"`
	Population  int64        `json:"population,omitempty"`
	Type        LocationType `json:"type"`
}

// GeocodingSource records which tier produced a geocoding result.
type GeocodingSource string

const (
	SourceStatic   GeocodingSource = "static"
	SourceExternal GeocodingSource = "external"
)

// GeocodingResult is a resolved coordinate with provenance and a quality
// signal in [0,1]. Confidence orders results, it is not a probability.
type GeocodingResult struct {
	Coordinates Coordinates       `json:"coordinates"`
	Hierarchy   LocationHierarchy `json:"hierarchy"`
	Source      GeocodingSource   `json:"source"`
	Confidence  float64           `json:"confidence"`
}

// LocationSearchResult is one autocomplete row. RelevanceScore determines
// ordering only; ties are broken by population descending.
type LocationSearchResult struct {
	Name           string            `json:"name"`
	DisplayName    string            `json:"displayName"`
	Coordinates    Coordinates       `json:"coordinates"`
	Hierarchy      LocationHierarchy `json:"hierarchy"`
	RelevanceScore float64           `json:"relevanceScore"`
}

// MapLocationType tags the origin of a map marker row.
type MapLocationType string

const (
	MapLocationSearch  MapLocationType = "search"
	MapLocationNearby  MapLocationType = "nearby"
	MapLocationListing MapLocationType = "listing"
	MapLocationUser    MapLocationType = "user"
)

// MapLocation is one nearby-search row.
type MapLocation struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Coordinates    Coordinates     `json:"coordinates"`
	PostalCode     string          `json:"postalCode,omitempty"`
	Country        string          `json:"country"`
	Region         string          `json:"region,omitempty"`
	District       string          `json:"district,omitempty"`
	Type           MapLocationType `json:"type"`
	DistanceKm     *float64        `json:"distance,omitempty"`
	RelevanceScore float64         `json:"relevanceScore,omitempty"`
}

// MapBounds is a viewport box in degrees, padded so markers at the edge are
// not clipped.
type MapBounds struct {
	North float64 `json:"north"`
	South float64 `json:"south"`
	East  float64 `json:"east"`
	West  float64 `json:"west"`
}

// NearbySearchResponse is the full result of a radius query. TotalFound counts
// the merged candidates before truncation so callers can show "more results".
type NearbySearchResponse struct {
	Locations  []MapLocation `json:"locations"`
	Center     Coordinates   `json:"center"`
	Bounds     MapBounds     `json:"bounds"`
	TotalFound int           `json:"totalFound"`
}

// PostalCodeLookupResult is one row of the external postal index.
type PostalCodeLookupResult struct {
	PostalCode  string      `json:"postalCode"`
	City        string      `json:"city"`
	Region      string      `json:"region,omitempty"`
	District    string      `json:"district,omitempty"`
	CountryCode string      `json:"countryCode"`
	Coordinates Coordinates `json:"coordinates"`
	Confidence  float64     `json:"confidence"`
}

// CityLookupResult groups all postal codes sharing one (city, region) pair.
type CityLookupResult struct {
	City        string      `json:"city"`
	Region      string      `json:"region,omitempty"`
	CountryCode string      `json:"countryCode"`
	PostalCodes []string    `json:"postalCodes"`
	Coordinates Coordinates `json:"coordinates"`
	Confidence  float64     `json:"confidence"`
}

// RegionLookupResult summarizes one region: member cities, a compressed view
// of its postal codes and the centroid of all member coordinates.
type RegionLookupResult struct {
	Region            string      `json:"region"`
	CountryCode       string      `json:"countryCode"`
	Cities            []string    `json:"cities"`
	PostalCodeSummary []string    `json:"postalCodeSummary"`
	Centroid          Coordinates `json:"centroid"`
	Confidence        float64     `json:"confidence"`
}
