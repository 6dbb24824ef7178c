package geocode

// Coordinate is a validated geographic position.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// ResolvedPlace pairs a normalized place name with its coordinate.
type ResolvedPlace struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

// oracleResult mirrors the relevant parts of the Nominatim search payload.
// Latitude and longitude arrive as strings and are parsed downstream.
type oracleResult struct {
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
}
