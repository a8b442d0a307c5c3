package models

// Weather is the current-conditions record served to callers and stored in the
// cache. Its JSON encoding is the cache entry wire format, so tag changes
// invalidate existing entries.
type Weather struct {
	Location  string  `json:"location"`
	Region    string  `json:"region"`
	TempC     float64 `json:"temp_c"`
	Condition string  `json:"condition"`
}
