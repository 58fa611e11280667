package types

// ApplicationMetadata describes one application as published to relays.
//
// ID is a reverse-domain identifier (e.g. "com.example.app"). It must stay the
// same across republishes: consumers use it to recognise updates.
type ApplicationMetadata struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description,omitempty" yaml:"description"`
	Icon        string   `json:"icon,omitempty" yaml:"icon"`
	Images      []string `json:"images,omitempty" yaml:"images"`
	Repository  string   `json:"repository,omitempty" yaml:"repository"`
	License     string   `json:"license,omitempty" yaml:"license"`
	Tags        []string `json:"tags,omitempty" yaml:"tags"`
}
