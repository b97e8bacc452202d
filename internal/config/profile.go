package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// BusinessProfile holds the shop-specific text fed into the sales prompt.
type BusinessProfile struct {
	BusinessName string   `yaml:"business_name"`
	AgentName    string   `yaml:"agent_name"`
	Location     string   `yaml:"location"`
	PricingRules []string `yaml:"pricing_rules"`
	ExtraRules   []string `yaml:"extra_rules"`
}

// DefaultPricingRules is the negotiation policy used when the profile file sets none.
var DefaultPricingRules = []string{
	"Listed price is final for single items; offer free delivery inside Kathmandu valley instead of discounts",
	"For 2 or more items you may offer up to 10% off the total",
	"Never go below the listed price minus 10%",
	"If a regular price is listed, remind the customer how much they already save",
}

// LoadProfile reads a YAML business profile and overlays it on base.
// Empty fields in the file keep the base values.
func LoadProfile(path string, base BusinessProfile) (BusinessProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("failed to read business profile: %w", err)
	}

	var file BusinessProfile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return base, fmt.Errorf("failed to parse business profile: %w", err)
	}

	out := base
	if file.BusinessName != "" {
		out.BusinessName = file.BusinessName
	}
	if file.AgentName != "" {
		out.AgentName = file.AgentName
	}
	if file.Location != "" {
		out.Location = file.Location
	}
	if len(file.PricingRules) > 0 {
		out.PricingRules = file.PricingRules
	}
	if len(file.ExtraRules) > 0 {
		out.ExtraRules = file.ExtraRules
	}
	return out, nil
}

// WithDefaults fills unset profile fields.
func (p BusinessProfile) WithDefaults() BusinessProfile {
	if p.BusinessName == "" {
		p.BusinessName = "Nepal Fashion Store"
	}
	if p.AgentName == "" {
		p.AgentName = "Maya"
	}
	if p.Location == "" {
		p.Location = "Nepal"
	}
	if len(p.PricingRules) == 0 {
		p.PricingRules = DefaultPricingRules
	}
	return p
}
