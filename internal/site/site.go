// Package site provides the observation site registry.
package site

import (
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Site is a ground-based observation site. Longitude is east-positive
// degrees, latitude north-positive degrees, elevation meters above sea level.
type Site struct {
	Name      string  `yaml:"name"`
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
	Elevation float64 `yaml:"elevation"`
}

// Built-in sites. Coordinates are the published array centers.
var builtin = map[string]Site{
	"HESS":    {Name: "HESS", Latitude: -23.27178, Longitude: 16.50022, Elevation: 1835},
	"VERITAS": {Name: "VERITAS", Latitude: 31.67500, Longitude: -110.95194, Elevation: 1268},
	"MAGIC":   {Name: "MAGIC", Latitude: 28.76194, Longitude: -17.89000, Elevation: 2200},
}

// Catalog maps site keys to sites. The zero value is not usable; construct
// with Default or Load.
type Catalog struct {
	sites map[string]Site
}

// Default returns a catalog containing only the built-in sites.
func Default() *Catalog {
	c := &Catalog{sites: make(map[string]Site, len(builtin))}
	for k, s := range builtin {
		c.sites[k] = s
	}
	return c
}

// Load returns the default catalog merged with user sites from a YAML file.
// User entries override built-ins with the same key. The file is a mapping
// from site key to {name, latitude, longitude, elevation}; a missing name
// defaults to the key.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read site catalog: %w", err)
	}
	var extra map[string]Site
	if err := yaml.Unmarshal(data, &extra); err != nil {
		return nil, fmt.Errorf("parse site catalog %s: %w", path, err)
	}
	c := Default()
	for k, s := range extra {
		key := strings.ToUpper(k)
		if s.Name == "" {
			s.Name = key
		}
		if s.Latitude < -90 || s.Latitude > 90 {
			return nil, fmt.Errorf("site %s: latitude %v out of range", key, s.Latitude)
		}
		if s.Longitude < -180 || s.Longitude > 360 {
			return nil, fmt.Errorf("site %s: longitude %v out of range", key, s.Longitude)
		}
		c.sites[key] = s
	}
	return c, nil
}

// Lookup returns the site for a key, case-insensitively.
func (c *Catalog) Lookup(key string) (Site, error) {
	s, ok := c.sites[strings.ToUpper(key)]
	if !ok {
		return Site{}, fmt.Errorf("unknown site %q (valid: %s)", key, strings.Join(c.Names(), ", "))
	}
	return s, nil
}

// Names returns the site keys in sorted order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.sites))
	for k := range c.sites {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// MidnightHour returns the UTC hour closest to local solar midnight at the
// site, used as the default plot center.
func (s Site) MidnightHour() int {
	h := math.Round(24 - s.Longitude/15)
	return int(math.Mod(math.Mod(h, 24)+24, 24))
}
