// Package geoimport converts polygon shapefiles into neighborhood
// fixture files shaped like the scoring API's score endpoint output,
// for seeding local development and viewer demos.
package geoimport

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Manifest drives a batch conversion.
type Manifest struct {
	Fixtures []Fixture `yaml:"fixtures"`
}

// Fixture describes one shapefile to convert.
type Fixture struct {
	Shapefile string `yaml:"shapefile"`
	IDField   string `yaml:"id_field"`
	NameField string `yaml:"name_field"`
	Out       string `yaml:"out"`
}

// LoadManifest reads and validates a YAML manifest.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "geoimport: read manifest")
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, eris.Wrap(err, "geoimport: parse manifest")
	}

	if len(m.Fixtures) == 0 {
		return nil, eris.New("geoimport: manifest lists no fixtures")
	}
	for i, f := range m.Fixtures {
		if f.Shapefile == "" {
			return nil, eris.Errorf("geoimport: fixture %d missing shapefile", i)
		}
		if f.IDField == "" {
			return nil, eris.Errorf("geoimport: fixture %d missing id_field", i)
		}
		if f.Out == "" {
			return nil, eris.Errorf("geoimport: fixture %d missing out path", i)
		}
	}
	return &m, nil
}
