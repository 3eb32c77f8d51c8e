// Package catalog lists the localities where pickups can be scheduled.
package catalog

import (
	"encoding/json"
	"strings"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
)

// Locality is a municipality served by the collection network, with an
// approximate centroid in WGS84.
type Locality struct {
	Name     string
	Centroid *geom.Point
}

func locality(name string, lat, lng float64) Locality {
	return Locality{
		Name:     name,
		Centroid: geom.NewPointFlat(geom.XY, []float64{lng, lat}).SetSRID(4326),
	}
}

var localities = []Locality{
	locality("Medellín", 6.2442, -75.5812),
	locality("Bello", 6.3373, -75.5579),
	locality("Itagüí", 6.1719, -75.6114),
	locality("Envigado", 6.1759, -75.5917),
	locality("Sabaneta", 6.1515, -75.6166),
	locality("La Estrella", 6.1576, -75.6434),
	locality("Caldas", 6.0911, -75.6357),
	locality("Copacabana", 6.3463, -75.5089),
	locality("Girardota", 6.3794, -75.4456),
	locality("Barbosa", 6.4389, -75.3331),
}

// Localities returns the catalog in display order.
func Localities() []Locality {
	out := make([]Locality, len(localities))
	copy(out, localities)
	return out
}

// Lookup finds a locality by name, ignoring case and surrounding space.
func Lookup(name string) (Locality, bool) {
	name = strings.TrimSpace(name)
	for _, l := range localities {
		if strings.EqualFold(l.Name, name) {
			return l, true
		}
	}
	return Locality{}, false
}

// FeatureCollection renders the catalog as GeoJSON point features.
func FeatureCollection() *geojson.FeatureCollection {
	fc := &geojson.FeatureCollection{Features: make([]*geojson.Feature, 0, len(localities))}
	for _, l := range localities {
		fc.Features = append(fc.Features, &geojson.Feature{
			ID:       l.Name,
			Geometry: l.Centroid,
			Properties: map[string]interface{}{
				"name": l.Name,
			},
		})
	}
	return fc
}

// MarshalGeoJSON encodes FeatureCollection.
func MarshalGeoJSON() ([]byte, error) {
	return json.Marshal(FeatureCollection())
}
