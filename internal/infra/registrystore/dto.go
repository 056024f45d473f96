package registrystore

import (
	"fmt"
	"time"

	"github.com/AustinGrey/bake-file/internal/domain"
	"github.com/shopspring/decimal"
)

// snapshotDTO is the on-disk form shared by the bolt (msgpack) and JSON
// stores. Multipliers are decimal strings.
type snapshotDTO struct {
	ID            string      `msgpack:"id" json:"id"`
	Name          string      `msgpack:"name" json:"name"`
	CreatedAt     time.Time   `msgpack:"created_at" json:"created_at"`
	Prefixes      string      `msgpack:"prefixes" json:"prefixes"`
	Records       []recordDTO `msgpack:"records" json:"records"`
	Unconvertible []string    `msgpack:"unconvertible,omitempty" json:"unconvertible,omitempty"`
}

type recordDTO struct {
	Unit       string `msgpack:"unit" json:"unit"`
	Dimension  string `msgpack:"dimension" json:"dimension"`
	Multiplier string `msgpack:"multiplier" json:"multiplier"`
	Via        string `msgpack:"via,omitempty" json:"via,omitempty"`
}

func toDTO(s domain.RegistrySnapshot) snapshotDTO {
	out := snapshotDTO{
		ID:            s.ID,
		Name:          s.Name,
		CreatedAt:     s.CreatedAt.UTC(),
		Prefixes:      string(s.Prefixes),
		Records:       make([]recordDTO, 0, len(s.Records)),
		Unconvertible: append([]string(nil), s.Unconvertible...),
	}
	for _, r := range s.Records {
		out.Records = append(out.Records, recordDTO{
			Unit:       r.Unit,
			Dimension:  string(r.Dimension),
			Multiplier: r.Multiplier.String(),
			Via:        r.Via,
		})
	}
	return out
}

func fromDTO(d snapshotDTO) (domain.RegistrySnapshot, error) {
	out := domain.RegistrySnapshot{
		ID:            d.ID,
		Name:          d.Name,
		CreatedAt:     d.CreatedAt.UTC(),
		Prefixes:      domain.PrefixSet(d.Prefixes),
		Records:       make([]domain.ConversionRecord, 0, len(d.Records)),
		Unconvertible: d.Unconvertible,
	}
	for i, r := range d.Records {
		m, err := decimal.NewFromString(r.Multiplier)
		if err != nil {
			return domain.RegistrySnapshot{}, fmt.Errorf("records[%d] (%s): multiplier %q: %w", i, r.Unit, r.Multiplier, err)
		}
		dim := domain.Dimension(r.Dimension)
		if dim != domain.DimensionMass && dim != domain.DimensionVolume {
			return domain.RegistrySnapshot{}, fmt.Errorf("records[%d] (%s): unknown dimension %q", i, r.Unit, r.Dimension)
		}
		out.Records = append(out.Records, domain.ConversionRecord{
			Unit:       r.Unit,
			Dimension:  dim,
			Multiplier: m,
			Via:        r.Via,
		})
	}
	return out, nil
}
