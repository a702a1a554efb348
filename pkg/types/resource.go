package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/lib/pq"
)

// StatNames lists the eleven resource stats in feed order.
var StatNames = []string{"cr", "cd", "dr", "er", "fl", "hr", "ma", "oq", "pe", "sr", "ut"}

// ResourceStats holds the fixed-schema stat block. A nil field means the
// stat does not apply to this resource; it is never zero-filled.
type ResourceStats struct {
	CR *int `json:"cr,omitempty" db:"cr"`
	CD *int `json:"cd,omitempty" db:"cd"`
	DR *int `json:"dr,omitempty" db:"dr"`
	ER *int `json:"er,omitempty" db:"er"`
	FL *int `json:"fl,omitempty" db:"fl"`
	HR *int `json:"hr,omitempty" db:"hr"`
	MA *int `json:"ma,omitempty" db:"ma"`
	OQ *int `json:"oq,omitempty" db:"oq"`
	PE *int `json:"pe,omitempty" db:"pe"`
	SR *int `json:"sr,omitempty" db:"sr"`
	UT *int `json:"ut,omitempty" db:"ut"`
}

// Get returns the named stat and whether it is present.
func (s ResourceStats) Get(name string) (int, bool) {
	var p *int
	switch name {
	case "cr":
		p = s.CR
	case "cd":
		p = s.CD
	case "dr":
		p = s.DR
	case "er":
		p = s.ER
	case "fl":
		p = s.FL
	case "hr":
		p = s.HR
	case "ma":
		p = s.MA
	case "oq":
		p = s.OQ
	case "pe":
		p = s.PE
	case "sr":
		p = s.SR
	case "ut":
		p = s.UT
	}
	if p == nil {
		return 0, false
	}
	return *p, true
}

// Set assigns the named stat. Unknown names are ignored.
func (s *ResourceStats) Set(name string, value int) {
	v := value
	switch name {
	case "cr":
		s.CR = &v
	case "cd":
		s.CD = &v
	case "dr":
		s.DR = &v
	case "er":
		s.ER = &v
	case "fl":
		s.FL = &v
	case "hr":
		s.HR = &v
	case "ma":
		s.MA = &v
	case "oq":
		s.OQ = &v
	case "pe":
		s.PE = &v
	case "sr":
		s.SR = &v
	case "ut":
		s.UT = &v
	}
}

// PlanetConcentration maps planet name to spawn concentration percent.
type PlanetConcentration map[string]float64

func (p PlanetConcentration) Value() (driver.Value, error) {
	if p == nil {
		return "{}", nil
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

func (p *PlanetConcentration) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*p = PlanetConcentration{}
		return nil
	case []byte:
		return json.Unmarshal(v, p)
	case string:
		return json.Unmarshal([]byte(v), p)
	default:
		return fmt.Errorf("unsupported scan type %T for PlanetConcentration", src)
	}
}

// PersistedResource is a harvestable resource tracked across sync cycles.
// Resources are never hard-deleted: dropping out of a snapshot only flips
// IsSpawned and stamps DespawnAt, so history stays queryable.
type PersistedResource struct {
	ID        int64  `json:"id" db:"id"`
	Name      string `json:"name" db:"name"`
	TypeLabel string `json:"type_label" db:"type_label"`
	ClassID   string `json:"class_id" db:"class_id"`

	// ClassPath is the ordered ancestor class names, root first.
	ClassPath pq.StringArray `json:"class_path" db:"class_path"`

	ResourceStats `json:"stats"`

	Planets PlanetConcentration `json:"planets" db:"planets"`

	IsSpawned bool  `json:"is_spawned" db:"is_spawned"`
	EnterAt   int64 `json:"enter_at" db:"enter_at"`
	// DespawnAt is 0 while the resource is spawned.
	DespawnAt int64 `json:"despawn_at" db:"despawn_at"`
	// LastEnrichedAt is 0 until the first successful enrichment.
	LastEnrichedAt int64 `json:"last_enriched_at" db:"last_enriched_at"`

	QualityScore     float64        `json:"quality_score" db:"quality_score"`
	BestUses         pq.StringArray `json:"best_uses" db:"best_uses"`
	AvgConcentration float64        `json:"avg_concentration" db:"avg_concentration"`

	CreatedAt int64 `json:"created_at" db:"created_at"`
	UpdatedAt int64 `json:"updated_at" db:"updated_at"`
}

// ListResourceOptions filters resource list queries.
type ListResourceOptions struct {
	SpawnedOnly bool
	ClassID     string
	NameLike    string
}

// ReconcileResult counts the outcome of one reconciliation pass.
type ReconcileResult struct {
	Inserted  int64 `json:"inserted"`
	Updated   int64 `json:"updated"`
	Despawned int64 `json:"despawned"`
	Skipped   int64 `json:"skipped"`
}
