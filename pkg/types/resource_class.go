package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StatRange is the min/max cap a resource class allows for one stat.
type StatRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// StatRangeMap maps stat name to its class cap. Stored as jsonb.
type StatRangeMap map[string]StatRange

func (m StatRangeMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

func (m *StatRangeMap) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*m = StatRangeMap{}
		return nil
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return fmt.Errorf("unsupported scan type %T for StatRangeMap", src)
	}
}

// ResourceClassNode is one node of the resource classification tree.
// ID is the stable string id from the tree feed; NumericID is the separate
// id the enrichment interface uses to reference classes.
type ResourceClassNode struct {
	ID        string       `json:"id" db:"id"`
	NumericID int64        `json:"numeric_id" db:"numeric_id"`
	Name      string       `json:"name" db:"name"`
	ParentID  string       `json:"parent_id" db:"parent_id"` // empty for roots
	Depth     int          `json:"depth" db:"depth"`
	Recycled  bool         `json:"recycled" db:"recycled"`
	Harvested bool         `json:"harvested" db:"harvested"`
	Ranges    StatRangeMap `json:"ranges" db:"ranges"`
	CreatedAt int64        `json:"created_at" db:"created_at"`
}

// TreeMetadata records the provenance of the last hierarchy import.
type TreeMetadata struct {
	ID         int   `json:"id" db:"id"`
	SourceTime int64 `json:"source_time" db:"source_time"`
	NodeCount  int64 `json:"node_count" db:"node_count"`
	ImportedAt int64 `json:"imported_at" db:"imported_at"`
}

// ClassMatch is one ranked result of a class name search.
type ClassMatch struct {
	Node  *ResourceClassNode `json:"node"`
	Exact bool               `json:"exact"` // prefix match, ranked first
}
