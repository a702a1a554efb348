package galaxy

import (
	"strconv"
	"strings"
	"time"

	"github.com/swgwatch/swgwatch/pkg/types"
)

// ResourceSnapshotEntry is one resource from a current-spawn feed.
type ResourceSnapshotEntry struct {
	ID        int64
	Name      string
	TypeLabel string
	ClassID   string
	Stats     types.ResourceStats
	Planets   types.PlanetConcentration
}

// ResourceSnapshot is a decoded point-in-time view of what exists right
// now at the source.
type ResourceSnapshot struct {
	Timestamp int64
	Entries   []ResourceSnapshotEntry
}

// DecodeCurrentResources walks a decoded current-spawn feed. Entries
// missing a usable id or name are dropped here; a partially bad feed is
// not fatal to the batch.
func DecodeCurrentResources(root *Node) *ResourceSnapshot {
	snapshot := &ResourceSnapshot{}

	if ts := root.Attr("timestamp"); ts != "" {
		if v, err := strconv.ParseInt(ts, 10, 64); err == nil {
			snapshot.Timestamp = v
		}
	}
	if snapshot.Timestamp == 0 {
		snapshot.Timestamp = time.Now().Unix()
	}

	for _, res := range root.ChildList("resource") {
		entry, ok := decodeResourceEntry(res)
		if !ok {
			continue
		}
		snapshot.Entries = append(snapshot.Entries, entry)
	}
	return snapshot
}

func decodeResourceEntry(res *Node) (ResourceSnapshotEntry, bool) {
	var entry ResourceSnapshotEntry

	idText := res.ChildText("id")
	if idText == "" {
		idText = res.Attr("id")
	}
	id, err := strconv.ParseInt(idText, 10, 64)
	if err != nil || id <= 0 {
		return entry, false
	}
	name := res.ChildText("name")
	if name == "" {
		return entry, false
	}

	entry.ID = id
	entry.Name = name
	entry.TypeLabel = res.ChildText("type")
	entry.ClassID = res.ChildText("type_id")

	// Stats may come as a nested block or as direct children; missing
	// stats stay absent rather than zero.
	statsNode := res.Child("stats")
	if statsNode == nil {
		statsNode = res
	}
	for _, stat := range types.StatNames {
		if v, ok := statsNode.Child(stat).IntText(); ok {
			entry.Stats.Set(stat, v)
		}
	}

	entry.Planets = types.PlanetConcentration{}
	if planets := res.Child("planets"); planets != nil {
		for _, p := range planets.ChildList("planet") {
			name := p.Attr("name")
			if name == "" {
				name = p.ChildText("name")
			}
			if name == "" {
				continue
			}
			conc := 0.0
			if c := p.Attr("c"); c != "" {
				conc, _ = strconv.ParseFloat(c, 64)
			} else if c := p.ChildText("concentration"); c != "" {
				conc, _ = strconv.ParseFloat(c, 64)
			}
			entry.Planets[strings.ToLower(name)] = conc
		}
	}

	return entry, true
}

// ClassTreeEntry is one node of the class tree feed, flattened in
// depth-first order so every entry's parent precedes it.
type ClassTreeEntry struct {
	ID        string
	NumericID int64
	Name      string
	ParentID  string
	Depth     int
	// Recycled and Harvested keep the feed's raw "yes"/"no" strings;
	// the importer owns the boolean conversion.
	Recycled  string
	Harvested string
	Ranges    types.StatRangeMap
}

// ClassTree is the decoded hierarchy snapshot.
type ClassTree struct {
	Timestamp int64
	Entries   []ClassTreeEntry
}

// DecodeResourceTree flattens a decoded class tree feed. Nodes without a
// usable string id are skipped along with their subtrees, since children
// could not reference a parent that was never stored.
func DecodeResourceTree(root *Node) *ClassTree {
	tree := &ClassTree{}

	if ts := root.Attr("timestamp"); ts != "" {
		if v, err := strconv.ParseInt(ts, 10, 64); err == nil {
			tree.Timestamp = v
		}
	}
	if tree.Timestamp == 0 {
		tree.Timestamp = time.Now().Unix()
	}

	for _, child := range root.ChildList("resource_type") {
		flattenClassNode(child, "", 0, tree)
	}
	return tree
}

func flattenClassNode(node *Node, parentID string, depth int, tree *ClassTree) {
	id := node.Attr("id")
	if id == "" {
		return
	}

	entry := ClassTreeEntry{
		ID:        id,
		Name:      node.Attr("name"),
		ParentID:  parentID,
		Depth:     depth,
		Recycled:  node.Attr("recycled"),
		Harvested: node.Attr("harvested"),
		Ranges:    types.StatRangeMap{},
	}
	if entry.Name == "" {
		entry.Name = node.ChildText("name")
	}
	if nid := node.Attr("swgcraft_id"); nid != "" {
		entry.NumericID, _ = strconv.ParseInt(nid, 10, 64)
	}

	for _, cap := range node.ChildList("cap") {
		stat := strings.ToLower(cap.Attr("stat"))
		if stat == "" {
			continue
		}
		min, _ := cap.IntAttr("min")
		max, ok := cap.IntAttr("max")
		if !ok {
			continue
		}
		entry.Ranges[stat] = types.StatRange{Min: min, Max: max}
	}

	tree.Entries = append(tree.Entries, entry)

	for _, child := range node.ChildList("resource_type") {
		flattenClassNode(child, id, depth+1, tree)
	}
}
