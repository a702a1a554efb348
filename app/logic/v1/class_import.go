package v1

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/swgwatch/swgwatch/app/core"
	"github.com/swgwatch/swgwatch/app/store"
	"github.com/swgwatch/swgwatch/pkg/errors"
	"github.com/swgwatch/swgwatch/pkg/galaxy"
	"github.com/swgwatch/swgwatch/pkg/types"
)

// maxTreeDepth caps ancestor walks so corrupt parent pointers cannot
// loop forever.
const maxTreeDepth = 32

// ClassTreeLogic imports and queries the resource classification
// hierarchy. The source publishes complete tree snapshots, so each import
// replaces the whole table instead of diffing.
type ClassTreeLogic struct {
	ctx   context.Context
	core  *core.Core
	fresh *FreshnessLogic
}

func NewClassTreeLogic(ctx context.Context, core *core.Core) *ClassTreeLogic {
	return &ClassTreeLogic{
		ctx:   ctx,
		core:  core,
		fresh: NewFreshnessLogic(ctx, core),
	}
}

// SyncResourceTree refreshes the hierarchy dataset when it is stale.
func (l *ClassTreeLogic) SyncResourceTree(force bool) (int64, error) {
	dataset := types.DATASET_RESOURCE_TREE

	if !force {
		fresh, ageHours, err := l.fresh.IsFresh(dataset, l.core.Cfg().Sync.TreeTTL())
		if err != nil {
			return 0, err
		}
		if fresh {
			slog.Debug("resource tree still fresh, skipping import",
				slog.Float64("age_hours", ageHours))
			l.core.Metrics().SyncSkippedInc(dataset, "fresh")
			return 0, nil
		}
	}

	timer := l.core.Metrics().SyncTimer(dataset)
	defer timer.ObserveDuration()

	root, err := l.core.Fetcher().FetchAndDecode(l.ctx, l.core.Cfg().Galaxy.ResourceTreeURL)
	if err != nil {
		slog.Error("failed to fetch resource tree feed",
			slog.String("url", l.core.Cfg().Galaxy.ResourceTreeURL),
			slog.String("error", err.Error()))
		l.core.Metrics().SyncSkippedInc(dataset, "fetch_failed")
		return 0, errors.New("ClassTreeLogic.SyncResourceTree.FetchAndDecode", errors.ERROR_INTERNAL, err)
	}

	tree := galaxy.DecodeResourceTree(root)
	count, err := l.ImportTree(tree.Entries, tree.Timestamp)
	if err != nil {
		return 0, err
	}

	if err := l.fresh.Touch(dataset, time.Now().Unix()); err != nil {
		return 0, err
	}

	slog.Info("resource tree imported", slog.Int64("nodes", count))
	return count, nil
}

// ImportTree replaces the persisted hierarchy with the given snapshot:
// clear, then insert each node parent-first, assigning depth from the
// parent already inserted in this pass. Clear and insert share one
// transaction, so readers never see an empty or half-built tree.
func (l *ClassTreeLogic) ImportTree(entries []galaxy.ClassTreeEntry, sourceTime int64) (int64, error) {
	now := time.Now().Unix()
	var count int64

	err := l.core.Store().Transaction(l.ctx, func(ctx context.Context) error {
		if err := l.core.Store().ResourceClassStore().DeleteAll(ctx); err != nil {
			return err
		}

		depths := make(map[string]int, len(entries))
		for _, entry := range entries {
			if entry.ID == "" || strings.TrimSpace(entry.Name) == "" {
				continue
			}

			depth := 0
			if entry.ParentID != "" {
				parentDepth, ok := depths[entry.ParentID]
				if !ok {
					// Parent was skipped or the feed broke its own DFS
					// order; this subtree cannot be anchored.
					continue
				}
				depth = parentDepth + 1
			}
			depths[entry.ID] = depth

			node := types.ResourceClassNode{
				ID:        entry.ID,
				NumericID: entry.NumericID,
				Name:      entry.Name,
				ParentID:  entry.ParentID,
				Depth:     depth,
				Recycled:  flagToBool(entry.Recycled, false),
				Harvested: flagToBool(entry.Harvested, true),
				Ranges:    entry.Ranges,
				CreatedAt: now,
			}
			if err := l.core.Store().ResourceClassStore().Create(ctx, node); err != nil {
				return err
			}
			count++
		}

		return l.core.Store().TreeMetadataStore().Upsert(ctx, types.TreeMetadata{
			SourceTime: sourceTime,
			NodeCount:  count,
			ImportedAt: now,
		})
	})
	if err != nil {
		return 0, errors.New("ClassTreeLogic.ImportTree.Transaction", errors.ERROR_INTERNAL, err)
	}
	return count, nil
}

// flagToBool converts the feed's yes/no flag strings. Anything else falls
// back to def; harvested defaults true unless explicitly "no".
func flagToBool(raw string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "yes":
		return true
	case "no":
		return false
	default:
		return def
	}
}

func (l *ClassTreeLogic) GetNode(id string) (*types.ResourceClassNode, error) {
	node, err := l.core.Store().ResourceClassStore().Get(l.ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.New("ClassTreeLogic.GetNode.NotFound", errors.ERROR_NOT_FOUND, err).Code(404)
		}
		return nil, errors.New("ClassTreeLogic.GetNode.ResourceClassStore.Get", errors.ERROR_INTERNAL, err)
	}
	return node, nil
}

func (l *ClassTreeLogic) GetChildren(parentID string) ([]*types.ResourceClassNode, error) {
	children, err := l.core.Store().ResourceClassStore().ListChildren(l.ctx, parentID)
	if err != nil && err != sql.ErrNoRows {
		return nil, errors.New("ClassTreeLogic.GetChildren.ResourceClassStore.ListChildren", errors.ERROR_INTERNAL, err)
	}
	return children, nil
}

// GetAncestorPath returns class names ordered root to leaf.
func (l *ClassTreeLogic) GetAncestorPath(id string) ([]string, error) {
	path, err := ancestorPath(l.ctx, l.core.Store().ResourceClassStore(), id)
	if err != nil {
		return nil, errors.New("ClassTreeLogic.GetAncestorPath", errors.ERROR_INTERNAL, err)
	}
	return path, nil
}

// SearchByName ranks exact-prefix matches above substring matches.
func (l *ClassTreeLogic) SearchByName(term string, limit uint64) ([]types.ClassMatch, error) {
	if strings.TrimSpace(term) == "" {
		return nil, errors.New("ClassTreeLogic.SearchByName.EmptyTerm", errors.ERROR_INVALIDARGUMENT, nil).Code(400)
	}
	if limit == 0 {
		limit = 20
	}

	prefix, err := l.core.Store().ResourceClassStore().ListByNamePrefix(l.ctx, term, limit)
	if err != nil && err != sql.ErrNoRows {
		return nil, errors.New("ClassTreeLogic.SearchByName.ListByNamePrefix", errors.ERROR_INTERNAL, err)
	}

	matches := lo.Map(prefix, func(n *types.ResourceClassNode, _ int) types.ClassMatch {
		return types.ClassMatch{Node: n, Exact: true}
	})

	if uint64(len(matches)) < limit {
		sub, err := l.core.Store().ResourceClassStore().ListByNameSubstring(l.ctx, term, limit-uint64(len(matches)))
		if err != nil && err != sql.ErrNoRows {
			return nil, errors.New("ClassTreeLogic.SearchByName.ListByNameSubstring", errors.ERROR_INTERNAL, err)
		}
		for _, n := range sub {
			matches = append(matches, types.ClassMatch{Node: n, Exact: false})
		}
	}
	return matches, nil
}

// ancestorPath walks parent pointers up from id and returns node names
// root first. Unknown ids resolve to an empty path rather than an error;
// a resource can reference a class the last import never delivered.
func ancestorPath(ctx context.Context, classStore store.ResourceClassStore, id string) ([]string, error) {
	var names []string
	current := id
	for i := 0; i < maxTreeDepth && current != ""; i++ {
		node, err := classStore.Get(ctx, current)
		if err != nil {
			if err == sql.ErrNoRows {
				break
			}
			return nil, err
		}
		names = append(names, node.Name)
		current = node.ParentID
	}
	return lo.Reverse(names), nil
}
