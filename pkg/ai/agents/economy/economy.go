package economy

import (
	"context"
	"encoding/json"

	"github.com/samber/lo"
	"github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"

	"github.com/swgwatch/swgwatch/app/core"
	v1 "github.com/swgwatch/swgwatch/app/logic/v1"
)

// EconomyAgent exposes read-only economy summaries as assistant tools.
// Every tool is a pure read; the assistant can never mutate tracker
// state through this surface.
type EconomyAgent struct {
	core *core.Core
}

func NewEconomyAgent(core *core.Core) *EconomyAgent {
	return &EconomyAgent{core: core}
}

var FunctionDefine = lo.Map([]*openai.FunctionDefinition{
	{
		Name:        "lookupResource",
		Description: "Look up one harvestable resource by its spawn name and return its stats, class path and spawn state",
		Parameters: jsonschema.Definition{
			Type: jsonschema.Object,
			Properties: map[string]jsonschema.Definition{
				"name": {
					Type:        jsonschema.String,
					Description: "The resource spawn name, e.g. Polysteel Copper",
				},
			},
			Required: []string{"name"},
		},
	},
	{
		Name:        "resourceInventory",
		Description: "Summarize what is currently spawned: totals, counts per class and the highest quality spawns",
		Parameters: jsonschema.Definition{
			Type: jsonschema.Object,
			Properties: map[string]jsonschema.Definition{
				"top": {
					Type:        jsonschema.Integer,
					Description: "How many top quality spawns to include, default 10",
				},
			},
		},
	},
	{
		Name:        "recentSales",
		Description: "Summarize extracted sale events: total credits, category/tier breakdown and the most recent sales",
		Parameters: jsonschema.Definition{
			Type: jsonschema.Object,
			Properties: map[string]jsonschema.Definition{
				"recent": {
					Type:        jsonschema.Integer,
					Description: "How many recent sales to include, default 20",
				},
			},
		},
	},
}, func(item *openai.FunctionDefinition, _ int) openai.Tool {
	return openai.Tool{
		Type:     openai.ToolTypeFunction,
		Function: item,
	}
})

// HandleToolCall dispatches one assistant function call and returns the
// tool result as a JSON string.
func (a *EconomyAgent) HandleToolCall(ctx context.Context, funcCall openai.FunctionCall) (string, error) {
	switch funcCall.Name {
	case "lookupResource":
		return a.lookupResource(ctx, funcCall)
	case "resourceInventory":
		return a.resourceInventory(ctx, funcCall)
	case "recentSales":
		return a.recentSales(ctx, funcCall)
	default:
		return "", nil
	}
}

func (a *EconomyAgent) lookupResource(ctx context.Context, funcCall openai.FunctionCall) (string, error) {
	var params struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal([]byte(funcCall.Arguments), &params); err != nil {
		return "", err
	}

	resource, err := v1.NewResourceLogic(ctx, a.core).GetResourceByName(params.Name)
	if err != nil {
		return "", err
	}
	return marshal(resource)
}

func (a *EconomyAgent) resourceInventory(ctx context.Context, funcCall openai.FunctionCall) (string, error) {
	var params struct {
		Top uint64 `json:"top"`
	}
	if err := json.Unmarshal([]byte(funcCall.Arguments), &params); err != nil {
		return "", err
	}

	snapshot, err := v1.NewStatsLogic(ctx, a.core).InventorySnapshot(params.Top)
	if err != nil {
		return "", err
	}
	return marshal(snapshot)
}

func (a *EconomyAgent) recentSales(ctx context.Context, funcCall openai.FunctionCall) (string, error) {
	var params struct {
		Recent uint64 `json:"recent"`
	}
	if err := json.Unmarshal([]byte(funcCall.Arguments), &params); err != nil {
		return "", err
	}

	snapshot, err := v1.NewStatsLogic(ctx, a.core).SalesSnapshot(0, params.Recent)
	if err != nil {
		return "", err
	}
	return marshal(snapshot)
}

func marshal(v interface{}) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
