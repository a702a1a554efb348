package handler

import (
	"encoding/json"

	"github.com/gin-gonic/gin"
	"github.com/sashabaranov/go-openai"

	"github.com/swgwatch/swgwatch/app/response"
	"github.com/swgwatch/swgwatch/pkg/ai/agents/economy"
	"github.com/swgwatch/swgwatch/pkg/errors"
	"github.com/swgwatch/swgwatch/pkg/utils"
)

// ListAssistantTools returns the tool definitions an external assistant
// registers against this service.
func (s *HttpSrv) ListAssistantTools(c *gin.Context) {
	response.APISuccess(c, economy.FunctionDefine)
}

type AssistantToolCallRequest struct {
	Name      string          `json:"name" binding:"required"`
	Arguments json.RawMessage `json:"arguments"`
}

type AssistantToolCallResponse struct {
	Result string `json:"result"`
}

// CallAssistantTool executes one tool call on behalf of the assistant.
// All tools are read-only summaries.
func (s *HttpSrv) CallAssistantTool(c *gin.Context) {
	var req AssistantToolCallRequest
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	args := string(req.Arguments)
	if args == "" {
		args = "{}"
	}

	agent := economy.NewEconomyAgent(s.Core)
	result, err := agent.HandleToolCall(c.Request.Context(), openai.FunctionCall{
		Name:      req.Name,
		Arguments: args,
	})
	if err != nil {
		response.APIError(c, err)
		return
	}
	if result == "" {
		response.APIError(c, errors.New("handler.CallAssistantTool.UnknownTool", errors.ERROR_INVALIDARGUMENT, nil).Code(400))
		return
	}
	response.APISuccess(c, AssistantToolCallResponse{Result: result})
}
