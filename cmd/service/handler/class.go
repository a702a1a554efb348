package handler

import (
	"github.com/gin-gonic/gin"

	v1 "github.com/swgwatch/swgwatch/app/logic/v1"
	"github.com/swgwatch/swgwatch/app/response"
	"github.com/swgwatch/swgwatch/pkg/utils"
)

func (s *HttpSrv) GetClassNode(c *gin.Context) {
	node, err := v1.NewClassTreeLogic(c.Request.Context(), s.Core).GetNode(c.Param("id"))
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, node)
}

func (s *HttpSrv) GetClassChildren(c *gin.Context) {
	children, err := v1.NewClassTreeLogic(c.Request.Context(), s.Core).GetChildren(c.Param("id"))
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, children)
}

type ClassPathResponse struct {
	Path []string `json:"path"`
}

func (s *HttpSrv) GetClassPath(c *gin.Context) {
	path, err := v1.NewClassTreeLogic(c.Request.Context(), s.Core).GetAncestorPath(c.Param("id"))
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, ClassPathResponse{Path: path})
}

type SearchClassesRequest struct {
	Term  string `json:"term" form:"term" binding:"required"`
	Limit uint64 `json:"limit" form:"limit"`
}

func (s *HttpSrv) SearchClasses(c *gin.Context) {
	var req SearchClassesRequest
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	matches, err := v1.NewClassTreeLogic(c.Request.Context(), s.Core).SearchByName(req.Term, req.Limit)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, matches)
}
