package handler

import (
	"github.com/gin-gonic/gin"

	v1 "github.com/swgwatch/swgwatch/app/logic/v1"
	"github.com/swgwatch/swgwatch/app/response"
	"github.com/swgwatch/swgwatch/pkg/utils"
)

type SyncRequest struct {
	Force bool `json:"force" form:"force"`
}

func (s *HttpSrv) SyncResources(c *gin.Context) {
	var req SyncRequest
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	result, err := v1.NewSyncLogic(c.Request.Context(), s.Core).SyncCurrentResources(req.Force)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, result)
}

type SyncTreeResponse struct {
	Nodes int64 `json:"nodes"`
}

func (s *HttpSrv) SyncResourceTree(c *gin.Context) {
	var req SyncRequest
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	count, err := v1.NewClassTreeLogic(c.Request.Context(), s.Core).SyncResourceTree(req.Force)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, SyncTreeResponse{Nodes: count})
}

// SyncStatus reports the freshness of every gated dataset.
func (s *HttpSrv) SyncStatus(c *gin.Context) {
	status, err := v1.NewFreshnessLogic(c.Request.Context(), s.Core).Status()
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, status)
}

type ExtractSalesResponse struct {
	Created int64 `json:"created"`
}

func (s *HttpSrv) ExtractSales(c *gin.Context) {
	created, err := v1.NewSalesLogic(c.Request.Context(), s.Core).ExtractUnprocessed()
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, ExtractSalesResponse{Created: created})
}
