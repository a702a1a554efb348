package handler

import (
	"github.com/gin-gonic/gin"

	v1 "github.com/swgwatch/swgwatch/app/logic/v1"
	"github.com/swgwatch/swgwatch/app/response"
	"github.com/swgwatch/swgwatch/pkg/utils"
)

type SnapshotRequest struct {
	Top    uint64 `json:"top" form:"top"`
	Recent uint64 `json:"recent" form:"recent"`
}

func (s *HttpSrv) InventorySnapshot(c *gin.Context) {
	var req SnapshotRequest
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	snapshot, err := v1.NewStatsLogic(c.Request.Context(), s.Core).InventorySnapshot(req.Top)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, snapshot)
}

func (s *HttpSrv) SalesSnapshot(c *gin.Context) {
	var req SnapshotRequest
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	snapshot, err := v1.NewStatsLogic(c.Request.Context(), s.Core).SalesSnapshot(req.Top, req.Recent)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, snapshot)
}

func (s *HttpSrv) OverviewSnapshot(c *gin.Context) {
	snapshot, err := v1.NewStatsLogic(c.Request.Context(), s.Core).Overview()
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, snapshot)
}

func (s *HttpSrv) TreeSnapshot(c *gin.Context) {
	meta, err := v1.NewStatsLogic(c.Request.Context(), s.Core).TreeSnapshot()
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, meta)
}
