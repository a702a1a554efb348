package handler

import (
	"github.com/gin-gonic/gin"

	v1 "github.com/swgwatch/swgwatch/app/logic/v1"
	"github.com/swgwatch/swgwatch/app/response"
	"github.com/swgwatch/swgwatch/pkg/utils"
)

type ListSalesRequest struct {
	Page     uint64 `json:"page" form:"page"`
	PageSize uint64 `json:"pagesize" form:"pagesize"`
}

func (s *HttpSrv) ListSales(c *gin.Context) {
	var req ListSalesRequest
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 || req.PageSize > 100 {
		req.PageSize = 20
	}

	sales, err := v1.NewSalesLogic(c.Request.Context(), s.Core).ListSales(req.Page, req.PageSize)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, sales)
}
