package handler

import (
	"github.com/gin-gonic/gin"

	v1 "github.com/swgwatch/swgwatch/app/logic/v1"
	"github.com/swgwatch/swgwatch/app/response"
	"github.com/swgwatch/swgwatch/pkg/utils"
)

type ImportMailsRequest struct {
	Mails []v1.IncomingMail `json:"mails" binding:"required"`
}

type ImportMailsResponse struct {
	Created int64 `json:"created"`
}

// ImportMails archives a batch of in-game mails for later sale extraction.
func (s *HttpSrv) ImportMails(c *gin.Context) {
	var req ImportMailsRequest
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	created, err := v1.NewMailLogic(c.Request.Context(), s.Core).ImportMails(req.Mails)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, ImportMailsResponse{Created: created})
}
