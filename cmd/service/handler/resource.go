package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	v1 "github.com/swgwatch/swgwatch/app/logic/v1"
	"github.com/swgwatch/swgwatch/app/response"
	"github.com/swgwatch/swgwatch/pkg/errors"
	"github.com/swgwatch/swgwatch/pkg/types"
	"github.com/swgwatch/swgwatch/pkg/utils"
)

type GetResourceRequest struct {
	Enrich bool `json:"enrich" form:"enrich"`
}

// GetResource returns one resource. With enrich=true it first attempts a
// throttled remote refresh; a failed refresh still serves the stored row.
func (s *HttpSrv) GetResource(c *gin.Context) {
	var req GetResourceRequest
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.APIError(c, errors.New("handler.GetResource.ParseInt", errors.ERROR_INVALIDARGUMENT, err).Code(400))
		return
	}

	if req.Enrich {
		resource, err := v1.NewEnrichLogic(c.Request.Context(), s.Core).EnrichByID(id, false)
		if err != nil {
			response.APIError(c, err)
			return
		}
		if resource != nil {
			response.APISuccess(c, resource)
			return
		}
	}

	resource, err := v1.NewResourceLogic(c.Request.Context(), s.Core).GetResource(id)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, resource)
}

type GetResourceByNameRequest struct {
	Name   string `json:"name" form:"name" binding:"required"`
	Enrich bool   `json:"enrich" form:"enrich"`
}

func (s *HttpSrv) GetResourceByName(c *gin.Context) {
	var req GetResourceByNameRequest
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	if req.Enrich {
		resource, err := v1.NewEnrichLogic(c.Request.Context(), s.Core).EnrichByName(req.Name, false)
		if err != nil {
			response.APIError(c, err)
			return
		}
		if resource != nil {
			response.APISuccess(c, resource)
			return
		}
	}

	resource, err := v1.NewResourceLogic(c.Request.Context(), s.Core).GetResourceByName(req.Name)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, resource)
}

type EnrichResourceRequest struct {
	Force bool `json:"force" form:"force"`
}

// EnrichResource triggers a remote refresh of one resource. Without force
// the usual throttle windows apply and the call may serve the stored row.
func (s *HttpSrv) EnrichResource(c *gin.Context) {
	var req EnrichResourceRequest
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.APIError(c, errors.New("handler.EnrichResource.ParseInt", errors.ERROR_INVALIDARGUMENT, err).Code(400))
		return
	}

	resource, err := v1.NewEnrichLogic(c.Request.Context(), s.Core).EnrichByID(id, req.Force)
	if err != nil {
		response.APIError(c, err)
		return
	}
	if resource == nil {
		response.APIError(c, errors.New("handler.EnrichResource.NotFound", errors.ERROR_NOT_FOUND, nil).Code(404))
		return
	}
	response.APISuccess(c, resource)
}

type ListResourcesRequest struct {
	SpawnedOnly bool   `json:"spawned_only" form:"spawned_only"`
	ClassID     string `json:"class_id" form:"class_id"`
	Name        string `json:"name" form:"name"`
	Page        uint64 `json:"page" form:"page"`
	PageSize    uint64 `json:"pagesize" form:"pagesize"`
}

type ListResourcesResponse struct {
	List  []*types.PersistedResource `json:"list"`
	Total int64                      `json:"total"`
}

func (s *HttpSrv) ListResources(c *gin.Context) {
	var req ListResourcesRequest
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

	list, total, err := v1.NewResourceLogic(c.Request.Context(), s.Core).ListResources(types.ListResourceOptions{
		SpawnedOnly: req.SpawnedOnly,
		ClassID:     req.ClassID,
		NameLike:    req.Name,
	}, req.Page, req.PageSize)
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, ListResourcesResponse{
		List:  list,
		Total: total,
	})
}
