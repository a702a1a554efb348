package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/swgwatch/swgwatch/app/core"
)

type HttpSrv struct {
	Core   *core.Core
	Engine *gin.Engine
}
