package service

import (
	"github.com/swgwatch/swgwatch/app/core"
	"github.com/swgwatch/swgwatch/app/response"
	"github.com/swgwatch/swgwatch/cmd/service/handler"
	"github.com/swgwatch/swgwatch/cmd/service/middleware"
	"github.com/swgwatch/swgwatch/pkg/metrics"
)

func serve(core *core.Core) {
	httpSrv := &handler.HttpSrv{
		Core:   core,
		Engine: core.HttpEngine(),
	}
	setupHttpRouter(httpSrv)

	core.HttpEngine().Run(core.Cfg().Addr)
}

func setupHttpRouter(s *handler.HttpSrv) {
	s.Engine.Use(response.NewResponse())
	s.Engine.Use(middleware.Cors)
	s.Engine.Use(middleware.Observe(s.Core))

	s.Engine.GET("/metrics", metrics.DefaultExportHandler())

	apiV1 := s.Engine.Group("/api/v1")
	{
		resources := apiV1.Group("/resources")
		{
			resources.GET("", s.ListResources)
			resources.GET("/search", s.ListResources)
			resources.GET("/lookup", s.GetResourceByName)
			resources.GET("/:id", s.GetResource)
			resources.POST("/:id/enrich", s.EnrichResource)
		}

		classes := apiV1.Group("/classes")
		{
			classes.GET("/search", s.SearchClasses)
			classes.GET("/:id", s.GetClassNode)
			classes.GET("/:id/children", s.GetClassChildren)
			classes.GET("/:id/path", s.GetClassPath)
		}

		sync := apiV1.Group("/sync")
		{
			sync.GET("/status", s.SyncStatus)
			sync.POST("/resources", s.SyncResources)
			sync.POST("/tree", s.SyncResourceTree)
			sync.POST("/sales", s.ExtractSales)
		}

		sales := apiV1.Group("/sales")
		{
			sales.GET("", s.ListSales)
		}

		apiV1.POST("/mails", s.ImportMails)

		assistant := apiV1.Group("/assistant")
		{
			assistant.GET("/tools", s.ListAssistantTools)
			assistant.POST("/tools/call", s.CallAssistantTool)
		}

		stats := apiV1.Group("/stats")
		{
			stats.GET("/overview", s.OverviewSnapshot)
			stats.GET("/inventory", s.InventorySnapshot)
			stats.GET("/sales", s.SalesSnapshot)
			stats.GET("/tree", s.TreeSnapshot)
		}
	}
}
