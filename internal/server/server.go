package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/InteliJR/pricehub/internal/authorization"
	"github.com/InteliJR/pricehub/internal/config"
	fixedcostdomain "github.com/InteliJR/pricehub/internal/fixedcost/domain"
	freightdomain "github.com/InteliJR/pricehub/internal/freight/domain"
	"github.com/InteliJR/pricehub/internal/observability"
	obsmiddleware "github.com/InteliJR/pricehub/internal/observability/logger"
	obsmetrics "github.com/InteliJR/pricehub/internal/observability/metrics"
	obstracing "github.com/InteliJR/pricehub/internal/observability/tracing"
	productdomain "github.com/InteliJR/pricehub/internal/product/domain"
	productgroupdomain "github.com/InteliJR/pricehub/internal/productgroup/domain"
	"github.com/InteliJR/pricehub/internal/ratelimit"
	rawmaterialdomain "github.com/InteliJR/pricehub/internal/rawmaterial/domain"
	referencedomain "github.com/InteliJR/pricehub/internal/reference/domain"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	if !obsCfg.Debug() {
		gin.SetMode(gin.ReleaseMode)
	}
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("http server listening", zap.String("addr", srv.Addr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine          *gin.Engine
	cfg             config.Config
	authzSvc        authorization.Service
	productSvc      productdomain.Service
	rawMaterialSvc  rawmaterialdomain.Service
	freightSvc      freightdomain.Service
	fixedCostSvc    fixedcostdomain.Service
	productGroupSvc productgroupdomain.Service
	refrepo         referencedomain.Repository
	simulateLimiter *ratelimit.SimulateLimiter
	obsMetrics      *obsmetrics.Metrics
}

type ServerParams struct {
	fx.In

	Gin             *gin.Engine
	Cfg             config.Config
	AuthzSvc        authorization.Service
	ProductSvc      productdomain.Service
	RawMaterialSvc  rawmaterialdomain.Service
	FreightSvc      freightdomain.Service
	FixedCostSvc    fixedcostdomain.Service
	ProductGroupSvc productgroupdomain.Service
	Refrepo         referencedomain.Repository
	SimulateLimiter *ratelimit.SimulateLimiter `optional:"true"`
	ObsMetrics      *obsmetrics.Metrics        `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:          p.Gin,
		cfg:             p.Cfg,
		authzSvc:        p.AuthzSvc,
		productSvc:      p.ProductSvc,
		rawMaterialSvc:  p.RawMaterialSvc,
		freightSvc:      p.FreightSvc,
		fixedCostSvc:    p.FixedCostSvc,
		productGroupSvc: p.ProductGroupSvc,
		refrepo:         p.Refrepo,
		simulateLimiter: p.SimulateLimiter,
		obsMetrics:      p.ObsMetrics,
	}

	svc.registerAPIRoutes()
	svc.registerFallback()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")
	api.Use(ActorContext())

	// -------- Reference data --------
	ref := api.Group("/reference", s.ActorRequired())
	{
		ref.GET("/currencies", s.ListCurrencies)
		ref.GET("/measurement-units", s.ListMeasurementUnits)
		ref.GET("/states", s.ListStates)
	}

	// -------- Products --------
	api.GET("/products", s.authorize(authorization.ObjectProduct, authorization.ActionView), s.ListProducts)
	api.POST("/products", s.authorize(authorization.ObjectProduct, authorization.ActionCreate), s.CreateProduct)
	api.POST("/products/simulate",
		s.authorize(authorization.ObjectProduct, authorization.ActionSimulate),
		s.SimulateRateLimit(),
		s.SimulateProductPrice,
	)
	api.GET("/products/:id", s.authorize(authorization.ObjectProduct, authorization.ActionView), s.GetProductByID)
	api.PATCH("/products/:id", s.authorize(authorization.ObjectProduct, authorization.ActionUpdate), s.UpdateProduct)
	api.DELETE("/products/:id", s.authorize(authorization.ObjectProduct, authorization.ActionDelete), s.DeleteProduct)

	// -------- Product groups --------
	api.GET("/product-groups", s.authorize(authorization.ObjectProductGroup, authorization.ActionView), s.ListProductGroups)
	api.POST("/product-groups", s.authorize(authorization.ObjectProductGroup, authorization.ActionCreate), s.CreateProductGroup)
	api.GET("/product-groups/:id", s.authorize(authorization.ObjectProductGroup, authorization.ActionView), s.GetProductGroupByID)
	api.PATCH("/product-groups/:id", s.authorize(authorization.ObjectProductGroup, authorization.ActionUpdate), s.UpdateProductGroup)
	api.DELETE("/product-groups/:id", s.authorize(authorization.ObjectProductGroup, authorization.ActionDelete), s.DeleteProductGroup)

	// -------- Raw materials --------
	api.GET("/raw-materials", s.authorize(authorization.ObjectRawMaterial, authorization.ActionView), s.ListRawMaterials)
	api.POST("/raw-materials", s.authorize(authorization.ObjectRawMaterial, authorization.ActionCreate), s.CreateRawMaterial)
	api.GET("/raw-materials/recent-changes", s.authorize(authorization.ObjectRawMaterial, authorization.ActionView), s.ListRecentRawMaterialChanges)
	api.GET("/raw-materials/:id", s.authorize(authorization.ObjectRawMaterial, authorization.ActionView), s.GetRawMaterialByID)
	api.PATCH("/raw-materials/:id", s.authorize(authorization.ObjectRawMaterial, authorization.ActionUpdate), s.UpdateRawMaterial)
	api.DELETE("/raw-materials/:id", s.authorize(authorization.ObjectRawMaterial, authorization.ActionDelete), s.DeleteRawMaterial)
	api.GET("/raw-materials/:id/change-logs", s.authorize(authorization.ObjectRawMaterial, authorization.ActionView), s.ListRawMaterialChangeLogs)

	// -------- Freights --------
	api.GET("/freights", s.authorize(authorization.ObjectFreight, authorization.ActionView), s.ListFreights)
	api.POST("/freights", s.authorize(authorization.ObjectFreight, authorization.ActionCreate), s.CreateFreight)
	api.GET("/freights/statistics", s.authorize(authorization.ObjectFreight, authorization.ActionView), s.GetFreightStatistics)
	api.GET("/freights/:id", s.authorize(authorization.ObjectFreight, authorization.ActionView), s.GetFreightByID)
	api.PATCH("/freights/:id", s.authorize(authorization.ObjectFreight, authorization.ActionUpdate), s.UpdateFreight)
	api.DELETE("/freights/:id", s.authorize(authorization.ObjectFreight, authorization.ActionDelete), s.DeleteFreight)

	// -------- Fixed costs --------
	api.GET("/fixed-costs", s.authorize(authorization.ObjectFixedCost, authorization.ActionView), s.ListFixedCosts)
	api.POST("/fixed-costs", s.authorize(authorization.ObjectFixedCost, authorization.ActionCreate), s.CreateFixedCost)
	api.GET("/fixed-costs/:id", s.authorize(authorization.ObjectFixedCost, authorization.ActionView), s.GetFixedCostByID)
	api.PATCH("/fixed-costs/:id", s.authorize(authorization.ObjectFixedCost, authorization.ActionUpdate), s.UpdateFixedCost)
	api.DELETE("/fixed-costs/:id", s.authorize(authorization.ObjectFixedCost, authorization.ActionDelete), s.DeleteFixedCost)
	api.POST("/fixed-costs/:id/calculate-overhead", s.authorize(authorization.ObjectFixedCost, authorization.ActionUpdate), s.CalculateFixedCostOverhead)
}

func (s *Server) registerFallback() {
	s.engine.NoRoute(func(c *gin.Context) {
		AbortWithError(c, ErrNotFound)
	})
}
