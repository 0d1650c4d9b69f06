package restserver

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"github.com/chrissnell/calorimetry/internal/calorimetry"
	"github.com/chrissnell/calorimetry/internal/log"
	"github.com/chrissnell/calorimetry/pkg/config"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Controller represents the REST server controller
type Controller struct {
	ctx      context.Context
	wg       *sync.WaitGroup
	config   *config.ConfigData
	Server   http.Server
	FS       fs.FS
	analyzer *calorimetry.Analyzer
	logger   *zap.SugaredLogger
	handlers *Handlers
}

// NewController creates a new REST server controller
func NewController(ctx context.Context, wg *sync.WaitGroup, cfg *config.ConfigData, logger *zap.SugaredLogger) (*Controller, error) {
	if cfg == nil {
		return nil, fmt.Errorf("REST server requires a configuration")
	}
	cfg.ApplyDefaults()

	ctrl := &Controller{
		ctx:    ctx,
		wg:     wg,
		config: cfg,
		FS:     GetAssets(),
		logger: logger,
		analyzer: calorimetry.NewAnalyzer(logger, calorimetry.ChartOptions{
			Title:  cfg.Chart.Title,
			XLabel: cfg.Chart.XLabel,
			YLabel: cfg.Chart.YLabel,
		}),
	}

	ctrl.handlers = NewHandlers(ctrl)

	ctrl.Server.Addr = fmt.Sprintf("%v:%v", cfg.Server.ListenAddr, cfg.Server.Port)
	ctrl.Server.Handler = ctrl.setupRouter()
	ctrl.Server.ReadHeaderTimeout = 10 * time.Second

	return ctrl, nil
}

// Handler returns the HTTP handler serving every endpoint
func (c *Controller) Handler() http.Handler {
	return c.Server.Handler
}

// StartController starts the REST server
func (c *Controller) StartController() error {
	log.Infof("Starting REST server on %s...", c.Server.Addr)
	c.wg.Add(1)

	go func() {
		defer c.wg.Done()

		var err error
		if c.config.Server.TLSEnabled() {
			err = c.Server.ListenAndServeTLS(c.config.Server.Cert, c.config.Server.Key)
		} else {
			err = c.Server.ListenAndServe()
		}
		if err != http.ErrServerClosed {
			log.Errorf("REST server error: %v", err)
		}
	}()

	go func() {
		<-c.ctx.Done()
		log.Info("Shutting down the REST server...")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		c.Server.Shutdown(ctx)
	}()

	return nil
}

// setupRouter configures the HTTP router with all endpoints
func (c *Controller) setupRouter() *mux.Router {
	router := mux.NewRouter()
	router.Use(log.HTTPMiddleware)

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/analyze", c.handlers.Analyze).Methods(http.MethodPost)
	api.HandleFunc("/chart.{ext:png|svg}", c.handlers.Chart).Methods(http.MethodPost)

	router.HandleFunc("/healthz", c.handlers.Health).Methods(http.MethodGet)

	// Upload page and static files
	router.PathPrefix("/").Handler(http.FileServer(http.FS(c.FS)))

	return router
}
