package api

import (
	"net/http"

	"github.com/LambdaTest/covdiff/pkg/api/health"
	"github.com/LambdaTest/covdiff/pkg/api/results"
	"github.com/LambdaTest/covdiff/pkg/lumber"
	"github.com/LambdaTest/covdiff/pkg/metrics"
	"github.com/LambdaTest/covdiff/pkg/report"
	"github.com/gin-gonic/gin"
)

// reportPrefix is where the static report files are served.
const reportPrefix = "/report"

// Router serves one generated report
type Router struct {
	logger    lumber.Logger
	dir       string
	doc       *report.Document
	collector *metrics.Collector
}

// NewRouter loads the report in dir and returns instance of Router
func NewRouter(logger lumber.Logger, dir string, collector *metrics.Collector) (Router, error) {
	doc, err := report.LoadDocument(dir)
	if err != nil {
		logger.Errorf("failed to load report from %s, error: %v", dir, err)
		return Router{}, err
	}
	skipped := 0
	if manifest, err := report.LoadManifest(dir); err == nil {
		skipped = manifest.Skipped
	} else {
		logger.Warnf("no manifest in %s, error: %v", dir, err)
	}
	collector.Observe(doc, skipped)
	return Router{logger: logger, dir: dir, doc: doc, collector: collector}, nil
}

// Handler function will perform all route operations
func (r Router) Handler() *gin.Engine {
	r.logger.Infof("Setting up routes")
	router := gin.New()
	router.Use(gin.LoggerWithWriter(lumber.NewWriter(r.logger, lumber.Debug)), gin.Recovery())

	router.GET("/health", health.Handler(r.doc.RunID))
	router.GET("/metrics", gin.WrapH(r.collector.Handler()))

	v1 := router.Group("/api")
	v1.GET("/diff", results.DiffHandler(r.doc))
	v1.GET("/index", results.IndexHandler(r.doc))
	v1.GET("/summary", results.SummaryHandler(r.doc))
	v1.GET("/classes/:package/:class", results.ClassHandler(r.logger, r.doc))

	router.Static(reportPrefix, r.dir)
	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, reportPrefix+"/")
	})
	return router
}
