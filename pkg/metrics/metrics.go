// Package metrics exposes the outcome of a comparison run as prometheus gauges.
package metrics

import (
	"net/http"

	"github.com/LambdaTest/covdiff/pkg/global"
	"github.com/LambdaTest/covdiff/pkg/report"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the gauges of one report on a private registry.
type Collector struct {
	registry         *prometheus.Registry
	covered          *prometheus.GaugeVec
	total            *prometheus.GaugeVec
	regressedLines   *prometheus.GaugeVec
	regressedClasses prometheus.Gauge
	skipped          prometheus.Gauge
}

// New returns a new Collector
func New() *Collector {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)
	return &Collector{
		registry: registry,
		covered: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: global.BinaryName,
			Name:      "covered_units",
			Help:      "Covered units per suite column",
		}, []string{"suite", "unit"}),
		total: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: global.BinaryName,
			Name:      "total_units",
			Help:      "Total units per suite column",
		}, []string{"suite", "unit"}),
		regressedLines: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: global.BinaryName,
			Name:      "regressed_lines",
			Help:      "Baseline covered lines that lost coverage, by classification",
		}, []string{"status"}),
		regressedClasses: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: global.BinaryName,
			Name:      "regressed_classes",
			Help:      "Classes with at least one regressed line",
		}),
		skipped: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: global.BinaryName,
			Name:      "skipped_classes",
			Help:      "Classes that could not be analyzed",
		}),
	}
}

// Observe replaces the gauges with the values of doc.
func (c *Collector) Observe(doc *report.Document, skipped int) {
	c.covered.Reset()
	c.total.Reset()
	for i, cell := range doc.Summary.Totals.Cells {
		if i >= len(doc.Summary.Titles) {
			break
		}
		suite := doc.Summary.Titles[i]
		c.covered.WithLabelValues(suite, doc.Summary.Unit).Set(float64(cell.Covered))
		c.total.WithLabelValues(suite, doc.Summary.Unit).Set(float64(cell.Total))
	}

	var partly, notCovered int
	for _, class := range doc.Classes {
		partly += class.PartlyCovered
		notCovered += class.NotCovered
	}
	c.regressedLines.WithLabelValues("partly-covered").Set(float64(partly))
	c.regressedLines.WithLabelValues("not-covered").Set(float64(notCovered))
	c.regressedClasses.Set(float64(len(doc.Classes)))
	c.skipped.Set(float64(skipped))
}

// Registry returns the registry the gauges live on.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the gauges in the prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
