package router

import (
	"github.com/prometheus/client_golang/prometheus"
)

// StatsCollector exports the router's statistics snapshot as Prometheus
// gauges. Register it on the application's registry:
//
//	prometheus.MustRegister(router.NewStatsCollector(r))
type StatsCollector struct {
	router *Router

	routesTotal      *prometheus.Desc
	routesByKind     *prometheus.Desc
	routesByMethod   *prometheus.Desc
	cachedMiddleware *prometheus.Desc
	loadedFromCache  *prometheus.Desc
}

// NewStatsCollector creates a collector for the given router.
func NewStatsCollector(r *Router) *StatsCollector {
	return &StatsCollector{
		router: r,
		routesTotal: prometheus.NewDesc(
			"volt_router_routes_total",
			"Total number of registered routes.",
			nil, nil),
		routesByKind: prometheus.NewDesc(
			"volt_router_routes",
			"Number of registered routes by kind.",
			[]string{"kind"}, nil),
		routesByMethod: prometheus.NewDesc(
			"volt_router_routes_by_method",
			"Number of registered routes by HTTP method.",
			[]string{"method"}, nil),
		cachedMiddleware: prometheus.NewDesc(
			"volt_router_cached_middleware",
			"Number of named middleware instances created.",
			nil, nil),
		loadedFromCache: prometheus.NewDesc(
			"volt_router_loaded_from_cache",
			"Whether the route table was loaded from a cache artifact.",
			nil, nil),
	}
}

// Describe implements prometheus.Collector.
func (c *StatsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.routesTotal
	ch <- c.routesByKind
	ch <- c.routesByMethod
	ch <- c.cachedMiddleware
	ch <- c.loadedFromCache
}

// Collect implements prometheus.Collector.
func (c *StatsCollector) Collect(ch chan<- prometheus.Metric) {
	stats := c.router.Stats()

	ch <- prometheus.MustNewConstMetric(c.routesTotal,
		prometheus.GaugeValue, float64(stats.TotalRoutes))
	ch <- prometheus.MustNewConstMetric(c.routesByKind,
		prometheus.GaugeValue, float64(stats.StaticRoutes), "static")
	ch <- prometheus.MustNewConstMetric(c.routesByKind,
		prometheus.GaugeValue, float64(stats.DynamicRoutes), "dynamic")
	for method, count := range stats.PerMethod {
		ch <- prometheus.MustNewConstMetric(c.routesByMethod,
			prometheus.GaugeValue, float64(count), method)
	}
	ch <- prometheus.MustNewConstMetric(c.cachedMiddleware,
		prometheus.GaugeValue, float64(stats.CachedMiddleware))

	fromCache := 0.0
	if stats.FromCache {
		fromCache = 1.0
	}
	ch <- prometheus.MustNewConstMetric(c.loadedFromCache,
		prometheus.GaugeValue, fromCache)
}
