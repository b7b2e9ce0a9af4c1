// Package prometheus exports clustering metrics to Prometheus.
//
//	reg := prometheus.NewRegistry()
//	mc, err := vecprom.New(reg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	res, err := vecclust.Cluster(ctx, src, 8, vecclust.WithMetricsCollector(mc))
//
// Serve reg with promhttp.HandlerFor to expose the metrics.
package prometheus
