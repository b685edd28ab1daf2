package metrics

import "github.com/google/wire"

var ProviderSet = wire.NewSet(ProvideMetricsServer)

func ProvideMetricsServer(conf MetricsConfig) *Server {
	return NewServer(conf)
}
