package realtime

import "github.com/prometheus/client_golang/prometheus"

// Metrics socket 推送指标
type Metrics struct {
	Clients    prometheus.Gauge
	Broadcasts *prometheus.CounterVec
	Dropped    prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Clients: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "esports_hub_ws_clients",
			Help: "当前连接的 socket 客户端数",
		}),
		Broadcasts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "esports_hub_ws_broadcasts_total",
			Help: "按事件标签统计的广播次数",
		}, []string{"event"}),
		Dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "esports_hub_ws_dropped_total",
			Help: "客户端发送队列满而丢弃的消息数",
		}),
	}
	reg.MustRegister(m.Clients, m.Broadcasts, m.Dropped)
	return m
}
