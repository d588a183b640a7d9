package probes

import (
	"context"
	"fmt"

	"github.com/nholik/pulsecheck/internal/health"
	"github.com/nholik/pulsecheck/internal/probe"
	"github.com/redis/go-redis/v9"
)

type redisProbe struct {
	name string
	addr string
}

// NewRedis probes a Redis server with PING. The client is created per check
// so the probe holds no connection between passes.
func NewRedis(name, addr string) probe.Probe {
	return &redisProbe{name: name, addr: addr}
}

func (p *redisProbe) Name() string {
	return p.name
}

func (p *redisProbe) Check(ctx context.Context) health.Result {
	client := redis.NewClient(&redis.Options{Addr: p.addr})
	defer client.Close()

	pong, err := client.Ping(ctx).Result()
	if err != nil {
		return health.Unhealthy("connection failed", err)
	}
	if pong != "PONG" {
		return health.Degraded(fmt.Sprintf("unexpected ping reply %q", pong), nil)
	}

	return health.Healthy("ping successful")
}
