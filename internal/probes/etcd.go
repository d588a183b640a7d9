package probes

import (
	"context"
	"fmt"
	"time"

	"github.com/nholik/pulsecheck/internal/health"
	"github.com/nholik/pulsecheck/internal/probe"
	clientv3 "go.etcd.io/etcd/client/v3"
)

const etcdDialTimeout = 5 * time.Second

// etcdStatusAPI is the slice of the etcd client the probe needs; tests
// inject a fake through the dial field.
type etcdStatusAPI interface {
	Status(ctx context.Context, endpoint string) (*clientv3.StatusResponse, error)
	Close() error
}

type etcdProbe struct {
	name      string
	endpoints []string
	dial      func(ctx context.Context) (etcdStatusAPI, error)
}

// NewEtcd probes an etcd cluster member via the maintenance Status call.
// The client is dialed per check and closed before returning.
func NewEtcd(name string, endpoints []string) probe.Probe {
	p := &etcdProbe{name: name, endpoints: endpoints}
	p.dial = func(ctx context.Context) (etcdStatusAPI, error) {
		return clientv3.New(clientv3.Config{
			Endpoints:   endpoints,
			DialTimeout: etcdDialTimeout,
			Context:     ctx,
		})
	}
	return p
}

func (p *etcdProbe) Name() string {
	return p.name
}

func (p *etcdProbe) Check(ctx context.Context) health.Result {
	if len(p.endpoints) == 0 {
		return health.Unknown("no endpoints configured", nil)
	}

	api, err := p.dial(ctx)
	if err != nil {
		return health.Unhealthy("connection failed", err)
	}
	defer api.Close()

	status, err := api.Status(ctx, p.endpoints[0])
	if err != nil {
		return health.Unhealthy("endpoint status failed", err)
	}

	return health.Healthy(fmt.Sprintf("endpoint healthy - version %s", status.Version))
}
