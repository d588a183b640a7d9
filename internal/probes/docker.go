package probes

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	dockertypes "github.com/docker/docker/api/types"
	"github.com/docker/docker/client"
	"github.com/docker/go-connections/nat"
	"github.com/nholik/pulsecheck/internal/health"
	"github.com/nholik/pulsecheck/internal/probe"
)

const dockerAPITimeout = 5 * time.Second

// ContainerAPI defines the subset of Docker client operations the container
// probes use. The official *client.Client satisfies it directly; tests
// inject mocks.
type ContainerAPI interface {
	Ping(ctx context.Context) (dockertypes.Ping, error)
	ServerVersion(ctx context.Context) (dockertypes.Version, error)
	ContainerInspect(ctx context.Context, containerID string) (dockertypes.ContainerJSON, error)
	Close() error
}

var _ ContainerAPI = (*client.Client)(nil)

// NewDockerAPI initializes a Docker client for the given API host. An empty
// host uses the SDK's environment defaults.
func NewDockerAPI(host string) (ContainerAPI, error) {
	opts := []client.Opt{
		client.WithAPIVersionNegotiation(),
		client.WithHTTPClient(&http.Client{Timeout: dockerAPITimeout}),
	}
	if host != "" {
		opts = append(opts, client.WithHost(host))
	}

	api, err := client.NewClientWithOpts(opts...)
	if err != nil {
		return nil, fmt.Errorf("init docker client: %w", err)
	}
	return api, nil
}

type dockerDaemonProbe struct {
	api ContainerAPI
}

// NewDockerDaemon probes daemon liveness through the SDK, not a subprocess.
func NewDockerDaemon(api ContainerAPI) probe.Probe {
	return &dockerDaemonProbe{api: api}
}

func (p *dockerDaemonProbe) Name() string {
	return "docker-daemon"
}

func (p *dockerDaemonProbe) Check(ctx context.Context) health.Result {
	if _, err := p.api.Ping(ctx); err != nil {
		return health.Unhealthy("daemon unreachable", err)
	}

	version, err := p.api.ServerVersion(ctx)
	if err != nil {
		return health.Unhealthy("daemon unreachable", err)
	}

	return health.Healthy(fmt.Sprintf("daemon responsive - version %s", version.Version))
}

type containerProbe struct {
	api       ContainerAPI
	container string
}

// NewContainer probes one named container. The verdict follows the
// container's own healthcheck when it has one, falling back to run state.
func NewContainer(api ContainerAPI, name string) probe.Probe {
	return &containerProbe{api: api, container: name}
}

func (p *containerProbe) Name() string {
	return p.container
}

func (p *containerProbe) Check(ctx context.Context) health.Result {
	inspected, err := p.api.ContainerInspect(ctx, p.container)
	if err != nil {
		if client.IsErrNotFound(err) {
			return health.Unknown("container not found", err)
		}
		return health.Unknown("inspect failed", err)
	}

	state := inspected.State
	if state == nil {
		return health.Unknown("no container state reported", nil)
	}

	var ports string
	if inspected.NetworkSettings != nil {
		ports = publishedPorts(inspected.NetworkSettings.Ports)
	}

	if state.Health != nil {
		switch state.Health.Status {
		case "healthy":
			return health.Healthy(withPorts("healthcheck passing", ports))
		case "unhealthy":
			return health.Unhealthy(withPorts("healthcheck failing", ports), nil)
		case "starting":
			return health.Degraded(withPorts("healthcheck starting", ports), nil)
		}
	}

	if state.Running {
		return health.Healthy(withPorts("running (no healthcheck)", ports))
	}

	return health.Unhealthy(fmt.Sprintf("stopped (exit code: %d)", state.ExitCode), nil)
}

// publishedPorts formats host-published ports for the detail text, sorted so
// the output is stable across inspections.
func publishedPorts(portMap nat.PortMap) string {
	if len(portMap) == 0 {
		return ""
	}

	entries := make([]string, 0, len(portMap))
	for port, bindings := range portMap {
		for _, binding := range bindings {
			entries = append(entries, fmt.Sprintf("%s->%s", binding.HostPort, string(port)))
		}
	}
	if len(entries) == 0 {
		return ""
	}
	sort.Strings(entries)
	return "ports " + strings.Join(entries, ", ")
}

func withPorts(detail, ports string) string {
	if ports == "" {
		return detail
	}
	return detail + ", " + ports
}
