package probes

import (
	"fmt"

	"github.com/nholik/pulsecheck/internal/config"
	"github.com/nholik/pulsecheck/internal/probe"
	"github.com/rs/zerolog"
)

// Probe categories, in report order.
const (
	CategoryContainers     = "containers"
	CategoryInfrastructure = "infrastructure"
	CategoryServices       = "services"
	CategoryGPU            = "gpu"
	CategorySystem         = "system"
)

// Categories lists every category name Build can produce, in report order.
func Categories() []string {
	return []string{
		CategoryContainers,
		CategoryInfrastructure,
		CategoryServices,
		CategoryGPU,
		CategorySystem,
	}
}

// Build assembles the probe catalog for the given targets. Probes appear in
// targets-file order within their category. The returned cleanup releases
// shared clients and must be called once no more passes will run.
func Build(logger zerolog.Logger, targets config.Targets) (*probe.Set, func(), error) {
	set := probe.NewSet()
	cleanup := func() {}

	if len(targets.Containers) > 0 || targets.Docker.Host != "" {
		api, err := NewDockerAPI(targets.Docker.Host)
		if err != nil {
			return nil, nil, err
		}
		cleanup = func() {
			if err := api.Close(); err != nil {
				logger.Warn().Err(err).Msg("closing docker client failed")
			}
		}

		set.Add(CategoryContainers, NewDockerDaemon(api))
		for _, name := range targets.Containers {
			set.Add(CategoryContainers, NewContainer(api, name))
		}
	}

	for _, svc := range targets.Infrastructure {
		switch svc.Type {
		case config.TypePostgres:
			set.Add(CategoryInfrastructure, NewPostgres(svc.Name, svc.DSN))
		case config.TypeRedis:
			set.Add(CategoryInfrastructure, NewRedis(svc.Name, svc.Addr))
		case config.TypeEtcd:
			set.Add(CategoryInfrastructure, NewEtcd(svc.Name, svc.Endpoints))
		default:
			cleanup()
			return nil, nil, fmt.Errorf("unknown infrastructure type %q for target %q", svc.Type, svc.Name)
		}
	}

	for _, svc := range targets.Services {
		var opts []HTTPOption
		if svc.Assert != nil {
			opts = append(opts, WithJSONAssertion(svc.Assert.Field, svc.Assert.Equals))
		}
		set.Add(CategoryServices, NewHTTP(svc.Name, svc.URL, opts...))
	}

	if targets.GPU.Enabled {
		set.Add(CategoryGPU, NewGPU())
	}

	if targets.System.DiskPath != "" {
		set.Add(CategorySystem, NewSystemResources(targets.System.DiskPath, targets.System.DiskWarnPercent, targets.System.MemoryWarnPercent))
	}
	if len(targets.System.Ports) > 0 {
		set.Add(CategorySystem, NewPortScan("port-scan", targets.System.Ports))
	}
	if len(targets.System.ConfigFiles) > 0 {
		set.Add(CategorySystem, NewConfigFiles("config-files", targets.System.ConfigFiles))
	}
	if targets.System.ComposeFile != "" {
		set.Add(CategorySystem, NewComposeFile("compose-file", targets.System.ComposeFile))
	}

	logger.Debug().
		Strs("categories", set.Categories()).
		Int("probes", set.Len()).
		Msg("probe catalog assembled")

	return set, cleanup, nil
}
