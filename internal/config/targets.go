package config

import (
	"fmt"
	"net"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Infrastructure target types understood by the probe catalog.
const (
	TypePostgres = "postgres"
	TypeRedis    = "redis"
	TypeEtcd     = "etcd"
)

// Targets is the parsed YAML structure describing what to probe. Category
// order in reports follows the field order here; in-category order follows
// file order.
type Targets struct {
	Docker         DockerTarget    `yaml:"docker"`
	Containers     []string        `yaml:"containers"`
	Infrastructure []ServiceTarget `yaml:"infrastructure"`
	Services       []HTTPTarget    `yaml:"services"`
	GPU            GPUTarget       `yaml:"gpu"`
	System         SystemTargets   `yaml:"system"`
}

// DockerTarget points container probes at a daemon. An empty host uses the
// SDK's environment defaults.
type DockerTarget struct {
	Host string `yaml:"host,omitempty"`
}

// ServiceTarget describes one infrastructure dependency.
type ServiceTarget struct {
	Name      string   `yaml:"name"`
	Type      string   `yaml:"type"`
	DSN       string   `yaml:"dsn,omitempty"`
	Addr      string   `yaml:"addr,omitempty"`
	Endpoints []string `yaml:"endpoints,omitempty"`
}

// HTTPTarget describes one HTTP health endpoint, optionally asserting a
// field in its JSON body.
type HTTPTarget struct {
	Name   string         `yaml:"name"`
	URL    string         `yaml:"url"`
	Assert *JSONAssertion `yaml:"assert,omitempty"`
}

// JSONAssertion requires a top-level string field of the response body to
// equal a value, e.g. Grafana's database == "ok".
type JSONAssertion struct {
	Field  string `yaml:"field"`
	Equals string `yaml:"equals"`
}

// GPUTarget toggles GPU hardware probing.
type GPUTarget struct {
	Enabled bool `yaml:"enabled"`
}

// SystemTargets describes host-level checks.
type SystemTargets struct {
	DiskPath          string   `yaml:"disk_path,omitempty"`
	DiskWarnPercent   float64  `yaml:"disk_warn_percent,omitempty"`
	MemoryWarnPercent float64  `yaml:"memory_warn_percent,omitempty"`
	Ports             []string `yaml:"ports,omitempty"`
	ConfigFiles       []string `yaml:"config_files,omitempty"`
	ComposeFile       string   `yaml:"compose_file,omitempty"`
}

// DefaultTargets mirrors the conventional local development stack: manager
// API on 8081, Prometheus on 9090, Grafana on 3000, PostgreSQL on 8101,
// Redis on 8111, etcd on 8121.
func DefaultTargets() Targets {
	return Targets{
		Infrastructure: []ServiceTarget{
			{Name: "postgres", Type: TypePostgres, DSN: "postgres://postgres@127.0.0.1:8101/backend"},
			{Name: "redis", Type: TypeRedis, Addr: "127.0.0.1:8111"},
			{Name: "etcd", Type: TypeEtcd, Endpoints: []string{"http://127.0.0.1:8121"}},
		},
		Services: []HTTPTarget{
			{Name: "manager-api", URL: "http://127.0.0.1:8081/server/version"},
			{Name: "prometheus", URL: "http://127.0.0.1:9090/-/healthy"},
			{Name: "grafana", URL: "http://127.0.0.1:3000/api/health", Assert: &JSONAssertion{Field: "database", Equals: "ok"}},
		},
		GPU: GPUTarget{Enabled: true},
		System: SystemTargets{
			DiskPath:          "/",
			DiskWarnPercent:   90,
			MemoryWarnPercent: 90,
			Ports: []string{
				"127.0.0.1:8081",
				"127.0.0.1:8101",
				"127.0.0.1:8111",
				"127.0.0.1:8121",
			},
		},
	}
}

// LoadTargets parses a YAML targets file. An empty path returns the default
// local stack.
func LoadTargets(path string) (Targets, error) {
	if path == "" {
		return DefaultTargets(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Targets{}, fmt.Errorf("read targets file: %w", err)
	}

	var targets Targets
	if err := yaml.Unmarshal(data, &targets); err != nil {
		return Targets{}, fmt.Errorf("parse targets file: %w", err)
	}

	if err := validateTargets(targets); err != nil {
		return Targets{}, err
	}

	return targets, nil
}

// validateTargets rejects files that would produce a misconfigured batch:
// duplicate probe names, unknown types, or targets missing the address form
// their type requires.
func validateTargets(targets Targets) error {
	seen := make(map[string]bool)
	claim := func(name, kind string) error {
		if name == "" {
			return fmt.Errorf("%s: name is required", kind)
		}
		if seen[name] {
			return fmt.Errorf("%s %q: duplicate name", kind, name)
		}
		seen[name] = true
		return nil
	}

	for _, name := range targets.Containers {
		if err := claim(name, "container"); err != nil {
			return err
		}
	}

	for _, svc := range targets.Infrastructure {
		if err := claim(svc.Name, "infrastructure target"); err != nil {
			return err
		}
		switch svc.Type {
		case TypePostgres:
			if svc.DSN == "" {
				return fmt.Errorf("infrastructure target %q: dsn is required for type %s", svc.Name, svc.Type)
			}
		case TypeRedis:
			if svc.Addr == "" {
				return fmt.Errorf("infrastructure target %q: addr is required for type %s", svc.Name, svc.Type)
			}
		case TypeEtcd:
			if len(svc.Endpoints) == 0 {
				return fmt.Errorf("infrastructure target %q: endpoints are required for type %s", svc.Name, svc.Type)
			}
		case "":
			return fmt.Errorf("infrastructure target %q: type is required", svc.Name)
		default:
			return fmt.Errorf("infrastructure target %q: unknown type %q", svc.Name, svc.Type)
		}
	}

	for _, svc := range targets.Services {
		if err := claim(svc.Name, "service target"); err != nil {
			return err
		}
		if svc.URL == "" {
			return fmt.Errorf("service target %q: url is required", svc.Name)
		}
		if err := validateURL(svc.URL, fmt.Sprintf("service target %q url", svc.Name)); err != nil {
			return err
		}
		if svc.Assert != nil && svc.Assert.Field == "" {
			return fmt.Errorf("service target %q: assert.field is required", svc.Name)
		}
	}

	for _, hostPort := range targets.System.Ports {
		if _, _, err := net.SplitHostPort(hostPort); err != nil {
			return fmt.Errorf("system port %q: %w", hostPort, err)
		}
	}

	if warn := targets.System.DiskWarnPercent; warn < 0 || warn > 100 {
		return fmt.Errorf("system disk_warn_percent must be between 0 and 100")
	}
	if warn := targets.System.MemoryWarnPercent; warn < 0 || warn > 100 {
		return fmt.Errorf("system memory_warn_percent must be between 0 and 100")
	}

	for _, path := range targets.System.ConfigFiles {
		if strings.TrimSpace(path) == "" {
			return fmt.Errorf("system config_files entries cannot be empty")
		}
	}

	return nil
}
