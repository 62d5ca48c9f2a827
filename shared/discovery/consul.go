package discovery

import (
	"fmt"
	"net"
	"strconv"

	consulapi "github.com/hashicorp/consul/api"
	"github.com/rs/zerolog"
)

// Registrar registers the HTTP service with a Consul agent.
type Registrar struct {
	client    *consulapi.Client
	logger    *zerolog.Logger
	serviceID string
}

// ServiceInfo describes the instance being registered.
type ServiceInfo struct {
	Name       string
	Host       string
	Port       int
	HealthPath string
}

// NewRegistrar creates a Registrar talking to the agent at addr.
func NewRegistrar(addr string, logger *zerolog.Logger) (*Registrar, error) {
	cfg := consulapi.DefaultConfig()
	cfg.Address = addr

	client, err := consulapi.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("create consul client: %w", err)
	}

	return &Registrar{client: client, logger: logger}, nil
}

// Register adds the service with an HTTP health check.
func (r *Registrar) Register(info ServiceInfo) error {
	r.serviceID = fmt.Sprintf("%s-%s-%d", info.Name, info.Host, info.Port)

	registration := &consulapi.AgentServiceRegistration{
		ID:      r.serviceID,
		Name:    info.Name,
		Address: info.Host,
		Port:    info.Port,
		Check: &consulapi.AgentServiceCheck{
			HTTP:                           "http://" + net.JoinHostPort(info.Host, strconv.Itoa(info.Port)) + info.HealthPath,
			Interval:                       "10s",
			Timeout:                        "2s",
			DeregisterCriticalServiceAfter: "1m",
		},
	}

	if err := r.client.Agent().ServiceRegister(registration); err != nil {
		return fmt.Errorf("register service %s: %w", r.serviceID, err)
	}

	r.logger.Info().Str("service_id", r.serviceID).Msg("registered service with consul")
	return nil
}

// Deregister removes the service registered by Register.
func (r *Registrar) Deregister() error {
	if r.serviceID == "" {
		return nil
	}

	if err := r.client.Agent().ServiceDeregister(r.serviceID); err != nil {
		return fmt.Errorf("deregister service %s: %w", r.serviceID, err)
	}

	r.logger.Info().Str("service_id", r.serviceID).Msg("deregistered service from consul")
	return nil
}
