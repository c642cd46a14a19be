// Package registry provides the process-wide catalog of service capabilities.
// It is populated once at startup and read-only afterwards.
package registry

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/dukex/areion/pkg/protocol"
)

type Registry struct {
	logger   *slog.Logger
	services map[string]protocol.Service
}

func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		logger:   logger.With("module", "registry"),
		services: make(map[string]protocol.Service),
	}
}

// RegisterService adds a service's capability bundle. Registering the same
// service id twice is a programming error surfaced at startup.
func (r *Registry) RegisterService(service protocol.Service) error {
	if _, exists := r.services[service.ID()]; exists {
		return fmt.Errorf("service '%s' already registered", service.ID())
	}

	r.services[service.ID()] = service
	r.logger.Info("Registered service",
		"service", service.ID(),
		"triggers", len(service.Triggers()),
		"reactions", len(service.Reactions()))

	return nil
}

// Service looks up a registered service. Absence is a normal outcome: a
// stored binding may reference a service that was since removed.
func (r *Registry) Service(serviceID string) (protocol.Service, bool) {
	service, ok := r.services[serviceID]

	return service, ok
}

// Trigger looks up one trigger capability by (service, name).
func (r *Registry) Trigger(serviceID, triggerName string) (protocol.Trigger, bool) {
	service, ok := r.services[serviceID]
	if !ok {
		return nil, false
	}

	for _, trigger := range service.Triggers() {
		if trigger.Name() == triggerName {
			return trigger, true
		}
	}

	return nil, false
}

// Reaction looks up one reaction capability by (service, name).
func (r *Registry) Reaction(serviceID, reactionName string) (protocol.Reaction, bool) {
	service, ok := r.services[serviceID]
	if !ok {
		return nil, false
	}

	for _, reaction := range service.Reactions() {
		if reaction.Name() == reactionName {
			return reaction, true
		}
	}

	return nil, false
}

// Services returns all registered services sorted by id, for the capability
// catalog endpoint.
func (r *Registry) Services() []protocol.Service {
	services := make([]protocol.Service, 0, len(r.services))
	for _, service := range r.services {
		services = append(services, service)
	}

	sort.Slice(services, func(i, j int) bool {
		return services[i].ID() < services[j].ID()
	})

	return services
}
