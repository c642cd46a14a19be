// Package cmd provides common initialization for the areion binaries.
package cmd

import (
	"log/slog"

	"github.com/dukex/areion/pkg/integrations/discord"
	"github.com/dukex/areion/pkg/integrations/github"
	"github.com/dukex/areion/pkg/integrations/httpcall"
	"github.com/dukex/areion/pkg/integrations/logmsg"
	"github.com/dukex/areion/pkg/integrations/timer"
	"github.com/dukex/areion/pkg/protocol"
	"github.com/dukex/areion/pkg/registry"
)

// NewRegistry builds the capability registry with the native integrations.
func NewRegistry(logger *slog.Logger) (*registry.Registry, error) {
	reg := registry.NewRegistry(logger)

	native := []protocol.Service{
		github.NewService(),
		discord.NewService(),
		httpcall.NewService(),
		timer.NewService(),
		logmsg.NewService(),
	}

	for _, service := range native {
		err := reg.RegisterService(service)
		if err != nil {
			return nil, err
		}
	}

	return reg, nil
}
