// Package mcp exposes the storytelling engine over the Model Context
// Protocol so agent hosts can drive sessions as tools.
package mcp

import (
	"context"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"storyloom/internal/engine"
	"storyloom/internal/session"
)

type Server struct {
	store  session.Store
	engine *engine.Engine
	mcp    *sdk.Server
}

func NewServer(store session.Store, eng *engine.Engine, version string) *Server {
	s := &Server{
		store:  store,
		engine: eng,
		mcp: sdk.NewServer(&sdk.Implementation{
			Name:    "storyloom",
			Version: version,
		}, nil),
	}
	s.registerTools()
	return s
}

func (s *Server) Run(ctx context.Context, transport sdk.Transport) error {
	return s.mcp.Run(ctx, transport)
}
