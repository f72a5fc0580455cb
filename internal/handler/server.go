package handler

import (
	"github.com/zeromicro/go-zero/rest"

	"github.com/nicholasmartin/agents-api/internal/config"
	"github.com/nicholasmartin/agents-api/internal/svc"
)

// NewServer builds the REST server with CORS for the configured origins and all routes.
func NewServer(c config.Config, svcCtx *svc.ServiceContext) (*rest.Server, error) {
	server, err := rest.NewServer(c.RestConf, rest.WithCors(c.Cors...))
	if err != nil {
		return nil, err
	}
	UseErrorHandler()
	RegisterHandlers(server, svcCtx)
	return server, nil
}
