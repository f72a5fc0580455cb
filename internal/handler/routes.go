package handler

import (
	"net/http"

	"github.com/zeromicro/go-zero/rest"

	"github.com/nicholasmartin/agents-api/internal/svc"
)

func RegisterHandlers(server *rest.Server, serverCtx *svc.ServiceContext) {
	server.AddRoutes(
		[]rest.Route{
			{
				Method:  http.MethodGet,
				Path:    "/",
				Handler: WelcomeHandler(serverCtx),
			},
			{
				Method:  http.MethodPost,
				Path:    "/generate-ideas",
				Handler: GenerateIdeasHandler(serverCtx),
			},
			{
				Method:  http.MethodPost,
				Path:    "/validate-idea",
				Handler: ValidateIdeaHandler(serverCtx),
			},
		},
	)
}
