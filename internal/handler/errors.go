package handler

import (
	"context"

	"github.com/zeromicro/go-zero/rest/httpx"

	"github.com/nicholasmartin/agents-api/internal/errorx"
)

// UseErrorHandler makes httpx answer errors as {"detail": "..."} with their status.
func UseErrorHandler() {
	httpx.SetErrorHandlerCtx(func(_ context.Context, err error) (int, any) {
		return errorx.Handler(err)
	})
}
