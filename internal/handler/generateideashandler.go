package handler

import (
	"net/http"

	"github.com/zeromicro/go-zero/rest/httpx"

	"github.com/nicholasmartin/agents-api/internal/logic"
	"github.com/nicholasmartin/agents-api/internal/svc"
	"github.com/nicholasmartin/agents-api/internal/types"
)

func GenerateIdeasHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.GenerateIdeasRequest
		if err := httpx.Parse(r, &req); err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
			return
		}

		l := logic.NewGenerateIdeasLogic(r.Context(), svcCtx)
		resp, err := l.GenerateIdeas(&req)
		if err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
		} else {
			httpx.OkJsonCtx(r.Context(), w, resp)
		}
	}
}
