package handler

import (
	"net/http"

	"github.com/zeromicro/go-zero/rest/httpx"

	"github.com/nicholasmartin/agents-api/internal/logic"
	"github.com/nicholasmartin/agents-api/internal/svc"
	"github.com/nicholasmartin/agents-api/internal/types"
)

func ValidateIdeaHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.ValidateIdeaRequest
		if err := httpx.Parse(r, &req); err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
			return
		}

		l := logic.NewValidateIdeaLogic(r.Context(), svcCtx)
		resp, err := l.ValidateIdea(&req)
		if err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
		} else {
			httpx.OkJsonCtx(r.Context(), w, resp)
		}
	}
}
