package handler

import (
	"net/http"

	"github.com/zeromicro/go-zero/rest/httpx"

	"github.com/nicholasmartin/agents-api/internal/logic"
	"github.com/nicholasmartin/agents-api/internal/svc"
)

func WelcomeHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l := logic.NewWelcomeLogic(r.Context(), svcCtx)
		resp, err := l.Welcome()
		if err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
		} else {
			httpx.OkJsonCtx(r.Context(), w, resp)
		}
	}
}
