package logic

import (
	"context"

	"github.com/zeromicro/go-zero/core/logx"

	"github.com/nicholasmartin/agents-api/internal/svc"
	"github.com/nicholasmartin/agents-api/internal/types"
)

const welcomeMessage = "Welcome to the CrewAI Startup Ideas API"

type WelcomeLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewWelcomeLogic(ctx context.Context, svcCtx *svc.ServiceContext) *WelcomeLogic {
	return &WelcomeLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *WelcomeLogic) Welcome() (*types.WelcomeResponse, error) {
	return &types.WelcomeResponse{Message: welcomeMessage}, nil
}
