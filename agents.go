// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package main

import (
	"flag"
	"fmt"

	"github.com/zeromicro/go-zero/core/logx"

	"github.com/nicholasmartin/agents-api/internal/cli"
	"github.com/nicholasmartin/agents-api/internal/config"
	"github.com/nicholasmartin/agents-api/internal/handler"
	"github.com/nicholasmartin/agents-api/internal/svc"
)

var configFile = flag.String("f", "etc/agents.yaml", "the config file")

func main() {
	flag.Parse()

	cfg := config.MustLoad(*configFile)

	ctx, err := svc.NewServiceContext(*cfg)
	if err != nil {
		logx.Must(err)
	}
	defer ctx.Close()

	server, err := handler.NewServer(*cfg, ctx)
	if err != nil {
		logx.Must(err)
	}
	defer server.Stop()

	cli.LogConfigSummary(cfg)
	fmt.Printf("Starting server at %s:%d...\n", cfg.Host, cfg.Port)
	server.Start()
}
