package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/zeromicro/go-zero/core/logx"

	"github.com/nicholasmartin/agents-api/internal/config"
	"github.com/nicholasmartin/agents-api/internal/logic"
	"github.com/nicholasmartin/agents-api/internal/svc"
	"github.com/nicholasmartin/agents-api/internal/types"
)

func fatalf(format string, args ...interface{}) {
	logx.Errorf(format, args...)
	os.Exit(1)
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fatalf("encode output: %v", err)
	}
}

func main() {
	var (
		configPath  = flag.String("f", config.ProjectPath("etc/agents.yaml"), "the config file")
		generate    = flag.Bool("generate", false, "run the idea generation crew")
		validate    = flag.String("validate", "", "run the validation crew against the given idea")
		constraints = flag.String("constraints", "", "constraints passed to idea generation")
		industry    = flag.String("industry", "", "industry passed to idea generation")
		tech        = flag.String("tech", "", "technology focus passed to idea generation")
		history     = flag.Int("history", 0, "print the N most recent recorded runs and exit")
		kind        = flag.String("kind", "", "filter -history by run kind (generate|validate)")
	)
	flag.Parse()
	logx.MustSetup(logx.LogConf{})
	logx.DisableStat()

	if !*generate && *validate == "" && *history <= 0 {
		fatalf("nothing to do; pass -generate, -validate <idea> or -history <n>")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fatalf("load config: %v", err)
	}
	svcCtx, err := svc.NewServiceContext(*cfg)
	if err != nil {
		fatalf("build service context: %v", err)
	}
	defer svcCtx.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logx.Infof("received signal %s, cancelling crew run", sig)
		cancel()
	}()

	switch {
	case *history > 0:
		if svcCtx.Runs == nil {
			fatalf("run history needs Postgres.DSN in %s", *configPath)
		}
		summaries, err := svcCtx.Runs.Recent(ctx, *kind, *history)
		if err != nil {
			fatalf("load run history: %v", err)
		}
		printJSON(summaries)
	case *generate:
		resp, err := logic.NewGenerateIdeasLogic(ctx, svcCtx).GenerateIdeas(&types.GenerateIdeasRequest{
			Constraints:     *constraints,
			Industry:        *industry,
			TechnologyFocus: *tech,
		})
		if err != nil {
			fatalf("%v", err)
		}
		printJSON(resp)
	default:
		resp, err := logic.NewValidateIdeaLogic(ctx, svcCtx).ValidateIdea(&types.ValidateIdeaRequest{Idea: *validate})
		if err != nil {
			fatalf("%v", err)
		}
		printJSON(resp)
	}
}
