package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	orchestratorx "github.com/tasia-assistant/tasia/agent/agents/orchestrator"
	responderx "github.com/tasia-assistant/tasia/agent/agents/responder"
	promptx "github.com/tasia-assistant/tasia/agent/prompt"
	sessionx "github.com/tasia-assistant/tasia/agent/session"
	toolx "github.com/tasia-assistant/tasia/agent/tool"
	gatewayx "github.com/tasia-assistant/tasia/gateway"
	configx "github.com/tasia-assistant/tasia/pkg/config"
	_ "github.com/tasia-assistant/tasia/pkg/logger/autoload"
	openaix "github.com/tasia-assistant/tasia/pkg/openai"
	telegramx "github.com/tasia-assistant/tasia/pkg/telegram"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	openaiCfg := configx.MustNew[openaix.Config]("OPENAI")
	if openaix.NewClient(*openaiCfg) == nil {
		panic("failed to initialize openai client")
	}
	chatModel, err := openaiCfg.New(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build chat model")
	}

	redisCfg := configx.MustNew[sessionx.UpstashRedisConfig]("REDIS")
	store, err := sessionx.NewUpstashRedisStore(*redisCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build session store")
	}

	registry := toolx.NewRegistry()

	translateCfg := configx.MustNew[toolx.ServiceConfig]("TRANSLATION")
	translateSvc, err := toolx.Discover(ctx, *translateCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to discover translation capability")
	}
	translate, err := toolx.NewTranslateCapability(translateSvc)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build translation capability")
	}
	if err := registry.Register(translate); err != nil {
		log.Fatal().Err(err).Msg("failed to register translation capability")
	}

	aboutMeCfg := configx.MustNew[toolx.ServiceConfig]("RAG")
	aboutMeSvc, err := toolx.Discover(ctx, *aboutMeCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to discover retrieval capability")
	}
	aboutMe, err := toolx.NewAboutMeCapability(aboutMeSvc)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build retrieval capability")
	}
	if err := registry.Register(aboutMe); err != nil {
		log.Fatal().Err(err).Msg("failed to register retrieval capability")
	}

	// Both capabilities are mandatory; a registry without them cannot serve
	// the routing rules.
	for _, name := range []string{toolx.CapabilityTranslate, toolx.CapabilityAboutMe} {
		if _, err := registry.Resolve(name); err != nil {
			log.Fatal().Err(err).Str("capability", name).Msg("mandatory capability missing")
		}
	}

	var archive *sessionx.TranscriptArchive
	archiveCfg := configx.MustNew[sessionx.ArchiveConfig]("DATABASE")
	if archiveCfg.URL != "" {
		archive, err = sessionx.NewTranscriptArchive(*archiveCfg)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to build transcript archive")
		}
		if err := archive.Init(ctx); err != nil {
			log.Fatal().Err(err).Msg("failed to initialize transcript archive")
		}
		defer archive.Close()
	}

	systemPrompt := promptx.AssistantPrompt(registry.Descriptions())
	responder, err := responderx.New(ctx, chatModel, systemPrompt, registry)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build responder")
	}

	pipelineCfg := configx.MustNew[orchestratorx.Config]("ASK")
	pipeline, err := orchestratorx.New(ctx, *pipelineCfg, store, registry, responder, archive)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build orchestrator")
	}

	telegramCfg := configx.MustNew[telegramx.Config]("TELEGRAM")
	sender := telegramx.MustNew(*telegramCfg)

	gatewayCfg := configx.MustNew[gatewayx.Config]("GATEWAY")
	server, err := gatewayx.NewServer(*gatewayCfg, pipeline, sender)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build gateway")
	}

	if err := server.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("gateway terminated")
	}
}
