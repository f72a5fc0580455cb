package types

import "github.com/nicholasmartin/agents-api/pkg/extract"

type WelcomeResponse struct {
	Message string `json:"message"`
}

type GenerateIdeasRequest struct {
	Constraints     string `json:"constraints,optional"`
	Industry        string `json:"industry,optional"`
	TechnologyFocus string `json:"technology_focus,optional"`
}

type GenerateIdeasResponse struct {
	Ideas []extract.IdeaRecord `json:"ideas"`
}

type ValidateIdeaRequest struct {
	Idea string `json:"idea,optional"`
}

type ValidateIdeaResponse struct {
	MarketAnalysis      string `json:"market_analysis"`
	TechnicalEvaluation string `json:"technical_evaluation"`
	BusinessPlan        string `json:"business_plan"`
}
