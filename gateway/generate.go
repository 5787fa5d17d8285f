package gateway

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"
	"github.com/kaptinlin/jsonrepair"
	"github.com/tbxark/planagent/plan"
	"github.com/tbxark/planagent/schedule"
)

const generationTemperature = 0.7

// Service is what the HTTP layer needs from a generation backend.
type Service interface {
	GeneratePlan(ctx context.Context, p plan.EventPlan) (string, error)
	RegenerateActivity(ctx context.Context, day string, act schedule.Activity, prompt string) (schedule.Activity, error)
}

// ModelGenerator backs Service with a chat model. Whole-plan generation
// returns raw message content; single-activity regeneration forces a
// tool call so the reply arrives as structured arguments.
type ModelGenerator struct {
	chatModel    model.ToolCallingChatModel
	activityTool *schema.ToolInfo
}

func NewModelGenerator(chatModel model.ToolCallingChatModel) (*ModelGenerator, error) {
	toolInfo, err := utils.GoStruct2ToolInfo[schedule.Activity](
		"update_activity",
		"Replace one schedule activity with a rewritten version",
	)
	if err != nil {
		return nil, fmt.Errorf("convert tool info failed: %w", err)
	}
	return &ModelGenerator{
		chatModel:    chatModel,
		activityTool: toolInfo,
	}, nil
}

func (g *ModelGenerator) GeneratePlan(ctx context.Context, p plan.EventPlan) (string, error) {
	prompt, err := buildPlanPrompt(p)
	if err != nil {
		return "", fmt.Errorf("build plan prompt: %w", err)
	}
	messages := []*schema.Message{
		schema.SystemMessage(systemPrompt),
		schema.UserMessage(prompt),
	}
	response, err := g.chatModel.Generate(ctx, messages,
		model.WithTemperature(generationTemperature),
	)
	if err != nil {
		return "", fmt.Errorf("call model failed: %w", err)
	}
	return response.Content, nil
}

func (g *ModelGenerator) RegenerateActivity(ctx context.Context, day string, act schedule.Activity, prompt string) (schedule.Activity, error) {
	var zero schedule.Activity
	messages := []*schema.Message{
		schema.SystemMessage(systemPrompt),
		schema.UserMessage(buildRegeneratePrompt(RegenerateRequest{Day: day, Activity: act, Prompt: prompt})),
	}
	response, err := g.chatModel.Generate(ctx, messages,
		model.WithTemperature(generationTemperature),
		model.WithTools([]*schema.ToolInfo{g.activityTool}),
		model.WithToolChoice(schema.ToolChoiceForced, g.activityTool.Name),
	)
	if err != nil {
		return zero, fmt.Errorf("call model failed: %w", err)
	}
	if len(response.ToolCalls) == 0 {
		return zero, fmt.Errorf("no ToolCall found in model response: %s", response.Content)
	}
	args := response.ToolCalls[0].Function.Arguments
	var result schedule.Activity
	if uErr := sonic.UnmarshalString(args, &result); uErr != nil {
		repaired, rErr := jsonrepair.JSONRepair(args)
		if rErr != nil {
			return zero, fmt.Errorf("parse ToolCall arguments failed: %w", uErr)
		}
		if uErr2 := sonic.UnmarshalString(repaired, &result); uErr2 != nil {
			return zero, fmt.Errorf("parse ToolCall arguments failed: %w", uErr)
		}
		slog.Warn("repaired malformed tool arguments", "tool", g.activityTool.Name)
	}
	if result.Title == "" {
		return zero, fmt.Errorf("model returned an activity without a title")
	}
	return result, nil
}
