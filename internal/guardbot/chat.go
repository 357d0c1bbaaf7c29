package guardbot

import (
	"context"
	_ "embed"
	"strings"
	"time"

	"github.com/quailyquaily/topicguard/internal/prompttmpl"
	"github.com/quailyquaily/topicguard/llm"
)

//go:embed prompts/chat_system.tmpl
var chatSystemPromptTemplateSource string

//go:embed prompts/chat_reference.tmpl
var chatReferencePromptTemplateSource string

var chatReferencePromptTemplate = prompttmpl.MustParse("chat_reference", chatReferencePromptTemplateSource, nil)

type chatReferencePromptData struct {
	Reference string
	Keywords  []string
}

// answerQuestion replies to /chat with a paraphrase of the verification
// reference produced by the inference client.
func (r *Router) answerQuestion(ctx context.Context, from Participant, question string) {
	_ = r.sendText(ctx, from.ID, textThinking)
	_ = r.sendText(ctx, from.ID, r.complete(ctx, question))
}

func (r *Router) complete(ctx context.Context, question string) string {
	if r.llm == nil {
		r.logger.Warn("chat_llm_unconfigured")
		return textChatUnavailable
	}
	data := r.store.BotData()
	messages, err := chatMessages(data.VerificationReference, data.VerificationKeywords, question)
	if err != nil {
		r.logger.Error("chat_prompt_render_error", "error", err.Error())
		return textChatUnavailable
	}
	req := llm.Request{
		Model:       r.cfg.Model,
		Messages:    messages,
		Temperature: r.cfg.Temperature,
		MaxTokens:   r.cfg.MaxTokens,
	}
	started := time.Now()
	res, err := r.llm.Chat(ctx, req)
	if err != nil {
		r.logger.Warn("chat_completion_error", "model", req.Model, "error", err.Error())
		return textChatUnavailable
	}
	r.logger.Info("chat_completion",
		"model", req.Model,
		"duration_ms", time.Since(started).Milliseconds(),
		"total_tokens", res.Usage.TotalTokens,
	)
	text := strings.TrimSpace(res.Text)
	if text == "" {
		return textChatEmptyResponse
	}
	return text
}

func chatMessages(reference string, keywords []string, question string) ([]llm.Message, error) {
	ref, err := prompttmpl.Render(chatReferencePromptTemplate, chatReferencePromptData{
		Reference: strings.TrimSpace(reference),
		Keywords:  cleanKeywords(keywords),
	})
	if err != nil {
		return nil, err
	}
	return []llm.Message{
		{Role: llm.RoleSystem, Content: strings.TrimSpace(chatSystemPromptTemplateSource)},
		{Role: llm.RoleUser, Content: ref},
		{Role: llm.RoleUser, Content: chatQuestionLabel + " " + question},
	}, nil
}

func cleanKeywords(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	return out
}
