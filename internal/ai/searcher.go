// Package ai 提供尽力而为的语义检索
package ai

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/haierkeys/fast-note-offline-client/internal/domain"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/bytedance/sonic"
	"go.uber.org/zap"
)

// Config 语义检索配置
type Config struct {
	Enable  bool
	APIKey  string
	Model   string
	Timeout time.Duration
	// MaxNotes 单次送入模型的候选上限
	MaxNotes int
}

// Searcher 调用模型对候选笔记做语义排序
// 任何失败只记日志，调用方回退到子串匹配
type Searcher struct {
	client  anthropic.Client
	config  Config
	logger  *zap.Logger
	enabled bool
}

// NewSearcher 创建语义检索器，未启用或缺密钥时返回空实现
func NewSearcher(c Config, lg *zap.Logger) *Searcher {
	s := &Searcher{
		config: c,
		logger: lg,
	}
	if c.Timeout <= 0 {
		s.config.Timeout = 15 * time.Second
	}
	if c.MaxNotes <= 0 {
		s.config.MaxNotes = 50
	}
	if s.config.Model == "" {
		s.config.Model = string(anthropic.ModelClaude3_5HaikuLatest)
	}
	if c.Enable && c.APIKey != "" {
		s.client = anthropic.NewClient(option.WithAPIKey(c.APIKey))
		s.enabled = true
	}
	return s
}

// Enabled 语义检索是否可用
func (s *Searcher) Enabled() bool {
	return s.enabled
}

type candidate struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

const systemPrompt = "You rank personal notes by relevance to a query. " +
	"Reply with a JSON array of note ids ordered from most to least relevant. " +
	"Omit notes that are clearly irrelevant. Reply with the JSON array only."

// Rank 按查询对候选笔记做一次语义排序，返回命中的笔记ID
func (s *Searcher) Rank(ctx context.Context, query string, notes []*domain.Note) ([]string, error) {
	if !s.enabled {
		return nil, fmt.Errorf("semantic search disabled")
	}
	if len(notes) == 0 {
		return nil, nil
	}
	if len(notes) > s.config.MaxNotes {
		notes = notes[:s.config.MaxNotes]
	}

	candidates := make([]candidate, 0, len(notes))
	for _, n := range notes {
		candidates = append(candidates, candidate{
			ID:      n.ID,
			Title:   n.Title,
			Content: truncate(n.Content, 500),
		})
	}
	corpus, err := sonic.MarshalString(candidates)
	if err != nil {
		return nil, err
	}

	callCtx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	prompt := fmt.Sprintf("Query: %s\n\nNotes:\n%s", query, corpus)
	message, err := s.client.Messages.New(callCtx, anthropic.MessageNewParams{
		Model:     anthropic.Model(s.config.Model),
		MaxTokens: 1024,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return nil, err
	}

	var reply strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			reply.WriteString(block.Text)
		}
	}
	ids, err := parseIDReply(reply.String())
	if err != nil {
		return nil, err
	}

	// 只保留真实存在的候选，模型可能编造ID
	known := make(map[string]struct{}, len(notes))
	for _, n := range notes {
		known[n.ID] = struct{}{}
	}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := known[id]; ok {
			out = append(out, id)
		}
	}
	s.logger.Debug("semantic rank finished",
		zap.Int("candidates", len(notes)),
		zap.Int("hits", len(out)))
	return out, nil
}

func parseIDReply(reply string) ([]string, error) {
	start := strings.Index(reply, "[")
	end := strings.LastIndex(reply, "]")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("reply carries no JSON array")
	}
	var ids []string
	if err := sonic.UnmarshalString(reply[start:end+1], &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// truncate 在不超过 max 字节的字符边界处截断
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}
