// Package generation は、リモート言語モデルに対する唯一の呼び出し境界を提供します。
// 呼び出しは常に1回限りであり、内部でのリトライは行いません。
// 再試行はトーンの一貫性を壊すため、失敗はそのまま呼び出し元に返すのだ。
package generation

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/shouni/go-veo-kit/pkg/domain"

	"github.com/shouni/go-gemini-client/pkg/gemini"
	"golang.org/x/time/rate"
)

// PromptGenerator は、指示文字列から構造化プロンプトを生成する契約です。
type PromptGenerator interface {
	// GeneratePrompt は指示文を送信し、構造化された GeneratedPrompt を返します。
	// 通信失敗・応答の形崩れはいずれも *Error として返されます。
	GeneratePrompt(ctx context.Context, instruction string) (*domain.GeneratedPrompt, error)
}

// DescriptionEnhancer は、キャラクター説明の強化リライトを行う契約です。
type DescriptionEnhancer interface {
	// EnhanceDescription は指示文を送信し、1行の強化済み説明文を返します。
	EnhanceDescription(ctx context.Context, instruction string) (string, error)
}

var jsonBlockRegex = regexp.MustCompile("(?s)```(?:json)?\\s*(.*\\S)\\s*```")

// GeminiClient は gemini.GenerativeModel を PromptGenerator / DescriptionEnhancer に適合させます。
type GeminiClient struct {
	aiClient gemini.GenerativeModel
	model    string
	limiter  *rate.Limiter
}

// NewGeminiClient は依存関係を注入して GeminiClient を初期化します。
// limiter に nil を渡した場合、レート制限は行われません。
func NewGeminiClient(aiClient gemini.GenerativeModel, model string, limiter *rate.Limiter) *GeminiClient {
	return &GeminiClient{
		aiClient: aiClient,
		model:    model,
		limiter:  limiter,
	}
}

// GeneratePrompt は指示文を Gemini に送信し、応答の JSON を GeneratedPrompt に変換します。
func (c *GeminiClient) GeneratePrompt(ctx context.Context, instruction string) (*domain.GeneratedPrompt, error) {
	text, err := c.generateText(ctx, instruction)
	if err != nil {
		return nil, err
	}

	prompt, err := ParsePromptResponse(text)
	if err != nil {
		return nil, &Error{Kind: KindParse, Model: c.model, Err: err}
	}
	return prompt, nil
}

// EnhanceDescription は強化リライトの指示文を送信し、引用符を剥がした1行テキストを返します。
func (c *GeminiClient) EnhanceDescription(ctx context.Context, instruction string) (string, error) {
	text, err := c.generateText(ctx, instruction)
	if err != nil {
		return "", err
	}
	return StripQuotes(text), nil
}

// generateText はレート制限の待機と GenerateContent の実行を行う共通経路です。
func (c *GeminiClient) generateText(ctx context.Context, instruction string) (string, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", &Error{Kind: KindCall, Model: c.model, Err: fmt.Errorf("リミッター待機中にエラーが発生しました: %w", err)}
		}
	}

	slog.Debug("Calling Gemini API", "model", c.model, "instruction_len", len(instruction))
	resp, err := c.aiClient.GenerateContent(ctx, instruction, c.model)
	if err != nil {
		return "", &Error{Kind: KindCall, Model: c.model, Err: err}
	}
	return resp.Text, nil
}

// ParsePromptResponse は AI 応答テキストから JSON を抽出し、GeneratedPrompt に変換します。
// フェンス付きコードブロック、最外の中括弧、応答全体の順でフォールバックするのだ。
func ParsePromptResponse(raw string) (*domain.GeneratedPrompt, error) {
	raw = strings.TrimSpace(raw)
	var rawJSON string

	matches := jsonBlockRegex.FindStringSubmatch(raw)
	if len(matches) > 1 {
		rawJSON = matches[1]
	} else {
		firstBracket := strings.Index(raw, "{")
		lastBracket := strings.LastIndex(raw, "}")
		if firstBracket != -1 && lastBracket != -1 && lastBracket > firstBracket {
			rawJSON = raw[firstBracket : lastBracket+1]
		} else {
			rawJSON = raw
		}
	}

	var prompt domain.GeneratedPrompt
	if err := json.Unmarshal([]byte(rawJSON), &prompt); err != nil {
		return nil, fmt.Errorf("AIからの応答に含まれるJSONの解析に失敗しました (応答抜粋: %q): %w", truncateString(raw, 200), err)
	}

	// 構文上は正しいJSONでも、期待するキーを持たない応答は形崩れとして扱うのだ。
	if isBlank(prompt.MainCharacterDescription) &&
		isBlank(prompt.SceneSettingDescription) &&
		isBlank(prompt.CoreActionAndDialogue) {
		return nil, fmt.Errorf("AIからの応答に必須フィールドが含まれていません (応答抜粋: %q)", truncateString(raw, 200))
	}
	return &prompt, nil
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// StripQuotes は応答の前後空白と囲み引用符を除去します。
func StripQuotes(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, "\"'“”「」『』")
	return strings.TrimSpace(s)
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
