// Package publisher は、シーンごとの生成結果と共有メタ情報を
// 1つの配信用ドキュメント（Markdown）に統合します。
package publisher

import (
	"fmt"
	"strings"

	veoconfig "github.com/shouni/go-veo-kit/pkg/config"
	"github.com/shouni/go-veo-kit/pkg/domain"
)

// MarkdownPublisher は、生成結果を構造化された Markdown 形式で出力する役割を担います。
// `## VIDEO <n>:` などのリテラルマーカーは下流レンダラとのワイヤフォーマットなので、
// 変更してはいけないのだ。
type MarkdownPublisher struct {
}

func NewMarkdownPublisher() *MarkdownPublisher {
	return &MarkdownPublisher{}
}

// BuildDocument は、共有プールとシーン結果の列から最終ドキュメントを構築します。
// シーンブロックの並びは SceneResult の並び（＝投入順）をそのまま維持します。
func (mp *MarkdownPublisher) BuildDocument(pool *domain.ConsistencyPool, results []domain.SceneResult) string {
	var sb strings.Builder

	// 1. ヘッダー: 合計尺・ストーリー・主要キャラクター
	totalSeconds := veoconfig.ClipDurationSeconds * len(results)
	sb.WriteString("# Multi-Scene Video Prompt Script\n\n")
	sb.WriteString(fmt.Sprintf("**Total duration:** %d seconds (%d scenes x %d seconds)\n",
		totalSeconds, len(results), veoconfig.ClipDurationSeconds))

	if pool != nil {
		sb.WriteString(fmt.Sprintf("**Overall story:** %s\n", pool.OverallStory))
		if len(pool.MainCharacters) > 0 {
			sb.WriteString(fmt.Sprintf("**Main characters:** %s\n", strings.Join(pool.MainCharacters, ", ")))
		}
	}
	sb.WriteString("\n---\n\n")

	// 2. シーンブロックの出力
	for i, result := range results {
		mp.writeSceneBlock(&sb, result)
		if i < len(results)-1 {
			sb.WriteString("\n---\n\n")
		}
	}

	return sb.String()
}

// writeSceneBlock は1シーン分の固定フォーマットブロックを書き出します。
func (mp *MarkdownPublisher) writeSceneBlock(sb *strings.Builder, result domain.SceneResult) {
	prompt := result.Prompt

	sb.WriteString(fmt.Sprintf("## VIDEO %d:\n", result.SceneNumber))
	sb.WriteString(fmt.Sprintf("%s in %s. Mood: %s\n\n",
		prompt.MainCharacterDescription,
		prompt.SceneSettingDescription,
		prompt.AtmosphereAndMood))
	sb.WriteString(fmt.Sprintf("%s\n\n", prompt.CoreActionAndDialogue))
	sb.WriteString(fmt.Sprintf("**Camera style:** %s\n", prompt.CameraStyle))
	sb.WriteString(fmt.Sprintf("**Sounds:** %s\n", strings.Join(prompt.Sounds, ", ")))
	sb.WriteString(fmt.Sprintf("**Landscape:** %s\n", prompt.LandscapeNotes))
	sb.WriteString(fmt.Sprintf("**Props:** %s\n", strings.Join(prompt.Props, ", ")))
}
