// Package prompts は、シーン入力と共有エンティティプールから
// 言語モデル向けの自己完結した指示文を組み立てます。
package prompts

import (
	"fmt"
	"strings"
	"text/template"

	veoconfig "github.com/shouni/go-veo-kit/pkg/config"
	"github.com/shouni/go-veo-kit/pkg/domain"
)

// ScenePromptComposer はシーン指示文の構成を管理し、テンプレートの解析結果を内包します。
type ScenePromptComposer struct {
	templates     map[string]*template.Template
	cameraDefault string
	clipSeconds   int
}

// NewScenePromptComposer は埋め込みテンプレートを解析して ScenePromptComposer を初期化します。
// cameraDefault が空の場合は既定のカメラスタイルを使うのだ。
func NewScenePromptComposer(cameraDefault string) (*ScenePromptComposer, error) {
	if strings.TrimSpace(cameraDefault) == "" {
		cameraDefault = veoconfig.DefaultCameraStyle
	}
	parsedTemplates := make(map[string]*template.Template)
	for mode, content := range allTemplates {
		if content == "" {
			return nil, fmt.Errorf("プロンプトテンプレート '%s' (go:embed) の読み込みに失敗しました: 内容が空です", mode)
		}

		tmpl, err := template.New(mode).Parse(content)
		if err != nil {
			return nil, fmt.Errorf("プロンプト '%s' の解析に失敗: %w", mode, err)
		}
		parsedTemplates[mode] = tmpl
	}

	return &ScenePromptComposer{
		templates:     parsedTemplates,
		cameraDefault: cameraDefault,
		clipSeconds:   veoconfig.ClipDurationSeconds,
	}, nil
}

// BuildSceneInstruction は、1シーン分の入力と共有プールを統合した指示文を生成します。
// シーン固有フィールドを優先し、プール側の要素を上限まで補うのだ。
func (c *ScenePromptComposer) BuildSceneInstruction(fields domain.SceneFields, sceneNumber int, pool *domain.ConsistencyPool) (string, error) {
	story := ""
	if pool != nil {
		story = pool.OverallStory
	}

	data := SceneData{
		SceneNumber:     sceneNumber,
		DurationSeconds: c.clipSeconds,
		OverallStory:    story,
		Characters:      c.substituteCharacters(fields.Character, pool),
		SceneSetting:    strings.TrimSpace(fields.SceneSetting),
		ActionDialogue:  strings.TrimSpace(fields.ActionDialogue),
		CameraStyle:     c.cameraStyle(fields.CameraStyle),
		Sounds:          strings.Join(c.mergeSounds(fields, pool), ", "),
		Landscape:       strings.Join(c.mergeLandscape(fields, pool), ", "),
		Props:           strings.Join(c.mergeProps(fields, pool), ", "),
	}

	return c.execute(ModeScene, data)
}

// BuildEnhancementInstruction は、シード説明文の強化リライト指示を生成します。
func (c *ScenePromptComposer) BuildEnhancementInstruction(seed string) (string, error) {
	return c.execute(ModeEnhance, EnhanceData{Seed: strings.TrimSpace(seed)})
}

// execute は、要求されたモードに応じて適切なテンプレートを実行します。
func (c *ScenePromptComposer) execute(mode string, data any) (string, error) {
	tmpl, ok := c.templates[mode]
	if !ok {
		return "", fmt.Errorf("不明なモードです: '%s'", mode)
	}

	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("プロンプトテンプレートの実行に失敗しました: %w", err)
	}
	return sb.String(), nil
}

// substituteCharacters は、シーンに現れる各キャラクター名をプールの正規説明文に置換し、
// ", and " で結合します。正規説明文を持たない名前は生のまま残るのだ。
func (c *ScenePromptComposer) substituteCharacters(rawCharacter string, pool *domain.ConsistencyPool) string {
	names := domain.ParseUniqueList(rawCharacter, 0)
	if len(names) == 0 {
		return ""
	}

	descriptions := make([]string, 0, len(names))
	for _, name := range names {
		descriptions = append(descriptions, pool.DescriptionFor(name))
	}
	return strings.Join(descriptions, ", and ")
}

func (c *ScenePromptComposer) cameraStyle(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return c.cameraDefault
	}
	return strings.TrimSpace(raw)
}

// mergeSounds はシーン固有の音を先頭に置き、プールの共有音で上限まで補います。
func (c *ScenePromptComposer) mergeSounds(fields domain.SceneFields, pool *domain.ConsistencyPool) []string {
	local := domain.ParseUniqueList(fields.Sounds, domain.MaxSharedSounds)
	if pool == nil {
		return local
	}
	return domain.AppendUnique(local, pool.SharedSounds, domain.MaxSharedSounds)
}

// mergeLandscape はシーン固有の風景テキストを先頭に置き、そのテキスト中に
// 大文字小文字を無視して現れていないプール側の要素だけを上限まで補います。
func (c *ScenePromptComposer) mergeLandscape(fields domain.SceneFields, pool *domain.ConsistencyPool) []string {
	localText := strings.TrimSpace(fields.Landscape)

	var merged []string
	if localText != "" {
		merged = append(merged, localText)
	}
	if pool == nil {
		return merged
	}

	lowerLocal := strings.ToLower(localText)
	for _, entry := range pool.SharedLandscape {
		if len(merged) >= domain.MaxSharedLandscape {
			break
		}
		if lowerLocal != "" && strings.Contains(lowerLocal, strings.ToLower(entry)) {
			continue
		}
		merged = append(merged, entry)
	}
	return merged
}

// mergeProps はシーン固有の小道具を先頭に置き、プールの共有小道具で上限まで補います。
func (c *ScenePromptComposer) mergeProps(fields domain.SceneFields, pool *domain.ConsistencyPool) []string {
	local := domain.ParseUniqueList(fields.Props, domain.MaxSharedProps)
	if pool == nil {
		return local
	}
	return domain.AppendUnique(local, pool.SharedProps, domain.MaxSharedProps)
}
