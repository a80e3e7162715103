package prompts

import (
	_ "embed"
)

const (
	ModeScene   = "scene"
	ModeEnhance = "enhance"
)

var (
	//go:embed scene.md
	ScenePrompt string
	//go:embed enhance.md
	EnhancePrompt string
)

// allTemplates はモードとテンプレート文字列を紐づけるマップなのだ。
var allTemplates = map[string]string{
	ModeScene:   ScenePrompt,
	ModeEnhance: EnhancePrompt,
}

// SceneData はシーン指示テンプレートに渡すデータ構造です。
// リスト系フィールドはマージ・重複排除・上限切り詰めの済んだ結合済み文字列です。
type SceneData struct {
	SceneNumber     int
	DurationSeconds int
	OverallStory    string
	Characters      string
	SceneSetting    string
	ActionDialogue  string
	CameraStyle     string
	Sounds          string
	Landscape       string
	Props           string
}

// EnhanceData は強化リライトテンプレートに渡すデータ構造です。
type EnhanceData struct {
	Seed string
}
