package domain

import "strings"

// SceneFields は1シーン分のユーザー入力フィールドを保持します。
// すべて任意入力であり、ビルダーに渡した後は変更しない前提なのだ。
type SceneFields struct {
	Character      string `json:"character"`
	SceneSetting   string `json:"scene_setting"`
	ActionDialogue string `json:"action_dialogue"`
	CameraStyle    string `json:"camera_style"`
	Sounds         string `json:"sounds"`
	Landscape      string `json:"landscape"`
	Props          string `json:"props"`
}

// IsEmpty は、キャラクター・舞台・アクションのすべてが空白かどうかを判定します。
// 3つとも空のシーンは生成対象から除外される（スキップルール）のだ。
func (f SceneFields) IsEmpty() bool {
	return strings.TrimSpace(f.Character) == "" &&
		strings.TrimSpace(f.SceneSetting) == "" &&
		strings.TrimSpace(f.ActionDialogue) == ""
}

// CharacterAppearance は、シーンに登場するキャラクターの外見メモを保持します。
type CharacterAppearance struct {
	CharacterName         string `json:"character_name"`
	AppearanceDescription string `json:"appearance_description"`
}

// GeneratedPrompt は AI モデル（またはフォールバック）が返す最終プロンプトの構造です。
// 生成後に変更されることはありません。
type GeneratedPrompt struct {
	MainCharacterDescription string                `json:"main_character_description"`
	SceneSettingDescription  string                `json:"scene_setting_description"`
	AtmosphereAndMood        string                `json:"atmosphere_and_mood"`
	CoreActionAndDialogue    string                `json:"core_action_and_dialogue"`
	CameraStyle              string                `json:"camera_style"`
	Sounds                   []string              `json:"sounds"`
	LandscapeNotes           string                `json:"landscape_notes"`
	Props                    []string              `json:"props"`
	CharacterAppearances     []CharacterAppearance `json:"character_appearances,omitempty"`
	TimingBreakdown          map[string]string     `json:"timing_breakdown,omitempty"`
}

// SceneResult は 1 始まりのシーン番号と生成結果のペアです。
// 番号順（＝投入順）が最終ドキュメントの出力順になるのだ。
type SceneResult struct {
	SceneNumber int
	Prompt      GeneratedPrompt
}

// ScriptRequest は CLI が読み込むマルチシーン台本ファイル（JSON）の形です。
type ScriptRequest struct {
	OverallStory   string        `json:"overall_story"`
	MainCharacters string        `json:"main_characters"`
	Scenes         []SceneFields `json:"scenes"`
}
