package generation

import (
	"strings"

	veoconfig "github.com/shouni/go-veo-kit/pkg/config"
	"github.com/shouni/go-veo-kit/pkg/domain"
)

// フォールバック用の固定デフォルト文言なのだ。リモート呼び出しは一切行いません。
const (
	fallbackCharacter = "A friendly outdoor enthusiast"
	fallbackSetting   = "A beautiful outdoor location with natural scenery"
	fallbackMood      = "Friendly, adventurous, and authentic, like a genuine vlog moment"
	fallbackAction    = "The character smiles and waves at the camera while sharing the moment"
	fallbackSound     = "natural ambient sounds"
	fallbackLandscape = "Natural outdoor environment with trees and open sky"
	fallbackProp      = "camera equipment"
)

// FallbackPrompt は、生のシーン入力だけから決定論的に GeneratedPrompt を構築します。
// 空のフィールドには固定のデフォルト文言を充て、常に有効な結果を返すため、
// リモートサービスの状態に関わらずパイプラインは必ず1シーン1結果を生み出せるのだ。
func FallbackPrompt(fields domain.SceneFields) domain.GeneratedPrompt {
	sounds := domain.ParseUniqueList(fields.Sounds, domain.MaxSharedSounds)
	if len(sounds) == 0 {
		sounds = []string{fallbackSound}
	}

	props := domain.ParseUniqueList(fields.Props, domain.MaxSharedProps)
	if len(props) == 0 {
		props = []string{fallbackProp}
	}

	return domain.GeneratedPrompt{
		MainCharacterDescription: orDefault(fields.Character, fallbackCharacter),
		SceneSettingDescription:  orDefault(fields.SceneSetting, fallbackSetting),
		AtmosphereAndMood:        fallbackMood,
		CoreActionAndDialogue:    orDefault(fields.ActionDialogue, fallbackAction),
		CameraStyle:              orDefault(fields.CameraStyle, veoconfig.DefaultCameraStyle),
		Sounds:                   sounds,
		LandscapeNotes:           orDefault(fields.Landscape, fallbackLandscape),
		Props:                    props,
	}
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return strings.TrimSpace(value)
}
