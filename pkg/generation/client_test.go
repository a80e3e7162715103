package generation

import (
	"strings"
	"testing"
)

func TestParsePromptResponse(t *testing.T) {
	const body = `{
		"main_character_description": "Bigfoot, a towering creature with shaggy fur",
		"scene_setting_description": "Deep forest at dawn",
		"atmosphere_and_mood": "Playful and warm",
		"core_action_and_dialogue": "Bigfoot waves and says \"Hey guys!\"",
		"camera_style": "POV, selfie stick",
		"sounds": ["rustling leaves", "laughter"],
		"landscape_notes": "Moss-covered rocks and tall pines",
		"props": ["selfie stick"]
	}`

	t.Run("フェンス付きコードブロックから抽出できること", func(t *testing.T) {
		raw := "Here is your prompt:\n```json\n" + body + "\n```\nEnjoy!"
		prompt, err := ParsePromptResponse(raw)
		if err != nil {
			t.Fatalf("解析に失敗しました: %v", err)
		}
		if !strings.HasPrefix(prompt.MainCharacterDescription, "Bigfoot") {
			t.Errorf("main_character_description が壊れています: %q", prompt.MainCharacterDescription)
		}
		if len(prompt.Sounds) != 2 {
			t.Errorf("sounds の件数が期待値 2 ではありません: %v", prompt.Sounds)
		}
	})

	t.Run("フェンスなしでも最外の中括弧から抽出できること", func(t *testing.T) {
		raw := "Sure! " + body + " Hope that helps."
		prompt, err := ParsePromptResponse(raw)
		if err != nil {
			t.Fatalf("解析に失敗しました: %v", err)
		}
		if prompt.CameraStyle != "POV, selfie stick" {
			t.Errorf("camera_style の期待値と異なります: %q", prompt.CameraStyle)
		}
	})

	t.Run("応答全体がJSONの場合も解析できること", func(t *testing.T) {
		if _, err := ParsePromptResponse(body); err != nil {
			t.Fatalf("解析に失敗しました: %v", err)
		}
	})

	t.Run("形の崩れた応答はエラーになること", func(t *testing.T) {
		if _, err := ParsePromptResponse("I cannot do that."); err == nil {
			t.Error("不正な応答でエラーが返りませんでした")
		}
	})

	t.Run("期待するキーを持たないJSONはエラーになること", func(t *testing.T) {
		if _, err := ParsePromptResponse(`{"unrelated": true}`); err == nil {
			t.Error("必須フィールドを欠く応答でエラーが返りませんでした")
		}
	})

	t.Run("コアフィールドが1つでもあれば受理されること", func(t *testing.T) {
		prompt, err := ParsePromptResponse(`{"core_action_and_dialogue": "Luke swings the axe."}`)
		if err != nil {
			t.Fatalf("解析に失敗しました: %v", err)
		}
		if prompt.CoreActionAndDialogue != "Luke swings the axe." {
			t.Errorf("core_action_and_dialogue の期待値と異なります: %q", prompt.CoreActionAndDialogue)
		}
	})
}

func TestStripQuotes(t *testing.T) {
	cases := map[string]string{
		`"a large friendly Yeti"`: "a large friendly Yeti",
		`  'quoted'  `:            "quoted",
		"「雪男の説明」":                 "雪男の説明",
		"no quotes":               "no quotes",
	}
	for in, want := range cases {
		if got := StripQuotes(in); got != want {
			t.Errorf("StripQuotes(%q) = %q, 期待値 %q", in, got, want)
		}
	}
}
