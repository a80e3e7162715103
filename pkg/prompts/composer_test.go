package prompts

import (
	"strings"
	"testing"

	veoconfig "github.com/shouni/go-veo-kit/pkg/config"
	"github.com/shouni/go-veo-kit/pkg/domain"
)

func testPool() *domain.ConsistencyPool {
	return &domain.ConsistencyPool{
		OverallStory:   "Bigfoot and Yeti build a snow kitchen in the mountains.",
		MainCharacters: []string{"Bigfoot", "Yeti"},
		CharacterDescriptions: map[string]string{
			"Bigfoot": "a towering, gentle Bigfoot with shaggy brown fur and warm curious eyes",
		},
		SharedProps:     []string{"selfie stick", "backpack"},
		SharedLandscape: []string{"snow-covered pines", "rugged mountains"},
		SharedSounds:    []string{"crunching snow", "echoing mountains"},
	}
}

func newTestComposer(t *testing.T) *ScenePromptComposer {
	t.Helper()
	composer, err := NewScenePromptComposer("")
	if err != nil {
		t.Fatalf("コンポーザーの初期化に失敗しました: %v", err)
	}
	return composer
}

func TestNewScenePromptComposerCameraDefault(t *testing.T) {
	t.Run("指定したカメラ既定値が空の camera_style に適用されること", func(t *testing.T) {
		custom := "static tripod shot, wide angle"
		composer, err := NewScenePromptComposer(custom)
		if err != nil {
			t.Fatalf("コンポーザーの初期化に失敗しました: %v", err)
		}
		got, err := composer.BuildSceneInstruction(domain.SceneFields{Character: "Bigfoot"}, 1, testPool())
		if err != nil {
			t.Fatalf("指示文の生成に失敗しました: %v", err)
		}
		if !strings.Contains(got, custom) {
			t.Errorf("カスタムのカメラ既定値が反映されていません: %q", got)
		}
		if strings.Contains(got, veoconfig.DefaultCameraStyle) {
			t.Error("既定のカメラスタイルで上書きされています")
		}
	})

	t.Run("空指定は既定のカメラスタイルに退化すること", func(t *testing.T) {
		composer, err := NewScenePromptComposer("   ")
		if err != nil {
			t.Fatalf("コンポーザーの初期化に失敗しました: %v", err)
		}
		got, err := composer.BuildSceneInstruction(domain.SceneFields{Character: "Bigfoot"}, 1, testPool())
		if err != nil {
			t.Fatalf("指示文の生成に失敗しました: %v", err)
		}
		if !strings.Contains(got, veoconfig.DefaultCameraStyle) {
			t.Error("既定のカメラスタイルが適用されていません")
		}
	})
}

func TestBuildSceneInstruction(t *testing.T) {
	composer := newTestComposer(t)

	t.Run("スタイル指示とストーリーが先頭部に含まれること", func(t *testing.T) {
		got, err := composer.BuildSceneInstruction(domain.SceneFields{Character: "Bigfoot"}, 1, testPool())
		if err != nil {
			t.Fatalf("指示文の生成に失敗しました: %v", err)
		}
		if !strings.HasPrefix(got, "Create a realistic, entertaining YouTube vlog video") {
			t.Errorf("固定スタイル指示で始まっていません: %q", got[:60])
		}
		if !strings.Contains(got, "snow kitchen") {
			t.Error("プールの overall story が含まれていません")
		}
		if !strings.Contains(got, "8 seconds") {
			t.Error("8秒の尺指定が含まれていません")
		}
	})

	t.Run("正規説明文への置換と未登録名の素通しが行われること", func(t *testing.T) {
		fields := domain.SceneFields{Character: "Bigfoot, Squirrel"}
		got, err := composer.BuildSceneInstruction(fields, 2, testPool())
		if err != nil {
			t.Fatalf("指示文の生成に失敗しました: %v", err)
		}
		if !strings.Contains(got, "shaggy brown fur") {
			t.Error("Bigfoot が正規説明文に置換されていません")
		}
		if !strings.Contains(got, ", and Squirrel") {
			t.Error("未登録キャラクターが ', and ' で結合されていません")
		}
	})

	t.Run("カメラ未指定時はデフォルトフレーズになること", func(t *testing.T) {
		got, err := composer.BuildSceneInstruction(domain.SceneFields{Character: "Bigfoot"}, 1, testPool())
		if err != nil {
			t.Fatalf("指示文の生成に失敗しました: %v", err)
		}
		if !strings.Contains(got, veoconfig.DefaultCameraStyle) {
			t.Error("デフォルトのカメラスタイルが使われていません")
		}
	})

	t.Run("クロスシーン参照の禁止ルールが末尾に付くこと", func(t *testing.T) {
		got, err := composer.BuildSceneInstruction(domain.SceneFields{Character: "Bigfoot"}, 3, testPool())
		if err != nil {
			t.Fatalf("指示文の生成に失敗しました: %v", err)
		}
		if !strings.Contains(got, "Never reference previous") {
			t.Error("クロスシーン参照の禁止ルールが含まれていません")
		}
		if !strings.Contains(got, "standalone") {
			t.Error("単体成立の要件が含まれていません")
		}
	})
}

func TestMergeSounds(t *testing.T) {
	composer := newTestComposer(t)
	pool := testPool()

	t.Run("シーン固有の音が先頭でプール側が後続すること", func(t *testing.T) {
		fields := domain.SceneFields{Sounds: "laughter, crunching snow"}
		got := composer.mergeSounds(fields, pool)
		if got[0] != "laughter" {
			t.Errorf("先頭が期待値 'laughter' ではありません: %v", got)
		}
		if got[len(got)-1] != "echoing mountains" {
			t.Errorf("プールの音が補われていません: %v", got)
		}
		// crunching snow は重複なので1回だけ
		count := 0
		for _, s := range got {
			if s == "crunching snow" {
				count++
			}
		}
		if count != 1 {
			t.Errorf("'crunching snow' が %d 回含まれています", count)
		}
	})

	t.Run("7件で打ち切られること", func(t *testing.T) {
		fields := domain.SceneFields{Sounds: "a, b, c, d, e, f, g, h"}
		if got := composer.mergeSounds(fields, pool); len(got) > domain.MaxSharedSounds {
			t.Errorf("上限 %d を超えています: %v", domain.MaxSharedSounds, got)
		}
	})
}

func TestMergeLandscape(t *testing.T) {
	composer := newTestComposer(t)
	pool := testPool()

	t.Run("ローカルテキストに含まれるプール要素は除外されること", func(t *testing.T) {
		fields := domain.SceneFields{Landscape: "A valley of Snow-Covered Pines under grey sky"}
		got := composer.mergeLandscape(fields, pool)
		for _, entry := range got[1:] {
			if entry == "snow-covered pines" {
				t.Error("大文字小文字を無視した包含チェックが機能していません")
			}
		}
		if got[0] != "A valley of Snow-Covered Pines under grey sky" {
			t.Errorf("ローカルテキストが先頭にありません: %v", got)
		}
	})

	t.Run("3件で打ち切られること", func(t *testing.T) {
		fields := domain.SceneFields{Landscape: "open tundra"}
		if got := composer.mergeLandscape(fields, pool); len(got) > domain.MaxSharedLandscape {
			t.Errorf("上限 %d を超えています: %v", domain.MaxSharedLandscape, got)
		}
	})
}

func TestBuildEnhancementInstruction(t *testing.T) {
	composer := newTestComposer(t)

	got, err := composer.BuildEnhancementInstruction("  Yeti, a big white furry creature  ")
	if err != nil {
		t.Fatalf("強化指示の生成に失敗しました: %v", err)
	}
	if !strings.Contains(got, "15 to 25 words") {
		t.Error("語数制約が含まれていません")
	}
	if !strings.Contains(got, "Yeti, a big white furry creature") {
		t.Error("シード説明文が含まれていません")
	}
}
