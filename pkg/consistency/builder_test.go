package consistency

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"sync"
	"testing"

	veoconfig "github.com/shouni/go-veo-kit/pkg/config"
	"github.com/shouni/go-veo-kit/pkg/domain"
	"github.com/shouni/go-veo-kit/pkg/prompts"
)

// stubEnhancer は DescriptionEnhancer のテスト用実装なのだ。
type stubEnhancer struct {
	mu    sync.Mutex
	calls []string
	fail  bool
}

func (s *stubEnhancer) EnhanceDescription(_ context.Context, instruction string) (string, error) {
	s.mu.Lock()
	s.calls = append(s.calls, instruction)
	s.mu.Unlock()

	if s.fail {
		return "", errors.New("simulated enhancement failure")
	}
	return "enhanced<" + instruction + ">", nil
}

func (s *stubEnhancer) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func newTestBuilder(t *testing.T, enhancer *stubEnhancer) *Builder {
	t.Helper()
	composer, err := prompts.NewScenePromptComposer("")
	if err != nil {
		t.Fatalf("コンポーザーの初期化に失敗しました: %v", err)
	}
	return NewBuilder(enhancer, composer, "")
}

func TestBuilder_Build(t *testing.T) {
	ctx := context.Background()

	t.Run("プールの各上限が守られること", func(t *testing.T) {
		builder := newTestBuilder(t, &stubEnhancer{})
		scenes := []domain.SceneFields{
			{
				Character: "A, B, C, D, E",
				Props:     "p1, p2, p3, p4, p5, p6, p7",
				Landscape: "l1, l2, l3, l4",
				Sounds:    "s1, s2, s3, s4, s5, s6, s7, s8, s9",
			},
		}
		pool, err := builder.Build(ctx, scenes, "", "")
		if err != nil {
			t.Fatalf("プール構築に失敗しました: %v", err)
		}

		if len(pool.MainCharacters) > domain.MaxMainCharacters {
			t.Errorf("主要キャラクターが上限 %d を超えています: %v", domain.MaxMainCharacters, pool.MainCharacters)
		}
		if len(pool.SharedProps) > domain.MaxSharedProps {
			t.Errorf("小道具が上限 %d を超えています: %v", domain.MaxSharedProps, pool.SharedProps)
		}
		if len(pool.SharedLandscape) > domain.MaxSharedLandscape {
			t.Errorf("風景が上限 %d を超えています: %v", domain.MaxSharedLandscape, pool.SharedLandscape)
		}
		if len(pool.SharedSounds) > domain.MaxSharedSounds {
			t.Errorf("音が上限 %d を超えています: %v", domain.MaxSharedSounds, pool.SharedSounds)
		}
	})

	t.Run("トリム後トークンでの重複排除が行われること", func(t *testing.T) {
		builder := newTestBuilder(t, &stubEnhancer{})
		scenes := []domain.SceneFields{{Character: "Bigfoot", Props: "rope, knife, rope"}}
		pool, err := builder.Build(ctx, scenes, "", "")
		if err != nil {
			t.Fatalf("プール構築に失敗しました: %v", err)
		}
		if want := []string{"rope", "knife"}; !reflect.DeepEqual(pool.SharedProps, want) {
			t.Errorf("期待値 %v, 実際の値 %v", want, pool.SharedProps)
		}
	})

	t.Run("最長のシード説明文が選ばれること", func(t *testing.T) {
		short := "Yeti is here"
		long := "Yeti, a huge gentle creature covered in thick shaggy white fur, with bright blue eyes, enormous hands, and a famously warm booming laugh"
		middle := "Yeti with white fur and a friendly smile on his face"

		enhancer := &stubEnhancer{}
		builder := newTestBuilder(t, enhancer)
		scenes := []domain.SceneFields{
			{Character: short, ActionDialogue: "a"},
			{Character: long, ActionDialogue: "b"},
			{Character: middle, ActionDialogue: "c"},
		}
		pool, err := builder.Build(ctx, scenes, "", "Yeti")
		if err != nil {
			t.Fatalf("プール構築に失敗しました: %v", err)
		}

		desc := pool.CharacterDescriptions["Yeti"]
		if !strings.Contains(desc, "booming laugh") {
			t.Errorf("最長のシードが選ばれていません: %q", desc)
		}
	})

	t.Run("強化失敗時はシード文へ退化し構築は続行されること", func(t *testing.T) {
		builder := newTestBuilder(t, &stubEnhancer{fail: true})
		scenes := []domain.SceneFields{{Character: "Bigfoot, a hairy forest giant"}}
		pool, err := builder.Build(ctx, scenes, "", "")
		if err != nil {
			t.Fatalf("強化失敗がプール構築全体を中断しました: %v", err)
		}

		if got := pool.CharacterDescriptions["Bigfoot"]; got != "Bigfoot, a hairy forest giant" {
			t.Errorf("シード文への退化が行われていません: %q", got)
		}
	})

	t.Run("明示指定のmain_charactersが優先されること", func(t *testing.T) {
		builder := newTestBuilder(t, &stubEnhancer{})
		scenes := []domain.SceneFields{{Character: "Alpha, Beta, Gamma, Delta"}}
		pool, err := builder.Build(ctx, scenes, "", "Gamma, Delta")
		if err != nil {
			t.Fatalf("プール構築に失敗しました: %v", err)
		}
		if want := []string{"Gamma", "Delta"}; !reflect.DeepEqual(pool.MainCharacters, want) {
			t.Errorf("期待値 %v, 実際の値 %v", want, pool.MainCharacters)
		}
	})

	t.Run("story未指定時は固定プレースホルダになること", func(t *testing.T) {
		builder := newTestBuilder(t, &stubEnhancer{})
		pool, err := builder.Build(ctx, []domain.SceneFields{{Character: "Bigfoot"}}, "   ", "")
		if err != nil {
			t.Fatalf("プール構築に失敗しました: %v", err)
		}
		if pool.OverallStory != veoconfig.DefaultStoryPlaceholder {
			t.Errorf("プレースホルダが使われていません: %q", pool.OverallStory)
		}
	})

	t.Run("カスタムのプレースホルダが優先されること", func(t *testing.T) {
		composer, err := prompts.NewScenePromptComposer("")
		if err != nil {
			t.Fatalf("コンポーザーの初期化に失敗しました: %v", err)
		}
		custom := "A calm fishing trip on a quiet river."
		builder := NewBuilder(&stubEnhancer{}, composer, custom)
		pool, err := builder.Build(ctx, []domain.SceneFields{{Character: "Bigfoot"}}, "", "")
		if err != nil {
			t.Fatalf("プール構築に失敗しました: %v", err)
		}
		if pool.OverallStory != custom {
			t.Errorf("カスタムのプレースホルダが使われていません: %q", pool.OverallStory)
		}
	})

	t.Run("同一入力の再構築が同一プールを生みキャッシュが効くこと", func(t *testing.T) {
		enhancer := &stubEnhancer{}
		builder := newTestBuilder(t, enhancer)
		scenes := []domain.SceneFields{
			{Character: "Bigfoot, a big hairy creature", Props: "rope", Sounds: "wind"},
			{Character: "Bigfoot", Landscape: "forest"},
		}

		first, err := builder.Build(ctx, scenes, "story", "")
		if err != nil {
			t.Fatalf("1回目の構築に失敗しました: %v", err)
		}
		callsAfterFirst := enhancer.callCount()

		second, err := builder.Build(ctx, scenes, "story", "")
		if err != nil {
			t.Fatalf("2回目の構築に失敗しました: %v", err)
		}

		if !reflect.DeepEqual(first, second) {
			t.Error("同一入力から異なるプールが構築されました")
		}
		if enhancer.callCount() != callsAfterFirst {
			t.Error("キャッシュ済みのシードで追加のリモート呼び出しが発生しました")
		}
	})
}
