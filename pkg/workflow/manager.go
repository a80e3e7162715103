// Package workflow は、プール構築・シーン合成・生成・フォールバック・整形を
// 1つのマルチシーン生成ワークフローとして束ねます。
package workflow

import (
	"context"
	"fmt"

	veoconfig "github.com/shouni/go-veo-kit/pkg/config"
	"github.com/shouni/go-veo-kit/pkg/consistency"
	"github.com/shouni/go-veo-kit/pkg/domain"
	"github.com/shouni/go-veo-kit/pkg/generation"
	"github.com/shouni/go-veo-kit/pkg/prompts"
	"github.com/shouni/go-veo-kit/pkg/publisher"
)

// Manager は、マルチシーンドキュメント生成の各工程を構築・管理します。
// 生成クライアントは構築時に注入され、未構成の場合は generation.UnavailableClient を
// 渡すことで全シーンがフォールバック経路に退化するのだ。
type Manager struct {
	generator   generation.PromptGenerator
	poolBuilder *consistency.Builder
	composer    *prompts.ScenePromptComposer
	publisher   *publisher.MarkdownPublisher
}

// ManagerArgs は Manager の構築に必要な依存関係の集合です。
type ManagerArgs struct {
	Config    veoconfig.Config
	Generator generation.PromptGenerator
	Enhancer  generation.DescriptionEnhancer

	// Composer / Publisher は省略可能で、nil の場合は新規作成されます。
	Composer  *prompts.ScenePromptComposer
	Publisher *publisher.MarkdownPublisher
}

// New は、依存関係を検証して新しい Manager を初期化します。
func New(args ManagerArgs) (*Manager, error) {
	if args.Generator == nil {
		return nil, fmt.Errorf("PromptGenerator は必須です")
	}
	if args.Enhancer == nil {
		return nil, fmt.Errorf("DescriptionEnhancer は必須です")
	}

	composer := args.Composer
	if composer == nil {
		newComposer, err := prompts.NewScenePromptComposer(args.Config.CameraStyle)
		if err != nil {
			return nil, fmt.Errorf("ScenePromptComposer の新規作成に失敗しました: %w", err)
		}
		composer = newComposer
	}

	pub := args.Publisher
	if pub == nil {
		pub = publisher.NewMarkdownPublisher()
	}

	return &Manager{
		generator:   args.Generator,
		poolBuilder: consistency.NewBuilder(args.Enhancer, composer, args.Config.StoryPlaceholder),
		composer:    composer,
		publisher:   pub,
	}, nil
}

// BuildPool は、全シーンから共有エンティティプールを構築します。
// デザインシート生成など、ドキュメント生成以外の工程からも利用されます。
func (m *Manager) BuildPool(ctx context.Context, scenes []domain.SceneFields, overallStory, mainCharacters string) (*domain.ConsistencyPool, error) {
	return m.poolBuilder.Build(ctx, scenes, overallStory, mainCharacters)
}

// PreviewSceneInstruction は、指定インデックス（0始まり）のシーンについて
// 生成クライアントに送信される指示文そのものを返します。プロンプト生成の
// リモート呼び出しは行いません（プール構築時の強化リライトは除く）。
func (m *Manager) PreviewSceneInstruction(ctx context.Context, scenes []domain.SceneFields, overallStory, mainCharacters string, index int) (string, error) {
	active := activeScenes(scenes)
	if len(active) == 0 {
		return "", domain.ErrEmptyInput
	}
	if index < 0 || index >= len(active) {
		return "", fmt.Errorf("シーン番号 %d は範囲外です (有効シーン数: %d)", index+1, len(active))
	}

	pool, err := m.poolBuilder.Build(ctx, scenes, overallStory, mainCharacters)
	if err != nil {
		return "", err
	}
	return m.composer.BuildSceneInstruction(active[index], index+1, pool)
}

// activeScenes はスキップルールを適用し、生成対象のシーンだけを投入順で返します。
func activeScenes(scenes []domain.SceneFields) []domain.SceneFields {
	active := make([]domain.SceneFields, 0, len(scenes))
	for _, scene := range scenes {
		if scene.IsEmpty() {
			continue
		}
		active = append(active, scene)
	}
	return active
}
