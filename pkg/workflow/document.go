package workflow

import (
	"context"
	"log/slog"

	"github.com/shouni/go-veo-kit/pkg/domain"
	"github.com/shouni/go-veo-kit/pkg/generation"

	"golang.org/x/sync/errgroup"
)

// BuildMultiSceneDocument は、シーン列からマルチシーンドキュメントを生成する
// ワークフロー全体の呼び出し境界です。利用可能なシーンが1つもなければ、
// リモート呼び出しを一切行わずに domain.ErrEmptyInput を返します。
func (m *Manager) BuildMultiSceneDocument(ctx context.Context, scenes []domain.SceneFields, overallStory, mainCharacters string) (string, error) {
	pool, results, err := m.GenerateScenePrompts(ctx, scenes, overallStory, mainCharacters)
	if err != nil {
		return "", err
	}
	return m.publisher.BuildDocument(pool, results), nil
}

// GenerateScenePrompts は、プール構築と全シーンの生成を実行し、
// 共有プールとシーン結果の列を返します。
//
// プールの構築はすべてのシーン合成よりも前に完了します（単一の同期バリア）。
// 各シーンの生成はインデックス付きスロットへ並列に書き込まれるため、完了順が
// 出力順に漏れることはないのだ。生成失敗はそのシーン限りでフォールバック結果に
// 置き換えられ、結果列にエラーが現れることはありません。
func (m *Manager) GenerateScenePrompts(ctx context.Context, scenes []domain.SceneFields, overallStory, mainCharacters string) (*domain.ConsistencyPool, []domain.SceneResult, error) {
	active := activeScenes(scenes)
	if len(active) == 0 {
		return nil, nil, domain.ErrEmptyInput
	}

	pool, err := m.poolBuilder.Build(ctx, scenes, overallStory, mainCharacters)
	if err != nil {
		return nil, nil, err
	}

	slog.Info("マルチシーン生成を開始します",
		"scenes", len(active),
		"main_characters", pool.MainCharacters)

	results := make([]domain.SceneResult, len(active))
	eg, egCtx := errgroup.WithContext(ctx)
	for i := range active {
		idx := i
		eg.Go(func() error {
			results[idx] = domain.SceneResult{
				SceneNumber: idx + 1,
				Prompt:      m.generateScene(egCtx, active[idx], idx+1, pool),
			}
			return nil
		})
	}
	// 各シーンの失敗はフォールバックで吸収済みのため、Wait は同期のみを担う
	_ = eg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	return pool, results, nil
}

// generateScene は1シーン分の生成を実行します。指示文の合成に失敗した場合も、
// リモート呼び出しが失敗した場合も、決定論的なフォールバック結果へ退化します。
// リトライは行いません。再試行はキャラクターの声色を揺らすためなのだ。
func (m *Manager) generateScene(ctx context.Context, fields domain.SceneFields, sceneNumber int, pool *domain.ConsistencyPool) domain.GeneratedPrompt {
	instruction, err := m.composer.BuildSceneInstruction(fields, sceneNumber, pool)
	if err != nil {
		slog.Warn("指示文の合成に失敗したため、フォールバック結果を使用します",
			"scene", sceneNumber, "error", err)
		return generation.FallbackPrompt(fields)
	}

	prompt, err := m.generator.GeneratePrompt(ctx, instruction)
	if err != nil {
		slog.Warn("シーン生成に失敗したため、フォールバック結果を使用します",
			"scene", sceneNumber, "error", err)
		return generation.FallbackPrompt(fields)
	}
	return *prompt
}
