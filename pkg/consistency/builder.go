// Package consistency は、マルチシーンリクエスト全体を走査して
// 共有エンティティプール（ConsistencyPool）を構築します。
package consistency

import (
	"context"
	"log/slog"
	"strings"
	"time"

	veoconfig "github.com/shouni/go-veo-kit/pkg/config"
	"github.com/shouni/go-veo-kit/pkg/domain"
	"github.com/shouni/go-veo-kit/pkg/generation"
	"github.com/shouni/go-veo-kit/pkg/prompts"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/errgroup"
)

const (
	enhanceCacheExpiration = 30 * time.Minute
	enhanceCacheCleanup    = 1 * time.Hour
)

// Builder は全シーンを走査し、共有エンティティプールを組み立てます。
// 強化リライトの結果はプロセス内キャッシュに保持し、同一シードの再構築では
// リモート呼び出しを繰り返さないのだ。
type Builder struct {
	enhancer         generation.DescriptionEnhancer
	composer         *prompts.ScenePromptComposer
	storyPlaceholder string
	enhanceCache     *cache.Cache
}

// NewBuilder は依存関係を注入して Builder を初期化します。
// storyPlaceholder が空の場合は既定のプレースホルダを使うのだ。
func NewBuilder(enhancer generation.DescriptionEnhancer, composer *prompts.ScenePromptComposer, storyPlaceholder string) *Builder {
	if strings.TrimSpace(storyPlaceholder) == "" {
		storyPlaceholder = veoconfig.DefaultStoryPlaceholder
	}
	return &Builder{
		enhancer:         enhancer,
		composer:         composer,
		storyPlaceholder: storyPlaceholder,
		enhanceCache:     cache.New(enhanceCacheExpiration, enhanceCacheCleanup),
	}
}

// Build は、シーン列・任意の overall story・任意の main characters 指定から
// ConsistencyPool を構築します。プールの構築は全シーンの合成より先に完了し、
// 以降プールは読み取り専用として扱われます。
//
// キャラクター強化の失敗はそのキャラクター限りで生のシード文へ退化し、
// プール構築全体を中断することはありません。
func (b *Builder) Build(ctx context.Context, scenes []domain.SceneFields, overallStory, mainCharacters string) (*domain.ConsistencyPool, error) {
	pool := &domain.ConsistencyPool{
		OverallStory:          strings.TrimSpace(overallStory),
		CharacterDescriptions: make(map[string]string),
	}
	if pool.OverallStory == "" {
		pool.OverallStory = b.storyPlaceholder
	}

	// 1. 各フィールドを発見順で収集する（初出優先、重複排除）
	allNames := collectField(scenes, func(f domain.SceneFields) string { return f.Character })
	pool.SharedProps = truncate(collectField(scenes, func(f domain.SceneFields) string { return f.Props }), domain.MaxSharedProps)
	pool.SharedLandscape = truncate(collectField(scenes, func(f domain.SceneFields) string { return f.Landscape }), domain.MaxSharedLandscape)
	pool.SharedSounds = truncate(collectField(scenes, func(f domain.SceneFields) string { return f.Sounds }), domain.MaxSharedSounds)

	// 2. 主要キャラクターの決定。明示指定があればそちらを優先するのだ。
	if explicit := domain.ParseUniqueList(mainCharacters, domain.MaxMainCharacters); len(explicit) > 0 {
		pool.MainCharacters = explicit
	} else {
		pool.MainCharacters = truncate(allNames, domain.MaxMainCharacters)
	}

	// 3. シード説明文の特定と強化リライト
	b.enhanceCharacters(ctx, scenes, pool)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return pool, nil
}

// enhanceCharacters は主要キャラクターごとに最長のシード説明文を選び、
// 強化リライトを並列実行します。結果はインデックスで格納するため、
// 完了順がプールの内容に影響することはありません。
func (b *Builder) enhanceCharacters(ctx context.Context, scenes []domain.SceneFields, pool *domain.ConsistencyPool) {
	enhanced := make([]string, len(pool.MainCharacters))
	seeds := make([]string, len(pool.MainCharacters))
	for i, name := range pool.MainCharacters {
		seeds[i] = longestMention(scenes, name)
	}

	eg, egCtx := errgroup.WithContext(ctx)
	for i := range pool.MainCharacters {
		idx := i
		eg.Go(func() error {
			enhanced[idx] = b.enhanceOne(egCtx, pool.MainCharacters[idx], seeds[idx])
			return nil
		})
	}
	// goroutine はエラーを返さないため、Wait はコンテキスト破棄の同期のみを担う
	_ = eg.Wait()

	for i, name := range pool.MainCharacters {
		if enhanced[i] != "" {
			pool.CharacterDescriptions[name] = enhanced[i]
		}
	}
}

// enhanceOne は1キャラクター分の強化リライトを実行します。
// 失敗時はシード文（それも無ければ名前）へ退化して処理を続行するのだ。
func (b *Builder) enhanceOne(ctx context.Context, name, seed string) string {
	if seed == "" {
		seed = name
	}

	if cached, ok := b.enhanceCache.Get(seed); ok {
		return cached.(string)
	}

	instruction, err := b.composer.BuildEnhancementInstruction(seed)
	if err != nil {
		slog.Warn("強化指示の生成に失敗したため、シード説明文をそのまま使用します", "character", name, "error", err)
		return seed
	}

	result, err := b.enhancer.EnhanceDescription(ctx, instruction)
	if err != nil || strings.TrimSpace(result) == "" {
		slog.Warn("キャラクター説明の強化に失敗したため、シード説明文をそのまま使用します", "character", name, "error", err)
		return seed
	}

	b.enhanceCache.Set(seed, result, cache.DefaultExpiration)
	return result
}

// longestMention は、名前に言及している character フィールドのうち最長の生文字列を返します。
// 最長がタイの場合は投入順で先に現れたものが勝つ決定論的な選び方をします。
// 「最長＝最も詳細」という近似は元仕様から引き継いだものなのだ。
func longestMention(scenes []domain.SceneFields, name string) string {
	lowerName := strings.ToLower(name)
	var best string
	for _, scene := range scenes {
		raw := strings.TrimSpace(scene.Character)
		if raw == "" {
			continue
		}
		if !strings.Contains(strings.ToLower(raw), lowerName) {
			continue
		}
		if len(raw) > len(best) {
			best = raw
		}
	}
	return best
}

// collectField は全シーンの1フィールドを初出順の一意リストに集約します。
func collectField(scenes []domain.SceneFields, pick func(domain.SceneFields) string) []string {
	seen := make(map[string]struct{})
	var items []string
	for _, scene := range scenes {
		for _, item := range domain.ParseUniqueList(pick(scene), 0) {
			if _, ok := seen[item]; ok {
				continue
			}
			seen[item] = struct{}{}
			items = append(items, item)
		}
	}
	return items
}

func truncate(items []string, max int) []string {
	if len(items) > max {
		return items[:max]
	}
	return items
}
