package builder

import (
	"context"
	"fmt"
	"time"

	veoconfig "github.com/shouni/go-veo-kit/pkg/config"
	"github.com/shouni/go-veo-kit/pkg/generation"
	"github.com/shouni/go-veo-kit/pkg/runner"
	"github.com/shouni/go-veo-kit/pkg/workflow"

	"github.com/patrickmn/go-cache"
	imagekit "github.com/shouni/gemini-image-kit/pkg/generator"
	"github.com/shouni/go-gemini-client/pkg/gemini"
	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

const (
	defaultGeminiTemperature = float32(0.2)

	// 画像キャッシュの設定
	defaultCacheExpiration = 30 * time.Minute
	cacheCleanupInterval   = 1 * time.Hour
	defaultCacheTTL        = 1 * time.Hour
)

// InitializeAIClient は gemini クライアントを初期化します。
func InitializeAIClient(ctx context.Context, apiKey string) (gemini.GenerativeModel, error) {
	clientConfig := gemini.Config{
		APIKey:      apiKey,
		Temperature: genai.Ptr(defaultGeminiTemperature),
	}
	aiClient, err := gemini.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("AIクライアントの初期化に失敗しました: %w", err)
	}
	return aiClient, nil
}

// VeoConfig は環境設定と実行時オプションからワークフロー用の設定を組み立てるのだ。
func VeoConfig(appCtx *AppContext) veoconfig.Config {
	cfg := veoconfig.DefaultConfig()
	cfg.GeminiAPIKey = appCtx.Config.GeminiAPIKey
	cfg.GeminiModel = appCtx.Config.GeminiModel
	cfg.ImageModel = appCtx.Config.GeminiImageModel
	if appCtx.Options.AIModel != "" {
		cfg.GeminiModel = appCtx.Options.AIModel
	}
	if appCtx.Options.ImageModel != "" {
		cfg.ImageModel = appCtx.Options.ImageModel
	}
	return cfg
}

// BuildWorkflowManager はプロンプト生成ワークフローの Manager を構築します。
// APIキー未設定時は UnavailableClient を注入し、全シーンを
// フォールバック経路に退化させるのだ。
func BuildWorkflowManager(appCtx *AppContext) (*workflow.Manager, error) {
	cfg := VeoConfig(appCtx)

	var generator generation.PromptGenerator
	var enhancer generation.DescriptionEnhancer
	if appCtx.aiClient != nil {
		limiter := rate.NewLimiter(rate.Every(cfg.RateInterval), veoconfig.DefaultRateBurst)
		client := generation.NewGeminiClient(appCtx.aiClient, cfg.GeminiModel, limiter)
		generator, enhancer = client, client
	} else {
		unavailable := generation.NewUnavailableClient("GEMINI_API_KEY が設定されていません")
		generator, enhancer = unavailable, unavailable
	}

	return workflow.New(workflow.ManagerArgs{
		Config:    cfg,
		Generator: generator,
		Enhancer:  enhancer,
	})
}

// BuildDocumentRunner はドキュメント生成を担当する Runner を構築します。
func BuildDocumentRunner(appCtx *AppContext) (*runner.DocumentRunner, error) {
	manager, err := BuildWorkflowManager(appCtx)
	if err != nil {
		return nil, fmt.Errorf("ワークフローの構築に失敗しました: %w", err)
	}
	return runner.NewDocumentRunner(manager, appCtx.Writer), nil
}

// BuildDesignRunner はデザインシート生成を担当する Runner を構築します。
func BuildDesignRunner(appCtx *AppContext) (*runner.DesignRunner, error) {
	if appCtx.aiClient == nil {
		return nil, fmt.Errorf("デザインシート生成には GEMINI_API_KEY が必要です")
	}

	cfg := VeoConfig(appCtx)
	imgGen, err := initializeImageGenerator(appCtx, cfg.ImageModel)
	if err != nil {
		return nil, fmt.Errorf("GeminiGeneratorの初期化に失敗したのだ: %w", err)
	}

	return runner.NewDesignRunner(cfg, imgGen, appCtx.Writer), nil
}

// initializeImageGenerator は、画像キャッシュを含む ImageGenerator を初期化します。
func initializeImageGenerator(appCtx *AppContext, model string) (imagekit.ImageGenerator, error) {
	imgCache := cache.New(defaultCacheExpiration, cacheCleanupInterval)
	core, err := imagekit.NewGeminiImageCore(
		appCtx.aiClient,
		appCtx.Reader,
		appCtx.httpClient,
		imgCache,
		defaultCacheTTL,
	)
	if err != nil {
		return nil, fmt.Errorf("GeminiImageCore の初期化に失敗しました: %w", err)
	}

	imgGen, err := imagekit.NewGeminiGenerator(model, core)
	if err != nil {
		return nil, fmt.Errorf("GeminiGenerator の初期化に失敗しました: %w", err)
	}

	return imgGen, nil
}
