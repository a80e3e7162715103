// Package pipeline は、CLIコマンドから呼び出される一連の実行フローを定義するのだ。
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/shouni/go-veo-kit/internal/builder"
	"github.com/shouni/go-veo-kit/internal/config"
	"github.com/shouni/go-veo-kit/pkg/domain"
	"github.com/shouni/go-veo-kit/pkg/runner"

	"github.com/shouni/go-gemini-client/pkg/gemini"
	"github.com/shouni/go-http-kit/pkg/httpkit"
	"github.com/shouni/go-remote-io/pkg/gcsfactory"
)

// ExecuteDocument は、台本（JSON）からマルチシーンドキュメントを生成して保存するのだ。
// scenes-file に "-" を指定した場合は標準入力から読み込むのだ。
func ExecuteDocument(ctx context.Context, cfg *config.Config) error {
	appCtx, err := setupAppContext(ctx, cfg)
	if err != nil {
		return err
	}

	req, err := loadScript(ctx, appCtx, cfg.Options.ScenesFile)
	if err != nil {
		return err
	}
	applyOverrides(req, cfg.Options)

	docRunner, err := builder.BuildDocumentRunner(appCtx)
	if err != nil {
		return fmt.Errorf("DocumentRunnerの構築に失敗したのだ: %w", err)
	}

	outputPath := cfg.Options.OutputFile
	if outputPath == "" {
		outputPath = config.DefaultLocalFile
	}

	doc, err := docRunner.Run(ctx, req, outputPath)
	if err != nil {
		return err
	}

	slog.Info("マルチシーンドキュメントが完成したのだ！",
		"path", outputPath,
		"bytes", len(doc),
	)
	return nil
}

// ExecuteScenePreview は、指定シーンについて生成クライアントに送信される
// 指示文をそのまま標準出力に表示するのだ。プロンプト生成の呼び出しは行わないのだ。
func ExecuteScenePreview(ctx context.Context, cfg *config.Config) error {
	appCtx, err := setupAppContext(ctx, cfg)
	if err != nil {
		return err
	}

	req, err := loadScript(ctx, appCtx, cfg.Options.ScenesFile)
	if err != nil {
		return err
	}
	applyOverrides(req, cfg.Options)

	manager, err := builder.BuildWorkflowManager(appCtx)
	if err != nil {
		return fmt.Errorf("ワークフローの構築に失敗したのだ: %w", err)
	}

	// CLI は 1 始まり、内部は 0 始まりなのだ。
	instruction, err := manager.PreviewSceneInstruction(ctx, req.Scenes, req.OverallStory, req.MainCharacters, cfg.Options.SceneIndex-1)
	if err != nil {
		return err
	}

	fmt.Println(instruction)
	return nil
}

// ExecuteDesign は、台本の主要キャラクターからデザインシート画像を生成して保存するのだ。
func ExecuteDesign(ctx context.Context, cfg *config.Config) error {
	appCtx, err := setupAppContext(ctx, cfg)
	if err != nil {
		return err
	}

	req, err := loadScript(ctx, appCtx, cfg.Options.ScenesFile)
	if err != nil {
		return err
	}
	applyOverrides(req, cfg.Options)

	manager, err := builder.BuildWorkflowManager(appCtx)
	if err != nil {
		return fmt.Errorf("ワークフローの構築に失敗したのだ: %w", err)
	}

	designRunner, err := builder.BuildDesignRunner(appCtx)
	if err != nil {
		return fmt.Errorf("DesignRunnerの構築に失敗したのだ: %w", err)
	}

	pool, err := manager.BuildPool(ctx, req.Scenes, req.OverallStory, req.MainCharacters)
	if err != nil {
		return fmt.Errorf("共有エンティティプールの構築に失敗したのだ: %w", err)
	}

	outputDir := cfg.Options.OutputImageDir
	if outputDir == "" {
		outputDir = config.DefaultLocalImageDir
	}

	path, usedSeed, err := designRunner.Run(ctx, pool, outputDir)
	if err != nil {
		return err
	}

	slog.Info("デザインシートが完成したのだ！", "path", path, "seed", usedSeed)
	return nil
}

// loadScript は台本（JSON）を読み込み、ScriptRequest にデコードするのだ。
// "-" は標準入力を意味するのだ。
func loadScript(ctx context.Context, appCtx *builder.AppContext, scenesFile string) (*domain.ScriptRequest, error) {
	if scenesFile == "-" {
		req, err := runner.DecodeScriptRequest(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("標準入力の読み込みに失敗したのだ: %w", err)
		}
		return req, nil
	}

	rc, err := appCtx.Reader.Open(ctx, scenesFile)
	if err != nil {
		return nil, fmt.Errorf("台本ファイル '%s' の読み込みに失敗しました: %w", scenesFile, err)
	}
	defer rc.Close()

	return runner.DecodeScriptRequest(rc)
}

// applyOverrides は CLI フラグによる台本の上書きを反映するのだ。
func applyOverrides(req *domain.ScriptRequest, opts config.GenerateOptions) {
	if opts.Story != "" {
		req.OverallStory = opts.Story
	}
	if opts.MainCharacters != "" {
		req.MainCharacters = opts.MainCharacters
	}
}

// setupAppContext は、提供された設定と共有コンポーネントを使用して、アプリケーションコンテキストを初期化して返すのだ。
// APIキーが未設定の場合、aiClient は nil のままとなり、
// プロンプト生成はフォールバック経路に退化するのだ。
func setupAppContext(ctx context.Context, cfg *config.Config) (*builder.AppContext, error) {
	timeout := cfg.Options.HTTPTimeout
	if timeout <= 0 {
		timeout = config.DefaultHTTPTimeout
	}
	httpClient := httpkit.New(timeout)

	var aiClient gemini.GenerativeModel
	if cfg.GeminiAPIKey != "" {
		client, err := builder.InitializeAIClient(ctx, cfg.GeminiAPIKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create ai client: %w", err)
		}
		aiClient = client
	} else {
		slog.Warn("GEMINI_API_KEY が未設定のため、プロンプト生成はフォールバックのみとなります")
	}

	gcsFactory, err := gcsfactory.NewGCSClientFactory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client factory: %w", err)
	}

	reader, err := gcsFactory.NewInputReader()
	if err != nil {
		return nil, err
	}
	writer, err := gcsFactory.NewOutputWriter()
	if err != nil {
		return nil, err
	}

	appCtx := builder.NewAppContext(cfg, httpClient, aiClient, reader, writer)
	return &appCtx, nil
}
