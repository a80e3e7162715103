package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/shouni/go-veo-kit/internal/config"
	"github.com/shouni/go-veo-kit/internal/pipeline"

	"github.com/spf13/cobra"
)

// generateCmd は、シーン台本からマルチシーンの動画プロンプト文書を生成するのだ。
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "シーン台本からマルチシーンの動画プロンプトを生成しますなのだ。",
	Long: `シーン台本（JSON）を解析し、キャラクターや小道具の一貫性を保った
シーンごとの動画生成プロンプトを1つのMarkdown文書として出力するのだ。`,
	RunE: generateCommand,
}

func generateCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	// 1. 必須チェック
	if opts.ScenesFile == "" && !isStdin() {
		return fmt.Errorf("台本（--scenes-file）を指定してほしいのだ")
	}
	if opts.ScenesFile == "" {
		opts.ScenesFile = "-"
	}

	// 2. 環境変数等から基本設定をロードするのだ
	cfg := config.LoadConfig()
	cfg.GeminiModel = opts.AIModel
	cfg.GeminiImageModel = opts.ImageModel
	cfg.Options = opts

	slog.Info("マルチシーン生成パイプラインを起動するのだ！",
		"text_model", cfg.GeminiModel,
		"scenes_file", opts.ScenesFile,
		"output", opts.OutputFile)

	// 3. 更新した config を考慮しつつパイプラインを実行するのだ
	err := pipeline.ExecuteDocument(ctx, cfg)
	if err != nil {
		return fmt.Errorf("パイプライン実行中にエラーが発生したのだ: %w", err)
	}

	slog.Info("すべての生成工程が完了したのだ！")
	return nil
}

func isStdin() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}
