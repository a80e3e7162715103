package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/shouni/go-veo-kit/internal/config"
	"github.com/shouni/go-veo-kit/internal/pipeline"

	"github.com/spf13/cobra"
)

// designCmd は、台本の主要キャラクターのデザインシート画像を生成するのだ。
var designCmd = &cobra.Command{
	Use:   "design",
	Short: "主要キャラクターの設定画を生成し、Seed値を確定させるのだ。",
	Long: `台本からキャラクターの正規化済み説明文を抽出し、一貫性のある三面図を
1枚の画像として生成するのだ。出力されたSeed値で見た目を固定できるのだよ。`,
	RunE: designCommand,
}

func designCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if opts.ScenesFile == "" {
		return fmt.Errorf("台本（--scenes-file）を指定してほしいのだ")
	}
	// 画像生成はフォールバックできないため、APIキーは必須なのだ。
	if os.Getenv("GEMINI_API_KEY") == "" {
		return fmt.Errorf("エラー: 環境変数 GEMINI_API_KEY が設定されていません。画像生成には必須なのだ")
	}

	cfg := config.LoadConfig()
	cfg.GeminiModel = opts.AIModel
	cfg.GeminiImageModel = opts.ImageModel
	cfg.Options = opts

	slog.Info("デザインシート生成を起動するのだ！",
		"image_model", cfg.GeminiImageModel,
		"scenes_file", opts.ScenesFile,
		"output_dir", opts.OutputImageDir)

	return pipeline.ExecuteDesign(ctx, cfg)
}
