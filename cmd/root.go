package cmd

import (
	"log/slog"
	"os"

	"github.com/shouni/go-veo-kit/internal/config"

	clibase "github.com/shouni/go-cli-base"
	"github.com/spf13/cobra"
)

// opts は addAppFlags で各フラグと紐付けられる実行時オプションなのだ。
var opts config.GenerateOptions

// addAppFlags は、アプリケーション全般に適用されるグローバルフラグを定義するのだ。
func addAppFlags(rootCmd *cobra.Command) {
	// --- ソース入力関連 ---
	rootCmd.PersistentFlags().StringVarP(&opts.ScenesFile, "scenes-file", "f", "", "シーン台本（JSON）のパス（'-'で標準入力なのだ）。")

	// --- 台本の上書き指定 ---
	rootCmd.PersistentFlags().StringVar(&opts.Story, "story", "", "全体ストーリーを明示指定するのだ（台本の overall_story を上書き）。")
	rootCmd.PersistentFlags().StringVar(&opts.MainCharacters, "main-characters", "", "主要キャラクターをカンマ区切りで明示指定するのだ。")

	// --- 生成結果の出力設定 ---
	rootCmd.PersistentFlags().StringVarP(&opts.OutputFile, "output-file", "o", config.DefaultLocalFile, "保存パス（ローカル or gs://...）なのだ。")
	rootCmd.PersistentFlags().StringVarP(&opts.OutputImageDir, "output-image-dir", "i", config.DefaultLocalImageDir, "デザインシート画像を保存するディレクトリ（ローカル or gs://...）なのだ。")

	// --- AIモデル・挙動設定 ---
	rootCmd.PersistentFlags().StringVar(&opts.AIModel, "model", config.DefaultModel, "使用する Gemini モデル名なのだ。")
	rootCmd.PersistentFlags().StringVar(&opts.ImageModel, "image-model", config.DefaultImageModel, "画像生成に使用する Gemini モデル名なのだ。")
	rootCmd.PersistentFlags().DurationVar(&opts.HTTPTimeout, "http-timeout", config.DefaultHTTPTimeout, "Webリクエストのタイムアウトなのだ。")
}

// preRunAppE は、コマンド実行前に環境変数などのチェックを行うのだ。
// APIキーが無くてもフォールバック文書は生成できるため、ここでは警告に留めるのだ。
func preRunAppE(cmd *cobra.Command, args []string) error {
	if os.Getenv("GEMINI_API_KEY") == "" {
		slog.Warn("環境変数 GEMINI_API_KEY が設定されていません。生成はフォールバックのみとなるのだ")
	}

	return nil
}

// Execute は、アプリケーションのメインエントリポイントなのだ。
// main.go から呼び出されて、cobra のコマンドライン解析を開始するのだよ。
func Execute() {
	clibase.Execute(
		"ap-veo-go",
		addAppFlags,
		preRunAppE,
		generateCmd,
		sceneCmd,
		designCmd,
	)
}
