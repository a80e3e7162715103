package cmd

import (
	"fmt"

	"github.com/shouni/go-veo-kit/internal/config"
	"github.com/shouni/go-veo-kit/internal/pipeline"

	"github.com/spf13/cobra"
)

// sceneCmd は、指定した1シーンの指示文プレビューのみを実行するのだ。
var sceneCmd = &cobra.Command{
	Use:   "scene",
	Short: "1シーン分の指示文をプレビュー表示するのだ。",
	Long: `台本の指定シーンについて、生成クライアントに送信される指示文を
そのまま標準出力に表示するのだ。プロンプト生成の呼び出しは行わないのだよ。`,
	RunE: sceneCommand,
}

func init() {
	sceneCmd.Flags().IntVarP(&opts.SceneIndex, "scene-index", "n", 1, "プレビュー対象のシーン番号（1始まり）なのだ。")
}

func sceneCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if opts.ScenesFile == "" {
		return fmt.Errorf("台本（--scenes-file）を指定してほしいのだ")
	}

	cfg := config.LoadConfig()
	cfg.GeminiModel = opts.AIModel
	cfg.Options = opts

	return pipeline.ExecuteScenePreview(ctx, cfg)
}
