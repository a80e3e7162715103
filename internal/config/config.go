package config

import (
	"time"

	"github.com/shouni/go-utils/envutil"
)

// デフォルト値の定義なのだ
const (
	DefaultModel         = "gemini-3-flash-preview"
	DefaultImageModel    = "gemini-3-pro-image-preview"
	DefaultHTTPTimeout   = 30 * time.Second
	DefaultLocalFile     = "output/veo_prompts.md" // ドキュメント保存先のデフォルトなのだ
	DefaultLocalImageDir = "output/designs"        // デザインシート保存先のデフォルトなのだ
)

// Config はアプリケーション全体の環境設定（APIキーやクラウド設定）を保持する構造体なのだ。
type Config struct {
	ProjectID        string
	LocationID       string
	GeminiAPIKey     string
	GeminiModel      string
	GeminiImageModel string

	Options GenerateOptions
}

// LoadConfig は環境変数から設定を読み込み、構造体を返すのだ！
func LoadConfig() *Config {
	cfg := &Config{
		ProjectID:        envutil.GetEnv("PROJECT_ID", ""),
		LocationID:       envutil.GetEnv("REGION", ""),
		GeminiAPIKey:     envutil.GetEnv("GEMINI_API_KEY", ""),
		GeminiModel:      envutil.GetEnv("GEMINI_MODEL", DefaultModel),
		GeminiImageModel: envutil.GetEnv("IMAGE_GEMINI_MODEL", DefaultImageModel),
	}
	return cfg
}

// GenerateOptions は CLI フラグから渡される実行時のパラメータなのだ。
type GenerateOptions struct {
	// ソース入力関連
	ScenesFile string // --scenes-file
	OutputFile string // --output-file

	// 台本の上書き指定
	Story          string // --story: 全体ストーリーの明示指定
	MainCharacters string // --main-characters: 主要キャラクターのカンマ区切り指定

	// シーンプレビュー関連
	SceneIndex int // --scene-index: プレビュー対象のシーン番号（1始まり）

	// 画像生成関連
	OutputImageDir string // --output-image-dir

	// AI挙動設定
	AIModel    string // --model: テキスト生成用のGeminiモデル
	ImageModel string // --image-model: 画像生成用のGeminiモデル

	// 実行制御
	HTTPTimeout time.Duration // --http-timeout
}
