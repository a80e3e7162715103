package config

import (
	"time"
)

// デフォルト値の定義
const (
	DefaultGeminiModel  = "gemini-3-flash-preview"
	DefaultImageModel   = "gemini-3-pro-image-preview"
	DefaultRateInterval = 10 * time.Second
	DefaultRateBurst    = 2

	// ClipDurationSeconds は1シーンあたりの動画の長さ（秒）です。
	ClipDurationSeconds = 8

	// DefaultCameraStyle は camera_style が空のときに使われる固定フレーズです。
	DefaultCameraStyle = "POV, selfie stick, handheld and personal, natural movement"

	// DefaultStoryPlaceholder は overall_story 未指定時の固定プレースホルダです。
	DefaultStoryPlaceholder = "An entertaining outdoor adventure vlog shared by a group of friends."

	// DefaultDesignStyleSuffix はデザインシート生成に付与する共通の画風サフィックスです。
	DefaultDesignStyleSuffix = "photorealistic, natural daylight, documentary still, sharp focus, high resolution"
)

// Config は Go Veo Kit の各 Runner を動作させるための基本設定です。
type Config struct {
	// --- AI Model Settings ---
	GeminiModel string
	ImageModel  string

	// --- Google AI (Gemini API) Settings ---
	GeminiAPIKey string

	// --- Generation Settings ---
	CameraStyle      string
	StoryPlaceholder string
	StyleSuffix      string
	RateInterval     time.Duration
}

// DefaultConfig は推奨されるデフォルト設定を返すヘルパー関数です。
func DefaultConfig() Config {
	return Config{
		GeminiModel:      DefaultGeminiModel,
		ImageModel:       DefaultImageModel,
		CameraStyle:      DefaultCameraStyle,
		StoryPlaceholder: DefaultStoryPlaceholder,
		StyleSuffix:      DefaultDesignStyleSuffix,
		RateInterval:     DefaultRateInterval,
	}
}
