package runner

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"

	veoconfig "github.com/shouni/go-veo-kit/pkg/config"
	"github.com/shouni/go-veo-kit/pkg/domain"

	imgdom "github.com/shouni/gemini-image-kit/pkg/domain"
	"github.com/shouni/go-remote-io/pkg/remoteio"
)

const (
	// プロンプト構成用の定数
	designPromptBaseTemplate = "Masterpiece character reference sheet of %s"
	designLayoutDefault      = "multiple views (front, side, back), standing full body"
	designLayoutPromptFormat = "Layout: %s, side-by-side, separate character charts"
	designAspectRatio        = "16:9"
)

// fileNameSanitizer はファイル名として使用できない文字を置換します。
var fileNameSanitizer = strings.NewReplacer(
	"/", "_",
	`\`, "_",
	":", "_",
	"*", "_",
	"?", "_",
	`"`, "_",
	"<", "_",
	">", "_",
	"|", "_",
	" ", "_",
)

// DesignRunner は共有エンティティプールからキャラクターデザインシートを生成する実行実体なのだ。
// 正規化済みの説明文をそのまま画像プロンプトに流用するため、
// 動画プロンプト側と見た目の認識が一致します。
type DesignRunner struct {
	cfg       veoconfig.Config
	generator imgdom.ImageGenerator
	writer    remoteio.OutputWriter
}

// NewDesignRunner は依存関係を注入して初期化します。
func NewDesignRunner(cfg veoconfig.Config, generator imgdom.ImageGenerator, writer remoteio.OutputWriter) *DesignRunner {
	return &DesignRunner{
		cfg:       cfg,
		generator: generator,
		writer:    writer,
	}
}

// Run はプール内の主要キャラクターのデザインシートを1枚生成し、指定されたディレクトリに保存します。
func (dr *DesignRunner) Run(ctx context.Context, pool *domain.ConsistencyPool, outputDir string) (string, int64, error) {
	if pool == nil || len(pool.MainCharacters) == 0 {
		return "", 0, fmt.Errorf("主要キャラクターが空のため、デザインシートを生成できません")
	}

	designPrompt := dr.buildDesignPrompt(pool)

	slog.InfoContext(ctx, "Executing design sheet generation",
		slog.Any("chars", pool.MainCharacters),
	)

	// 先頭キャラクターの名前からシードを決定し、再生成時も同じ見た目に寄せるのだ。
	seed := int64(domain.GetSeedFromName(pool.MainCharacters[0]))

	pageReq := imgdom.ImagePageRequest{
		Prompt:      designPrompt,
		AspectRatio: designAspectRatio,
		Seed:        ptrInt64(seed),
	}

	resp, err := dr.generator.GenerateMangaPage(ctx, pageReq)
	if err != nil {
		slog.Error("Design generation failed", "error", err)
		return "", 0, fmt.Errorf("画像の生成に失敗しました: %w", err)
	}

	outputPath, err := dr.saveResponseImage(ctx, *resp, pool.MainCharacters, outputDir)
	if err != nil {
		slog.Error("Failed to save image", "error", err)
		return "", 0, fmt.Errorf("画像の保存に失敗しました: %w", err)
	}

	return outputPath, resp.UsedSeed, nil
}

// saveResponseImage は、生成された画像データを指定されたディレクトリに保存します。
func (dr *DesignRunner) saveResponseImage(ctx context.Context, resp imgdom.ImageResponse, names []string, outputDir string) (string, error) {
	charTags := strings.Join(names, "_")
	sanitizedCharTags := fileNameSanitizer.Replace(charTags)

	extension := getPreferredExtension(resp.MimeType)
	filename := fmt.Sprintf("design_%s%s", sanitizedCharTags, extension)
	finalPath := path.Join(outputDir, filename)

	if err := dr.writer.Write(ctx, finalPath, bytes.NewReader(resp.Data), resp.MimeType); err != nil {
		return "", fmt.Errorf("画像の保存に失敗しました (path: %s): %w", finalPath, err)
	}

	return finalPath, nil
}

// buildDesignPrompt は正規化済みの説明文からデザインシート用プロンプトを構築します。
func (dr *DesignRunner) buildDesignPrompt(pool *domain.ConsistencyPool) string {
	descriptions := make([]string, 0, len(pool.MainCharacters))
	for _, name := range pool.MainCharacters {
		descriptions = append(descriptions, pool.DescriptionFor(name))
	}

	var subjects string
	if len(descriptions) > 1 {
		subjectParts := make([]string, len(descriptions))
		for i, d := range descriptions {
			subjectParts[i] = fmt.Sprintf("[Subject %d: %s]", i+1, d)
		}
		subjects = fmt.Sprintf("%d DIFFERENT characters: %s", len(descriptions), strings.Join(subjectParts, " "))
	} else {
		subjects = descriptions[0]
	}

	base := fmt.Sprintf(designPromptBaseTemplate, subjects)
	layout := fmt.Sprintf(designLayoutPromptFormat, designLayoutDefault)

	promptParts := []string{base, layout}
	if dr.cfg.StyleSuffix != "" {
		promptParts = append(promptParts, dr.cfg.StyleSuffix)
	}
	promptParts = append(promptParts, "plain background", "sharp focus", "4k resolution")

	return strings.Join(promptParts, ", ")
}

func ptrInt64(v int64) *int64 {
	if v == 0 {
		return nil
	}
	return &v
}

func getPreferredExtension(mimeType string) string {
	preferred := map[string]string{"image/png": ".png", "image/jpeg": ".jpg"}
	if ext, ok := preferred[mimeType]; ok {
		return ext
	}
	return ".png"
}
