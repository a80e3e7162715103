// Package runner は、ワークフローの各工程を外部I/O（ローカル/GCS）と
// 結び付ける実行実体（Runner）を提供します。
package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/shouni/go-veo-kit/pkg/domain"
	"github.com/shouni/go-veo-kit/pkg/workflow"

	"github.com/shouni/go-remote-io/pkg/remoteio"
)

const documentMimeType = "text/markdown"

// DocumentRunner はマルチシーンドキュメントの生成と保存を担当します。
type DocumentRunner struct {
	manager *workflow.Manager
	writer  remoteio.OutputWriter
}

// NewDocumentRunner は依存関係を注入して初期化します。
func NewDocumentRunner(manager *workflow.Manager, writer remoteio.OutputWriter) *DocumentRunner {
	return &DocumentRunner{
		manager: manager,
		writer:  writer,
	}
}

// Run はリクエストからマルチシーンドキュメントを生成して保存します。
func (dr *DocumentRunner) Run(ctx context.Context, req *domain.ScriptRequest, outputPath string) (string, error) {
	doc, err := dr.manager.BuildMultiSceneDocument(ctx, req.Scenes, req.OverallStory, req.MainCharacters)
	if err != nil {
		return "", fmt.Errorf("マルチシーンドキュメントの生成に失敗しました: %w", err)
	}

	if err := dr.writer.Write(ctx, outputPath, strings.NewReader(doc), documentMimeType); err != nil {
		return "", fmt.Errorf("ドキュメントの保存に失敗しました (path: %s): %w", outputPath, err)
	}

	slog.InfoContext(ctx, "ドキュメントを保存しました", "path", outputPath)
	return doc, nil
}

// DecodeScriptRequest は任意の入力ストリームから ScriptRequest をデコードします。
// 標準入力からの読み込みにも同じ経路を使うのだ。
func DecodeScriptRequest(r io.Reader) (*domain.ScriptRequest, error) {
	var req domain.ScriptRequest
	if err := json.NewDecoder(r).Decode(&req); err != nil {
		return nil, fmt.Errorf("台本JSONのデコードに失敗しました: %w", err)
	}
	return &req, nil
}
