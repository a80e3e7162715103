package generation

import (
	"context"
	"errors"

	"github.com/shouni/go-veo-kit/pkg/domain"
)

// UnavailableClient は、生成クライアントが構成されていないことを表す型付きの代替実装です。
// nil のグローバル変数で「未設定」を表現する代わりに、この実装を注入するのだ。
// すべての呼び出しは KindUnavailable の *Error を返し、ワークフロー側の
// フォールバック経路に合流します。
type UnavailableClient struct {
	reason string
}

// NewUnavailableClient は未構成理由を添えて UnavailableClient を生成します。
func NewUnavailableClient(reason string) *UnavailableClient {
	if reason == "" {
		reason = "生成クライアントが構成されていません"
	}
	return &UnavailableClient{reason: reason}
}

// GeneratePrompt は常に KindUnavailable の *Error を返します。
func (c *UnavailableClient) GeneratePrompt(_ context.Context, _ string) (*domain.GeneratedPrompt, error) {
	return nil, &Error{Kind: KindUnavailable, Err: errors.New(c.reason)}
}

// EnhanceDescription は常に KindUnavailable の *Error を返します。
func (c *UnavailableClient) EnhanceDescription(_ context.Context, _ string) (string, error) {
	return "", &Error{Kind: KindUnavailable, Err: errors.New(c.reason)}
}
