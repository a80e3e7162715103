package domain

// プールに保持する共有要素の上限なのだ。切り詰めは発見順で行われます。
const (
	MaxMainCharacters  = 3
	MaxSharedProps     = 5
	MaxSharedLandscape = 3
	MaxSharedSounds    = 7
)

// ConsistencyPool は、マルチシーンリクエスト全体で共有されるエンティティの集合です。
// リクエストごとに一度だけ構築され、以降は読み取り専用として扱われます。
// プロセスを跨いだ永続化は行いません。
type ConsistencyPool struct {
	// OverallStory は全シーンを貫く物語の一文です。
	OverallStory string
	// MainCharacters は主要キャラクター名（最大3名、発見順）です。
	MainCharacters []string
	// CharacterDescriptions は キャラクター名 -> 強化済みの正規説明文 のマップです。
	// キーは必ずいずれかのシーンの character フィールドに現れた名前です。
	CharacterDescriptions map[string]string
	// SharedProps / SharedLandscape / SharedSounds は全シーンから収集した共有要素です。
	SharedProps     []string
	SharedLandscape []string
	SharedSounds    []string
}

// DescriptionFor は、名前に対応する正規説明文を返します。
// 未登録の名前は生の名前をそのまま返すのだ。
func (p *ConsistencyPool) DescriptionFor(name string) string {
	if p == nil {
		return name
	}
	if desc, ok := p.CharacterDescriptions[name]; ok && desc != "" {
		return desc
	}
	return name
}
