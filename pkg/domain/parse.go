package domain

import "strings"

// ParseUniqueList はカンマ区切りテキストを順序付きの一意リストに変換します。
// 各トークンは前後の空白を除去し、空トークンは捨て、初出順で重複を排除します
// （重複判定はトリム後の文字列に対して大文字小文字を区別して行うのだ）。
// max が正の場合、リストは先頭から max 件に切り詰められます。
func ParseUniqueList(text string, max int) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	seen := make(map[string]struct{})
	var items []string
	for _, token := range strings.Split(text, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		if _, ok := seen[token]; ok {
			continue
		}
		seen[token] = struct{}{}
		items = append(items, token)
		if max > 0 && len(items) >= max {
			break
		}
	}
	return items
}

// AppendUnique は base に extras の未出現要素を追記し、max 件で打ち切ります。
// base 側の順序と既出要素はそのまま維持されるのだ。
func AppendUnique(base []string, extras []string, max int) []string {
	seen := make(map[string]struct{}, len(base))
	for _, item := range base {
		seen[item] = struct{}{}
	}

	merged := base
	if max > 0 && len(merged) > max {
		merged = merged[:max]
	}
	for _, item := range extras {
		if max > 0 && len(merged) >= max {
			break
		}
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		merged = append(merged, item)
	}
	return merged
}
