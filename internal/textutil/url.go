package textutil

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const canonicalFBHost = "https://www.facebook.com"

// fbAliases 为需要改写为 www 的 Facebook 主机前缀（已补全 https://）。
var fbAliases = []string{
	"https://m.facebook.com",
	"https://mbasic.facebook.com",
	"https://facebook.com",
}

// CanonicalURL 规范化资料页链接：
// 1. 去首尾空白，空输入返回空串
// 2. 不以 http 开头时去掉前导斜杠并补 https://
// 3. http:// 改写为 https://（不区分大小写）
// 4. 截断第一个 ? 之后的查询串并再次去空白
// 5. m./mbasic./裸 facebook.com 主机改写为 www.facebook.com
// 非 Facebook 链接只做协议与查询串处理。结果对自身幂等。
func CanonicalURL(raw string) string {
	u := strings.TrimSpace(raw)
	if u == "" {
		return ""
	}
	if !hasPrefixFold(u, "http") {
		u = "https://" + strings.TrimLeft(u, "/")
	}
	if hasPrefixFold(u, "http://") {
		u = "https://" + u[len("http://"):]
	}
	// 主机改写必须在截断与去空白之后，否则 "facebook.com ?x" 第二次调用才会被改写
	if i := strings.IndexByte(u, '?'); i >= 0 {
		u = strings.TrimSpace(u[:i])
	}
	for _, alias := range fbAliases {
		if hasHostPrefixFold(u, alias) {
			return canonicalFBHost + u[len(alias):]
		}
	}
	return u
}

// hasHostPrefixFold 要求前缀之后是主机边界（/ # : 空白或结尾）。
// 与简单前缀改写不同：facebook.com.example.org、facebook.company 不视为 Facebook 主机。
func hasHostPrefixFold(s, prefix string) bool {
	if !hasPrefixFold(s, prefix) {
		return false
	}
	rest := s[len(prefix):]
	if rest == "" {
		return true
	}
	switch rest[0] {
	case '/', '?', '#', ':':
		return true
	}
	r, _ := utf8.DecodeRuneInString(rest)
	return unicode.IsSpace(r)
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}
