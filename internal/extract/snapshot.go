package extract

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"go-fb-followers/internal/model"
	"go-fb-followers/internal/rules"
)

// maxSnapshotBytes 为快照读取上限。
const maxSnapshotBytes = 8 << 20

// ParseSnapshotFile 打开本地 HTML 快照并解析。
func ParseSnapshotFile(path, pageURL string, preset rules.Preset) ([]model.Raw, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot %s: %w", path, err)
	}
	defer f.Close()
	return ParseSnapshot(f, pageURL, preset)
}

// ParseSnapshot 根据选择器预设从粉丝列表页抽取原始记录。
// 规则语法：
// - 文本：".name" 或 "."（取当前项文本）
// - 属性："a@href"/"img@src"/"@data-id"（当前项属性）
// - 回退：使用 "||" 连接多个候选，按先后尝试
// url/image 会相对 pageURL 绝对化；未命中的字段不出现在记录中。
func ParseSnapshot(r io.Reader, pageURL string, preset rules.Preset) ([]model.Raw, error) {
	fp := preset.FollowersPage
	if fp == nil || strings.TrimSpace(fp.Item) == "" {
		return nil, nil
	}
	doc, err := goquery.NewDocumentFromReader(io.LimitReader(r, maxSnapshotBytes))
	if err != nil {
		return nil, fmt.Errorf("parse snapshot html: %w", err)
	}
	var out []model.Raw
	doc.Find(fp.Item).Each(func(_ int, s *goquery.Selection) {
		rec := model.Raw{}
		set := func(key, expr string, resolve bool) {
			v := getVal(s, expr)
			if resolve {
				v = abs(pageURL, v)
			}
			if v != "" {
				rec[key] = v
			}
		}
		set(model.FieldID, fp.ID, false)
		set(model.FieldImage, fp.Image, true)
		set(model.FieldName, fp.Name, false)
		set(model.FieldShortName, fp.ShortName, false)
		set(model.FieldSubtitleText, fp.SubtitleText, false)
		set(model.FieldURL, fp.URL, true)
		set(model.FieldFriendshipStatus, fp.FriendshipStatus, false)
		set(model.FieldGender, fp.Gender, false)
		if len(rec) == 0 {
			return
		}
		out = append(out, rec)
	})
	return out, nil
}

// getVal 解析表达式，"||" 分隔的候选按先后尝试，返回第一个非空值。
func getVal(scope *goquery.Selection, expr string) string {
	for _, p := range strings.Split(expr, "||") {
		if v := getValSingle(scope, strings.TrimSpace(p)); v != "" {
			return v
		}
	}
	return ""
}

// getValSingle 解析单个表达式：文本或属性读取。
func getValSingle(scope *goquery.Selection, expr string) string {
	if expr == "" {
		return ""
	}
	if expr == "." {
		return strings.TrimSpace(scope.Text())
	}
	if at := strings.Index(expr, "@"); at != -1 {
		sel := strings.TrimSpace(expr[:at])
		attr := strings.TrimSpace(expr[at+1:])
		target := scope
		if sel != "" {
			target = scope.Find(sel).First()
		}
		val, _ := target.Attr(attr)
		return strings.TrimSpace(val)
	}
	return strings.TrimSpace(scope.Find(expr).First().Text())
}

// abs 将相对链接转换为绝对 URL；pageURL 为空时原样返回。
func abs(base, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" || base == "" {
		return ref
	}
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	bu, err := url.Parse(base)
	if err != nil {
		return ref
	}
	ru, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return bu.ResolveReference(ru).String()
}
