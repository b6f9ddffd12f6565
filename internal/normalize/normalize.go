// 包 normalize 将原始记录校验并规范化为 model.Follower：
// - name 为必填，清洗后为空则整条记录被拒绝（不报错，仅不输出）
// - short_name/title 在 name 确定后派生
// - 枚举字段遇到未知值回退为默认值，不会失败
package normalize

import (
	"errors"
	"strings"

	"go-fb-followers/internal/model"
	"go-fb-followers/internal/textutil"
)

// ErrMissingName 表示记录缺少可用的 name。
var ErrMissingName = errors.New("name is required")

// Rejection 描述一条被拒绝的原始记录。
type Rejection struct {
	Index  int       // 在输入序列中的位置
	Reason error     // 拒绝原因（可 errors.Is 比较）
	Raw    model.Raw // 原始记录
}

// Result 为单条记录的校验结果：Accepted 为 true 时 Follower 有效，否则 Rejection 有效。
type Result struct {
	Accepted  bool
	Follower  model.Follower
	Rejection Rejection
}

// Normalize 按输入顺序规范化，丢弃未通过校验的记录。
func Normalize(raws []model.Raw) []model.Follower {
	out, _ := NormalizeAll(raws)
	return out
}

// NormalizeAll 同 Normalize，并额外返回被拒绝的记录，便于上层记录或存档。
func NormalizeAll(raws []model.Raw) ([]model.Follower, []Rejection) {
	out := make([]model.Follower, 0, len(raws))
	var rejected []Rejection
	for i, raw := range raws {
		res := Record(raw, i)
		if !res.Accepted {
			rejected = append(rejected, res.Rejection)
			continue
		}
		out = append(out, res.Follower)
	}
	return out, rejected
}

// Record 规范化单条记录。顺序：name → 派生字段 → 其余独立字段。
func Record(raw model.Raw, index int) Result {
	name, ok := textutil.CleanText(raw[model.FieldName])
	if !ok {
		return Result{Rejection: Rejection{Index: index, Reason: ErrMissingName, Raw: raw}}
	}
	f := model.Follower{
		Name:             name,
		ShortName:        shortName(raw[model.FieldShortName], name),
		Title:            title(raw[model.FieldTitle], name),
		URL:              canonicalURL(raw[model.FieldURL]),
		FriendshipStatus: friendshipStatus(raw[model.FieldFriendshipStatus]),
		Gender:           gender(raw[model.FieldGender]),
		ID:               text(raw[model.FieldID]),
		Image:            text(raw[model.FieldImage]),
		SubtitleText:     text(raw[model.FieldSubtitleText]),
	}
	return Result{Accepted: true, Follower: f}
}

// shortName 显式提供则清洗使用，否则取 name 的第一个空白分隔词。
func shortName(v any, name string) string {
	if s, ok := textutil.CleanText(v); ok {
		return s
	}
	first, _, _ := strings.Cut(name, " ")
	return first
}

// title 显式提供则清洗使用，否则回退为 name。
func title(v any, name string) string {
	if s, ok := textutil.CleanText(v); ok {
		return s
	}
	return name
}

func canonicalURL(v any) string {
	s, ok := textutil.ToString(v)
	if !ok {
		return ""
	}
	return textutil.CanonicalURL(s)
}

func friendshipStatus(v any) model.FriendshipStatus {
	s, ok := textutil.ToString(v)
	if !ok {
		return model.StatusUnknown
	}
	st := model.FriendshipStatus(strings.ToUpper(strings.TrimSpace(s)))
	if !st.Valid() {
		return model.StatusUnknown
	}
	return st
}

// gender 只接受与规范值完全一致（去空白后）的输入：male/Female 等大小写变体视为缺失。
// 有意不做大写转换，否则 "male" 会被接受为 MALE。
func gender(v any) model.Gender {
	s, ok := textutil.ToString(v)
	if !ok {
		return ""
	}
	g := model.Gender(strings.TrimSpace(s))
	if !g.Valid() {
		return ""
	}
	return g
}

func text(v any) string {
	s, _ := textutil.CleanText(v)
	return s
}
