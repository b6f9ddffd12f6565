// 包 model 定义粉丝（Follower）的规范化数据模型与原始输入结构。
package model

// Raw 为抽取阶段产出的原始记录：键为字段名，值类型不定（可能缺失/为 nil）。
type Raw map[string]any

// FriendshipStatus 为好友关系状态枚举。
type FriendshipStatus string

const (
	StatusCanRequest  FriendshipStatus = "CAN_REQUEST"
	StatusFriend      FriendshipStatus = "FRIEND"
	StatusFollowing   FriendshipStatus = "FOLLOWING"
	StatusRequestSent FriendshipStatus = "REQUEST_SENT"
	StatusUnknown     FriendshipStatus = "UNKNOWN"
)

// Valid 判断是否为五个规范值之一。
func (s FriendshipStatus) Valid() bool {
	switch s {
	case StatusCanRequest, StatusFriend, StatusFollowing, StatusRequestSent, StatusUnknown:
		return true
	}
	return false
}

// Gender 为性别枚举；空字符串表示缺失。
type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
	GenderOther  Gender = "OTHER"
)

// Valid 判断是否为三个规范值之一（空值不算）。
func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

// 字段名常量，与 JSON/CSV 列名一致。
const (
	FieldID               = "id"
	FieldImage            = "image"
	FieldTitle            = "title"
	FieldSubtitleText     = "subtitle_text"
	FieldURL              = "url"
	FieldFriendshipStatus = "friendship_status"
	FieldGender           = "gender"
	FieldName             = "name"
	FieldShortName        = "short_name"
)

// Fields 为模型字段的声明顺序（xlsx 列顺序）。
var Fields = []string{
	FieldID,
	FieldImage,
	FieldTitle,
	FieldSubtitleText,
	FieldURL,
	FieldFriendshipStatus,
	FieldGender,
	FieldName,
	FieldShortName,
}

// Follower 为通过校验的规范化粉丝记录。可选字段以空字符串表示缺失。
type Follower struct {
	ID               string           `json:"id"`
	Image            string           `json:"image"`
	Title            string           `json:"title"`
	SubtitleText     string           `json:"subtitle_text"`
	URL              string           `json:"url"`
	FriendshipStatus FriendshipStatus `json:"friendship_status"`
	Gender           Gender           `json:"gender"`
	Name             string           `json:"name"`
	ShortName        string           `json:"short_name"`
}

// Row 将记录展开为 字段名 -> 值 的映射，缺失字段为 nil（导出为 null/空单元格）。
func (f Follower) Row() map[string]any {
	return map[string]any{
		FieldID:               optional(f.ID),
		FieldImage:            optional(f.Image),
		FieldTitle:            optional(f.Title),
		FieldSubtitleText:     optional(f.SubtitleText),
		FieldURL:              optional(f.URL),
		FieldFriendshipStatus: string(f.FriendshipStatus),
		FieldGender:           optional(string(f.Gender)),
		FieldName:             f.Name,
		FieldShortName:        optional(f.ShortName),
	}
}

// Key 返回档案键：优先 id，其次 url，最后 name。用于存档去重。
func (f Follower) Key() string {
	switch {
	case f.ID != "":
		return "id:" + f.ID
	case f.URL != "":
		return "url:" + f.URL
	default:
		return "name:" + f.Name
	}
}

func optional(s string) any {
	if s == "" {
		return nil
	}
	return s
}
