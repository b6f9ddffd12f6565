package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"go-fb-followers/internal/model"
)

// ErrInvalidInput 表示输入文件内容不合法。
var ErrInvalidInput = errors.New("invalid input")

// DefaultMaxItems 为 maxItems 缺省值。
const DefaultMaxItems = 50

// Input 为单次运行的输入：目标页面、条数上限、可选种子数据或页面快照。
type Input struct {
	URL           string      `json:"url"`
	MaxItems      *int        `json:"maxItems"`
	SeedFollowers []model.Raw `json:"seedFollowers"`
	Snapshot      string      `json:"snapshot"` // 本地保存的粉丝列表 HTML
	Theme         string      `json:"theme"`    // rules.yaml 预设名
}

// Limit 返回 maxItems（未提供时为默认值）。
func (in Input) Limit() int {
	if in.MaxItems == nil {
		return DefaultMaxItems
	}
	return *in.MaxItems
}

// LoadInput 读取输入 JSON。数字按 json.Number 解码，以保留长数字 id 的原样。
func LoadInput(path string) (*Input, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input %s: %w", path, err)
	}
	return ParseInput(b)
}

// ParseInput 解析输入 JSON 并校验。
func ParseInput(b []byte) (*Input, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var in Input
	if err := dec.Decode(&in); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrInvalidInput, err)
	}
	if in.Limit() < 0 {
		return nil, fmt.Errorf("%w: maxItems must be >= 0", ErrInvalidInput)
	}
	return &in, nil
}
