// 包 rules 负责加载 rules.yaml：以预设名（如 default/classic）组织粉丝卡片的 CSS 选择器，
// 用于解析保存下来的粉丝列表页面快照。
package rules

import (
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Rules 表示全部规则集合：键为预设名，值为具体规则。
type Rules struct {
	Presets map[string]Preset `yaml:",inline"`
}

// Preset 为单个页面版式的解析规则。
type Preset struct {
	FollowersPage *FollowersPage `yaml:"followers_page"`
}

// FollowersPage 描述粉丝列表页的选择器：
// - item：每个粉丝条目容器
// - 其余字段取文本或属性（支持 a@href / img@src / @data-id），可用 "||" 回退
type FollowersPage struct {
	Item             string `yaml:"item"`
	ID               string `yaml:"id"`
	Image            string `yaml:"image"`
	Name             string `yaml:"name"`
	ShortName        string `yaml:"short_name"`
	SubtitleText     string `yaml:"subtitle_text"`
	URL              string `yaml:"url"`
	FriendshipStatus string `yaml:"friendship_status"`
	Gender           string `yaml:"gender"`
}

// Load 从文件加载 YAML 到 Rules.Presets。
func Load(path string) (*Rules, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open rules %s: %w", path, err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse 从 reader 解析规则。
func Parse(r io.Reader) (*Rules, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read rules: %w", err)
	}
	var rl Rules
	if err := yaml.Unmarshal(b, &rl.Presets); err != nil {
		return nil, fmt.Errorf("unmarshal rules: %w", err)
	}
	return &rl, nil
}

// GetPreset 按名称获取预设（不区分大小写），为空或不存在时回退到 "default"。
func (r *Rules) GetPreset(name string) (Preset, bool) {
	if r == nil || len(r.Presets) == 0 {
		return Preset{}, false
	}
	if name == "" {
		name = "default"
	}
	if p, ok := r.Presets[name]; ok {
		return p, true
	}
	for k, v := range r.Presets {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	for k, v := range r.Presets {
		if strings.EqualFold(k, "default") {
			return v, true
		}
	}
	return Preset{}, false
}
