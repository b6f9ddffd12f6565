// 包 config 负责加载与校验应用配置（settings.yaml）与单次运行输入（input JSON），
// 对外提供 Config/Input 结构体及默认值/合法性校验。
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultFormats 为未配置导出格式时的默认值。
var DefaultFormats = []string{"json", "csv"}

type Config struct {
	Delays       Delays   `yaml:"DELAYS"`
	Export       Export   `yaml:"EXPORT"`
	SimpleMode   bool     `yaml:"SIMPLE_MODE"`
	ResetOnStart bool     `yaml:"RESET_ON_START"`
	Database     Database `yaml:"DATABASE"`
	LogLevel     string   `yaml:"LOG_LEVEL"`
	LogFormat    string   `yaml:"LOG_FORMAT"` // text|json|pretty
	LogLocale    string   `yaml:"LOG_LOCALE"` // zh-CN|en
	LogColor     string   `yaml:"LOG_COLOR"`  // auto|always|never
}

// Delays 为模拟滚动的等待参数（毫秒）。指针用于区分“未配置”与显式 0。
type Delays struct {
	ScrollMS  *int `yaml:"scroll_ms"`
	MinWaitMS *int `yaml:"min_wait_ms"`
	MaxWaitMS *int `yaml:"max_wait_ms"`
}

type Export struct {
	Formats  []string `yaml:"formats"`
	OutDir   string   `yaml:"out_dir"`
	BaseName string   `yaml:"base_name"` // 为空时按 UTC 时间生成
}

type Database struct {
	Type string `yaml:"type"` // sqlite (default)
	DSN  string `yaml:"dsn"`  // ./followers.db
}

// Default 返回全部取默认值的配置（settings 文件缺失时使用）。
func Default() (*Config, error) {
	c := &Config{}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate default config: %w", err)
	}
	return c, nil
}

// Load 从文件读取 YAML 并反序列化为 Config，同时进行基础校验与默认值填充。
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config %s: %w", path, err)
	}
	defer f.Close()
	b, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("unmarshal config %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &c, nil
}

// Validate 负责合法性检查与默认值设置，避免在业务层分散判空逻辑。
func (c *Config) Validate() error {
	c.Delays.ScrollMS = orDefault(c.Delays.ScrollMS, 600)
	c.Delays.MinWaitMS = orDefault(c.Delays.MinWaitMS, 300)
	c.Delays.MaxWaitMS = orDefault(c.Delays.MaxWaitMS, 900)
	if *c.Delays.ScrollMS < 0 || *c.Delays.MinWaitMS < 0 || *c.Delays.MaxWaitMS < 0 {
		return errors.New("DELAYS values must be >= 0")
	}
	if *c.Delays.MinWaitMS > *c.Delays.MaxWaitMS {
		return fmt.Errorf("DELAYS.min_wait_ms (%d) exceeds max_wait_ms (%d)", *c.Delays.MinWaitMS, *c.Delays.MaxWaitMS)
	}
	if len(c.Export.Formats) == 0 {
		c.Export.Formats = append([]string(nil), DefaultFormats...)
	}
	if c.Export.OutDir == "" {
		c.Export.OutDir = "data/outputs"
	}
	if c.Database.Type == "" {
		c.Database.Type = "sqlite"
	}
	if c.Database.Type != "sqlite" {
		return fmt.Errorf("unsupported database type: %s", c.Database.Type)
	}
	if c.Database.DSN == "" {
		c.Database.DSN = "./followers.db"
	}
	if c.LogFormat == "" {
		c.LogFormat = "pretty"
	}
	if c.LogLocale == "" {
		c.LogLocale = "zh-CN"
	}
	if c.LogColor == "" {
		c.LogColor = "auto"
	}
	return nil
}

func (d Delays) Scroll() time.Duration  { return ms(d.ScrollMS) }
func (d Delays) MinWait() time.Duration { return ms(d.MinWaitMS) }
func (d Delays) MaxWait() time.Duration { return ms(d.MaxWaitMS) }

// ParseFormats 解析逗号分隔的格式列表（命令行 -formats），忽略空项。
func ParseFormats(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// BaseName 返回导出文件基名：显式值优先，否则为 followers_<UTC yyyymmdd_HHMMSS>。
func BaseName(explicit string, now time.Time) string {
	if explicit != "" {
		return explicit
	}
	return "followers_" + now.UTC().Format("20060102_150405")
}

func orDefault(p *int, def int) *int {
	if p != nil {
		return p
	}
	return &def
}

func ms(p *int) time.Duration {
	if p == nil {
		return 0
	}
	return time.Duration(*p) * time.Millisecond
}
