// 包 logx 是对标准库 slog 的薄封装：
// - 支持级别/格式/语言/颜色配置，输出目标可替换（测试时写入缓冲区）
// - pretty 格式输出 [调试]/[信息]/[警告]/[错误] 或英文标签
// - 通过 Debugf/Infof/Warnf/Errorf 暴露
package logx

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
)

// levelOff 高于所有级别，用于静默。
const levelOff slog.Level = 100

// Init 根据 level/format/locale/colorMode 初始化全局日志器（输出到 stdout）。
func Init(level, format, locale, colorMode string) {
	InitWriter(os.Stdout, level, format, locale, colorMode)
}

// InitWriter 同 Init，但写入指定 writer。
func InitWriter(w io.Writer, level, format, locale, colorMode string) {
	slog.SetDefault(slog.New(NewHandler(w, level, format, locale, colorMode)))
}

// NewHandler 按格式构造 Handler：json/text 使用 slog 自带实现，pretty（默认）使用 PrettyHandler。
func NewHandler(w io.Writer, level, format, locale, colorMode string) slog.Handler {
	lv := ParseLevel(level)
	opts := &slog.HandlerOptions{Level: lv}
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return slog.NewJSONHandler(w, opts)
	case "text":
		return slog.NewTextHandler(w, opts)
	default:
		return NewPrettyHandler(w, lv, locale, colorMode)
	}
}

// ParseLevel 将字符串级别解析为 slog.Level；未知值按 info 处理。
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "none", "silent", "off":
		return levelOff
	default:
		return slog.LevelInfo
	}
}

func Debugf(format string, v ...any) { slog.Debug(fmt.Sprintf(format, v...)) }
func Infof(format string, v ...any)  { slog.Info(fmt.Sprintf(format, v...)) }
func Warnf(format string, v ...any)  { slog.Warn(fmt.Sprintf(format, v...)) }
func Errorf(format string, v ...any) { slog.Error(fmt.Sprintf(format, v...)) }

// PrettyHandler 面向人读的单行输出：时间 + 等级标签 + 消息 + k=v 属性。
// attrs 中的键已带上添加时的分组前缀。
type PrettyHandler struct {
	w      io.Writer
	level  slog.Level
	zh     bool
	color  bool
	mu     *sync.Mutex
	attrs  []slog.Attr
	prefix string
}

// NewPrettyHandler 创建 PrettyHandler，locale 为空时默认 zh-CN。
func NewPrettyHandler(w io.Writer, lv slog.Level, locale, colorMode string) *PrettyHandler {
	if w == nil {
		w = os.Stdout
	}
	if locale == "" {
		locale = "zh-CN"
	}
	return &PrettyHandler{
		w:     w,
		level: lv,
		zh:    strings.HasPrefix(strings.ToLower(locale), "zh"),
		color: shouldColor(w, colorMode),
		mu:    &sync.Mutex{},
	}
}

func (h *PrettyHandler) Enabled(_ context.Context, l slog.Level) bool {
	return h.level < levelOff && l >= h.level
}

func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer
	ts := r.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	buf.WriteString(ts.Format("2006-01-02 15:04:05"))
	buf.WriteByte(' ')
	lbl := h.label(r.Level)
	if h.color {
		lbl = colorize(lbl, r.Level)
	}
	buf.WriteString(lbl)
	buf.WriteByte(' ')
	buf.WriteString(r.Message)
	write := func(key string, v slog.Value) {
		buf.WriteByte(' ')
		buf.WriteString(key)
		buf.WriteByte('=')
		buf.WriteString(v.String())
	}
	for _, a := range h.attrs {
		write(a.Key, a.Value)
	}
	r.Attrs(func(a slog.Attr) bool {
		write(h.prefix+a.Key, a.Value)
		return true
	})
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.w.Write(buf.Bytes())
	return err
}

func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	cp := *h
	cp.attrs = append([]slog.Attr{}, h.attrs...)
	for _, a := range attrs {
		cp.attrs = append(cp.attrs, slog.Attr{Key: h.prefix + a.Key, Value: a.Value})
	}
	return &cp
}

// WithGroup 以 "group." 作为后续属性键前缀。
func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	cp := *h
	cp.prefix += name + "."
	return &cp
}

func (h *PrettyHandler) label(l slog.Level) string {
	switch {
	case l < slog.LevelInfo:
		return pick(h.zh, "[调试]", "[DEBUG]")
	case l < slog.LevelWarn:
		return pick(h.zh, "[信息]", "[INFO]")
	case l < slog.LevelError:
		return pick(h.zh, "[警告]", "[WARN]")
	default:
		return pick(h.zh, "[错误]", "[ERROR]")
	}
}

func pick(zh bool, a, b string) string {
	if zh {
		return a
	}
	return b
}

// shouldColor 遵循 NO_COLOR 与 LOG_COLOR（auto|always|never），auto 时仅对终端启用。
func shouldColor(w io.Writer, mode string) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "always":
		return true
	case "auto", "":
		f, ok := w.(*os.File)
		return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
	default:
		return false
	}
}

func colorize(s string, l slog.Level) string {
	var code string
	switch {
	case l < slog.LevelInfo:
		code = "90"
	case l < slog.LevelWarn:
		code = "36"
	case l < slog.LevelError:
		code = "33"
	default:
		code = "31"
	}
	return "\x1b[" + code + "m" + s + "\x1b[0m"
}
