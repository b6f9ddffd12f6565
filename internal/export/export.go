// 包 export 将规范化后的粉丝记录按格式写入文件：
// - json：整体数组，缩进 2 空格，保留非 ASCII 字符
// - jsonl：每行一个对象
// - csv：以首条记录的字段名排序作为表头；零条记录写空文件
// - xlsx：委托给 SheetWriter
// 未注册的格式标识静默跳过。
package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go-fb-followers/internal/model"
)

// ErrNoSheetWriter 表示请求了 xlsx 但未注入 SheetWriter。
var ErrNoSheetWriter = errors.New("xlsx export requires a sheet writer")

// SheetWriter 为电子表格写入能力：按表头与行写一个单工作表文件。
// nil 单元格表示空白。
type SheetWriter interface {
	WriteRows(path string, header []string, rows [][]any) error
}

// writeFunc 将记录写入 path。
type writeFunc func(e *Exporter, path string, records []model.Follower) error

// formats 为 格式标识 → 写入函数 的注册表，扩展名与标识相同。
var formats = map[string]writeFunc{
	"json":  (*Exporter).writeJSON,
	"jsonl": (*Exporter).writeJSONL,
	"csv":   (*Exporter).writeCSV,
	"xlsx":  (*Exporter).writeXLSX,
}

// Supported 返回格式是否受支持（不区分大小写，忽略首尾空白）。
func Supported(format string) bool {
	_, ok := formats[normalizeFormat(format)]
	return ok
}

// Options 为 Exporter 构造参数。
type Options struct {
	Sheet SheetWriter
}

// Exporter 持有可选的电子表格写入器，本身无状态。
type Exporter struct {
	sheet SheetWriter
}

// New 创建 Exporter。
func New(opts Options) *Exporter {
	return &Exporter{sheet: opts.Sheet}
}

// Export 确保 outDir 存在，并按请求顺序为每个已知格式写出 <baseName>.<ext>。
// 返回实际写入的文件路径；遇到 I/O 错误立即返回。
func (e *Exporter) Export(ctx context.Context, records []model.Follower, outDir, baseName string, fmts []string) ([]string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir %s: %w", outDir, err)
	}
	var written []string
	for _, raw := range fmts {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		name := normalizeFormat(raw)
		write, ok := formats[name]
		if !ok {
			continue
		}
		path := filepath.Join(outDir, baseName+"."+name)
		if err := write(e, path, records); err != nil {
			return written, fmt.Errorf("export %s: %w", name, err)
		}
		written = append(written, path)
	}
	return written, nil
}

func normalizeFormat(f string) string {
	return strings.ToLower(strings.TrimSpace(f))
}

// rows 将记录展开为映射切片，供 json/jsonl/csv 共用。
func rows(records []model.Follower) []map[string]any {
	out := make([]map[string]any, 0, len(records))
	for _, r := range records {
		out = append(out, r.Row())
	}
	return out
}
