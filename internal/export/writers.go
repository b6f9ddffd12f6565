package export

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"go-fb-followers/internal/model"
)

func (e *Exporter) writeJSON(path string, records []model.Follower) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rows(records)); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	// Encoder 会追加换行，文件内容以 ] 结尾
	return writeFile(path, bytes.TrimRight(buf.Bytes(), "\n"))
}

func (e *Exporter) writeJSONL(path string, records []model.Follower) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	for i, r := range rows(records) {
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("encode jsonl line %d: %w", i+1, err)
		}
	}
	return writeFile(path, buf.Bytes())
}

// writeCSV 以首条记录的字段名（排序后）作为列；后续记录中不在表头里的字段被丢弃，缺失字段写空。
func (e *Exporter) writeCSV(path string, records []model.Follower) error {
	return writeCSVRows(path, rows(records))
}

func writeCSVRows(path string, rs []map[string]any) error {
	if len(rs) == 0 {
		return writeFile(path, nil)
	}
	header := make([]string, 0, len(rs[0]))
	for k := range rs[0] {
		header = append(header, k)
	}
	sort.Strings(header)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	bw := bufio.NewWriter(f)
	w := csv.NewWriter(bw)
	w.UseCRLF = true
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	line := make([]string, len(header))
	for i, r := range rs {
		for j, k := range header {
			line[j] = cell(r[k])
		}
		if err := w.Write(line); err != nil {
			return fmt.Errorf("write csv row %d: %w", i+1, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return f.Close()
}

// writeXLSX 列按模型字段声明顺序；零条记录时写一个没有表头的空工作表。
func (e *Exporter) writeXLSX(path string, records []model.Follower) error {
	if e == nil || e.sheet == nil {
		return ErrNoSheetWriter
	}
	var header []string
	if len(records) > 0 {
		header = model.Fields
	}
	table := make([][]any, 0, len(records))
	for _, r := range records {
		row := r.Row()
		line := make([]any, len(header))
		for j, k := range header {
			line[j] = row[k]
		}
		table = append(table, line)
	}
	if err := e.sheet.WriteRows(path, header, table); err != nil {
		return fmt.Errorf("write xlsx %s: %w", path, err)
	}
	return nil
}

func cell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}

// writeFile 覆盖写入（不追加）。
func writeFile(path string, b []byte) error {
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
