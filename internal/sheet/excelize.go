// 包 sheet 基于 excelize 实现单工作表 xlsx 写入（export.SheetWriter）。
package sheet

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// DefaultSheet 为 excelize 新建文件自带的工作表名。
const DefaultSheet = "Sheet1"

// Excelize 将表头与数据行写入 xlsx，不写索引列；nil 单元格留空。
type Excelize struct {
	Sheet string
}

// WriteRows 写出 path（存在则覆盖）。header 为空时只生成空工作表。
func (x Excelize) WriteRows(path string, header []string, rows [][]any) error {
	f := excelize.NewFile()
	defer f.Close()
	name := DefaultSheet
	if x.Sheet != "" && x.Sheet != DefaultSheet {
		if err := f.SetSheetName(DefaultSheet, x.Sheet); err != nil {
			return fmt.Errorf("rename sheet: %w", err)
		}
		name = x.Sheet
	}
	if len(header) > 0 {
		if err := setRow(f, name, 1, stringsToAny(header)); err != nil {
			return err
		}
		for i, r := range rows {
			if err := setRow(f, name, i+2, r); err != nil {
				return err
			}
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	for col, v := range values {
		if v == nil {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return fmt.Errorf("cell name: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("set %s!%s: %w", sheet, cell, err)
		}
	}
	return nil
}

func stringsToAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
