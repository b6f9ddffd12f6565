// 包 textutil 提供规范化所需的文本工具：
// - CleanText：去首尾空白并折叠连续空白
// - CanonicalURL：协议补全、Facebook 主机归一、去查询串
// - ToString：将松散类型的值转换为字符串
package textutil

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// CleanText 去除首尾空白并将任意连续空白折叠为单个空格。
// 第二个返回值为 false 表示结果为空（视为缺失）。
func CleanText(v any) (string, bool) {
	s, ok := ToString(v)
	if !ok {
		return "", false
	}
	s = strings.Join(strings.Fields(s), " ")
	return s, s != ""
}

// ToString 将原始值转换为字符串；nil 返回 false。
// 整数值的浮点数按整数格式输出，避免 JSON 数字 id 变成科学计数法。
func ToString(v any) (string, bool) {
	switch x := v.(type) {
	case nil:
		return "", false
	case string:
		return x, true
	case *string:
		if x == nil {
			return "", false
		}
		return *x, true
	case json.Number:
		return x.String(), true
	case float64:
		return formatFloat(x, 64), true
	case float32:
		return formatFloat(float64(x), 32), true
	case bool:
		// 与上游数据源保持一致：True/False
		if x {
			return "True", true
		}
		return "False", true
	case fmt.Stringer:
		return x.String(), true
	default:
		return fmt.Sprint(x), true
	}
}

func formatFloat(f float64, bits int) string {
	if f == math.Trunc(f) && !math.IsInf(f, 0) && math.Abs(f) < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, bits)
	}
	return strconv.FormatFloat(f, 'g', -1, bits)
}
