// 包 extract 为上游数据源：
// - Extractor：模拟滚动加载（随机延时），返回种子数据或确定性的样例数据
// - ParseSnapshot：按 rules.yaml 选择器解析本地保存的粉丝列表页面
// 不做任何网络请求或浏览器自动化。
package extract

import (
	"context"
	"math/rand"
	"time"

	"go-fb-followers/internal/logx"
	"go-fb-followers/internal/model"
	"go-fb-followers/internal/textutil"
)

// Extractor 模拟滚动抽取。Sleep 为空时使用可被 ctx 取消的真实等待。
type Extractor struct {
	ScrollDelay time.Duration
	MinWait     time.Duration
	MaxWait     time.Duration
	Sleep       func(ctx context.Context, d time.Duration) error

	rng *rand.Rand
}

// New 创建 Extractor。
func New(scrollDelay, minWait, maxWait time.Duration) *Extractor {
	return &Extractor{
		ScrollDelay: scrollDelay,
		MinWait:     minWait,
		MaxWait:     maxWait,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Run 模拟 maxItems 次滚动后返回记录：有种子数据则截断使用，否则生成样例。
// 返回前做一次预清洗（文本折叠空白、链接规范化、title/name 互为回退）。
func (e *Extractor) Run(ctx context.Context, url string, maxItems int, seed []model.Raw) ([]model.Raw, error) {
	logx.Debugf("开始模拟滚动：url=%s maxItems=%d", url, maxItems)
	for loaded := 0; loaded < maxItems; loaded++ {
		if err := e.sleep(ctx, e.humanDelay()); err != nil {
			return nil, err
		}
	}
	var records []model.Raw
	if len(seed) > 0 {
		logx.Debugf("使用输入提供的种子粉丝（%d）", len(seed))
		records = seed
		if len(records) > maxItems {
			records = records[:max(0, maxItems)]
		}
	} else {
		logx.Debugf("未提供种子粉丝，生成样例数据")
		records = Fabricate(maxItems)
	}
	out := make([]model.Raw, 0, len(records))
	for _, r := range records {
		out = append(out, PreClean(r))
	}
	return out, nil
}

// PreClean 在规范化之前清洗明显的文本/链接问题，键集合固定为模型的九个字段。
func PreClean(r model.Raw) model.Raw {
	return model.Raw{
		model.FieldID:               cleaned(r[model.FieldID]),
		model.FieldImage:            cleaned(r[model.FieldImage]),
		model.FieldTitle:            cleaned(firstTruthy(r[model.FieldTitle], r[model.FieldName])),
		model.FieldSubtitleText:     cleaned(r[model.FieldSubtitleText]),
		model.FieldURL:              canonical(r[model.FieldURL]),
		model.FieldFriendshipStatus: cleaned(firstTruthy(r[model.FieldFriendshipStatus], string(model.StatusUnknown))),
		model.FieldGender:           cleaned(r[model.FieldGender]),
		model.FieldName:             cleaned(firstTruthy(r[model.FieldName], r[model.FieldTitle])),
		model.FieldShortName:        cleaned(r[model.FieldShortName]),
	}
}

// humanDelay 在 [MinWait, MaxWait] 内取随机延时；两者均未设置时固定为 ScrollDelay。
func (e *Extractor) humanDelay() time.Duration {
	if e.MinWait == 0 && e.MaxWait == 0 {
		return e.ScrollDelay
	}
	lo, hi := e.MinWait, e.MaxWait
	if hi < lo {
		lo, hi = hi, lo
	}
	if hi <= lo {
		return lo
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return lo + time.Duration(e.rng.Int63n(int64(hi-lo)+1))
}

func (e *Extractor) sleep(ctx context.Context, d time.Duration) error {
	if e.Sleep != nil {
		return e.Sleep(ctx, d)
	}
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// cleaned 返回清洗后的字符串，空值为 nil。
func cleaned(v any) any {
	if s, ok := textutil.CleanText(v); ok {
		return s
	}
	return nil
}

func canonical(v any) any {
	s, _ := textutil.ToString(v)
	if u := textutil.CanonicalURL(s); u != "" {
		return u
	}
	return nil
}

// firstTruthy 返回第一个非 nil 且非空字符串的值。
func firstTruthy(vs ...any) any {
	for _, v := range vs {
		if v == nil {
			continue
		}
		if s, ok := v.(string); ok && s == "" {
			continue
		}
		return v
	}
	return nil
}
