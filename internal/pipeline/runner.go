// 包 pipeline 负责主流程编排：
// - 取得原始记录（种子数据/页面快照/样例数据），经模拟滚动与预清洗
// - 规范化并记录被拒绝的条目
// - 可选写入 SQLite 存档
// - 按请求格式导出
package pipeline

import (
	"context"
	"fmt"

	"go-fb-followers/internal/config"
	"go-fb-followers/internal/extract"
	"go-fb-followers/internal/logx"
	"go-fb-followers/internal/model"
	"go-fb-followers/internal/normalize"
	"go-fb-followers/internal/rules"
)

// Source 为原始记录来源（extract.Extractor 满足该接口）。
type Source interface {
	Run(ctx context.Context, url string, maxItems int, seed []model.Raw) ([]model.Raw, error)
}

// Exporter 为导出能力（export.Exporter 满足该接口）。
type Exporter interface {
	Export(ctx context.Context, records []model.Follower, outDir, baseName string, formats []string) ([]string, error)
}

// Archive 为运行存档（store.SQLite 满足该接口）；为 nil 时跳过。
type Archive interface {
	SaveRun(ctx context.Context, runID string, followers []model.Follower, rejected []normalize.Rejection) error
}

// Job 描述一次导出任务。
type Job struct {
	Input    *config.Input
	OutDir   string
	BaseName string
	Formats  []string
}

// Result 为一次运行的汇总。
type Result struct {
	RawCount  int
	Followers []model.Follower
	Rejected  []normalize.Rejection
	Written   []string
}

// Runner 执行器，持有数据源/规则/存档/导出器。
type Runner struct {
	source   Source
	rules    *rules.Rules
	archive  Archive
	exporter Exporter
}

// New 创建 Runner。archive 可为 nil。
func New(src Source, rl *rules.Rules, archive Archive, ex Exporter) *Runner {
	return &Runner{source: src, rules: rl, archive: archive, exporter: ex}
}

// Run 执行一轮：取数据→规范化→存档→导出。导出或存档的 I/O 错误直接返回。
func (r *Runner) Run(ctx context.Context, job Job) (Result, error) {
	var res Result
	in := job.Input
	if in == nil {
		in = &config.Input{}
	}
	seed, err := r.seed(in)
	if err != nil {
		return res, err
	}
	logx.Infof("开始抽取：URL=%q 上限=%d", in.URL, in.Limit())
	raws, err := r.source.Run(ctx, in.URL, in.Limit(), seed)
	if err != nil {
		return res, fmt.Errorf("extract: %w", err)
	}
	res.RawCount = len(raws)
	logx.Infof("抽取得到 %d 条原始记录", len(raws))

	res.Followers, res.Rejected = normalize.NormalizeAll(raws)
	for _, rj := range res.Rejected {
		logx.Debugf("丢弃第 %d 条记录：%v", rj.Index, rj.Reason)
	}
	logx.Infof("规范化后保留 %d 条记录（丢弃 %d）", len(res.Followers), len(res.Rejected))

	if r.archive != nil {
		if err := r.archive.SaveRun(ctx, job.BaseName, res.Followers, res.Rejected); err != nil {
			return res, fmt.Errorf("archive: %w", err)
		}
		logx.Infof("已写入存档：run=%s", job.BaseName)
	}

	logx.Infof("导出 %d 条记录到 %s，格式=%v", len(res.Followers), job.OutDir, job.Formats)
	res.Written, err = r.exporter.Export(ctx, res.Followers, job.OutDir, job.BaseName, job.Formats)
	if err != nil {
		return res, err
	}
	for _, p := range res.Written {
		logx.Infof("已导出 %s", p)
	}
	return res, nil
}

// seed 返回传给数据源的种子：显式 seedFollowers 优先，其次解析页面快照。
func (r *Runner) seed(in *config.Input) ([]model.Raw, error) {
	if len(in.SeedFollowers) > 0 || in.Snapshot == "" {
		return in.SeedFollowers, nil
	}
	preset, ok := r.rules.GetPreset(in.Theme)
	if !ok {
		logx.Warnf("未找到快照解析规则（theme=%q），跳过快照 %s", in.Theme, in.Snapshot)
		return nil, nil
	}
	list, err := extract.ParseSnapshotFile(in.Snapshot, in.URL, preset)
	if err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}
	logx.Infof("快照 %s 解析到 %d 位粉丝", in.Snapshot, len(list))
	return list, nil
}
