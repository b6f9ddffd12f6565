// 命令行入口：
// - 解析 flags 与 settings.yaml/rules.yaml 及输入 JSON
// - 初始化日志、模拟抽取器、可选 SQLite 存档
// - 规范化粉丝记录并导出为 json/jsonl/csv/xlsx
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"time"

	"go-fb-followers/internal/config"
	"go-fb-followers/internal/export"
	"go-fb-followers/internal/extract"
	"go-fb-followers/internal/logx"
	"go-fb-followers/internal/pipeline"
	"go-fb-followers/internal/rules"
	"go-fb-followers/internal/sheet"
	"go-fb-followers/internal/store"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		inputPath    = flag.String("input", "data/inputs.sample.json", "path to input JSON (url, maxItems, seedFollowers, snapshot, theme)")
		settingsPath = flag.String("settings", "settings.yaml", "path to settings.yaml")
		rulesPath    = flag.String("rules", "rules.yaml", "path to rules.yaml (optional, used for snapshot parsing)")
		outDir       = flag.String("outdir", "", "directory to write outputs (default from settings)")
		formats      = flag.String("formats", "", "comma-separated formats: json,jsonl,csv,xlsx (default from settings)")
		baseName     = flag.String("base-name", "", "base file name without extension (default followers_<timestamp>)")
		verbose      = flag.Bool("verbose", false, "enable debug logging")
	)
	flag.Parse()

	// 1) 加载配置：文件缺失时使用默认值，格式错误则退出
	cfg, err := config.Load(*settingsPath)
	missingSettings := errors.Is(err, os.ErrNotExist)
	if missingSettings {
		cfg, err = config.Default()
	}
	if err != nil {
		log.Printf("load settings: %v", err)
		return 2
	}
	level := cfg.LogLevel
	if *verbose {
		level = "debug"
	}
	logx.Init(level, cfg.LogFormat, cfg.LogLocale, cfg.LogColor)
	if missingSettings {
		logx.Warnf("未找到配置文件：%s，使用默认值", *settingsPath)
	}

	in, err := config.LoadInput(*inputPath)
	if err != nil {
		logx.Errorf("读取输入失败：%v", err)
		return 2
	}
	var rl *rules.Rules
	if *rulesPath != "" {
		if r, err := rules.Load(*rulesPath); err == nil {
			rl = r
		} else if in.Snapshot != "" {
			logx.Warnf("加载规则失败：%v", err)
		}
	}

	// 2) 导出参数：命令行优先于配置
	job := pipeline.Job{
		Input:    in,
		OutDir:   cfg.Export.OutDir,
		BaseName: config.BaseName(*baseName, time.Now()),
		Formats:  cfg.Export.Formats,
	}
	if cfg.Export.BaseName != "" && *baseName == "" {
		job.BaseName = cfg.Export.BaseName
	}
	if *outDir != "" {
		job.OutDir = *outDir
	}
	if *formats != "" {
		job.Formats = config.ParseFormats(*formats)
	}

	// 3) 存档：极简模式不打开数据库
	ctx := context.Background()
	var archive pipeline.Archive
	if !cfg.SimpleMode {
		st, err := store.OpenSQLite(cfg.Database.DSN)
		if err != nil {
			logx.Errorf("打开数据库失败：%v", err)
			return 1
		}
		defer st.Close()
		if cfg.ResetOnStart {
			if err := st.Reset(ctx); err != nil {
				logx.Warnf("启动清理数据库失败：%v", err)
			} else {
				logx.Infof("已清理存档表（followers/rejections）")
			}
		}
		archive = st
	}

	src := extract.New(cfg.Delays.Scroll(), cfg.Delays.MinWait(), cfg.Delays.MaxWait())
	ex := export.New(export.Options{Sheet: sheet.Excelize{}})
	res, err := pipeline.New(src, rl, archive, ex).Run(ctx, job)
	if err != nil {
		logx.Errorf("运行失败：%v", err)
		return 1
	}
	logx.Infof("完成：写出 %d 个文件", len(res.Written))
	return 0
}
