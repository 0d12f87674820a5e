// Package reader 实现聚合管线：per-file 并行解码 worker、
// 保序 fan-out/fan-in 调度，以及未知总帧数下的预分配归并。
package reader

import (
	"context"

	"github.com/ucalgary-aurora/nascam-imager-readfile/internal/domain"
)

// Options 是管线的完整配置（上层已做默认值归一化，这里直接消费）。
type Options struct {
	// Workers 为并行执行单元数；<=1 时顺序执行且不引入并发结构。
	Workers int
	// TarTempDir 是归档展开的 scratch 根目录（必须已存在）。
	TarTempDir string
	// Quiet 只抑制 stderr 的人类可读诊断；问题列表照常累积。
	Quiet bool
	// ExpectedFrames 是预分配估算用的每文件帧数；<=0 时取 DefaultExpectedFrames。
	ExpectedFrames int
}

// Execute 运行完整管线：派发 File Worker，然后归并为 ReadResult。
//
// 取消语义：ctx 取消时返回零帧的空结果 + ctx.Err()，而不是半成品
// ——调用方永远拿不到只聚合了一部分文件的体数据。
func Execute(ctx context.Context, files []string, opts Options) (*domain.ReadResult, error) {
	srcs := make([]SourceFile, 0, len(files))
	for _, f := range files {
		srcs = append(srcs, SourceFile{
			Filename:   f,
			TarTempDir: opts.TarTempDir,
			Quiet:      opts.Quiet,
		})
	}

	results, err := dispatch(ctx, srcs, opts.Workers)
	if err != nil {
		return emptyResult(), err
	}
	return merge(results, opts.ExpectedFrames), nil
}

func emptyResult() *domain.ReadResult {
	return &domain.ReadResult{
		Metadata: []domain.FrameMetadata{},
		Problems: []domain.ProblemFile{},
	}
}
