// Package nascam 读取 NASCAM 全天空成像仪的 PNG 数据（裸 PNG 或 PNG tar 归档），
// 组装为按时间顺序串接的 3-D 体数据与逐帧元数据，并隔离上报所有
// 无法解析/解码的输入文件。
package nascam

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ucalgary-aurora/nascam-imager-readfile/internal/domain"
	"github.com/ucalgary-aurora/nascam-imager-readfile/internal/reader"
)

// 对外暴露的结果类型（实现位于 internal/domain）。
type (
	ReadResult    = domain.ReadResult
	Volume        = domain.Volume
	Frame         = domain.Frame
	FrameMetadata = domain.FrameMetadata
	ProblemFile   = domain.ProblemFile
)

// DefaultExpectedFrames 是预分配估算用的每文件默认帧数。
const DefaultExpectedFrames = reader.DefaultExpectedFrames

// defaultTempDirName 是默认 scratch 根目录名（位于用户主目录下）。
const defaultTempDirName = ".nascam_imager_readfile"

// Options 控制一次读取调用。零值可用：顺序执行、默认 scratch 根、正常输出。
type Options struct {
	// Workers 是并行执行单元数；<=1 时顺序执行。
	Workers int
	// TarTempDir 是归档展开的 scratch 根目录；为空时取
	// ~/.nascam_imager_readfile。不存在则创建。
	TarTempDir string
	// Quiet 抑制 stderr 的人类可读诊断。
	// 问题列表不受影响：静默的部分失败在程序层面依然可见。
	Quiet bool
	// ExpectedFrames 覆盖预分配估算的每文件帧数；<=0 时取 DefaultExpectedFrames。
	ExpectedFrames int
}

// Read 读取一组输入文件并聚合为单个 ReadResult。
//
// 契约：
// - 体数据第三轴顺序 == files 顺序，文件内部按成员名字典序
// - len(Metadata) == Volume.Depth
// - per-file 失败只进问题列表，永远不会让 Read 返回错误
// - ctx 取消时返回空结果 + ctx.Err()
func Read(ctx context.Context, files []string, opts Options) (*ReadResult, error) {
	tempDir, err := ensureTempDir(opts.TarTempDir)
	if err != nil {
		return nil, fmt.Errorf("准备 scratch 根目录失败：%w", err)
	}

	return reader.Execute(ctx, files, reader.Options{
		Workers:        opts.Workers,
		TarTempDir:     tempDir,
		Quiet:          opts.Quiet,
		ExpectedFrames: opts.ExpectedFrames,
	})
}

// ReadFile 是单文件输入的便捷入口。
func ReadFile(ctx context.Context, file string, opts Options) (*ReadResult, error) {
	return Read(ctx, []string{file}, opts)
}

func ensureTempDir(dir string) (string, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(home, defaultTempDirName)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}
