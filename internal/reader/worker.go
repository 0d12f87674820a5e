package reader

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ucalgary-aurora/nascam-imager-readfile/internal/domain"
	"github.com/ucalgary-aurora/nascam-imager-readfile/internal/meta"
	"github.com/ucalgary-aurora/nascam-imager-readfile/internal/pngx"
	"github.com/ucalgary-aurora/nascam-imager-readfile/internal/tarx"
)

// SourceFile 描述一次读取调用中的单个输入文件。每次调用构造一次，之后只读。
type SourceFile struct {
	Filename   string
	TarTempDir string
	Quiet      bool
}

// 通过可替换的 writer，让测试能断言 quiet 语义（quiet 只抑制人类可读输出）。
var diagW io.Writer = os.Stderr

// processFile 处理单个输入文件，产出 FileResult。
//
// 边界约定（硬约束）：任何失败都不越过该函数——未知扩展名、归档损坏、
// 元数据不符、解码失败，全部降级为 Problematic=true + ErrorMsg。
// Dispatcher/Aggregator 看不到 per-file 异常。
func processFile(src SourceFile) domain.FileResult {
	switch {
	case strings.HasSuffix(src.Filename, ".png.tar"):
		return processPNG(src, nil)
	case strings.HasSuffix(src.Filename, ".png"):
		return processPNG(src, []string{src.Filename})
	default:
		if !src.Quiet {
			fmt.Fprintf(diagW, "无法识别的文件类型：%s\n", src.Filename)
		}
		return domain.FileResult{
			Problematic: true,
			Filename:    src.Filename,
			ErrorMsg:    "不支持的文件类型（仅支持 .png 与 .png.tar）",
		}
	}
}

// processPNG 处理一个 PNG 文件或一个 PNG tar 归档。
// frameFiles 为 nil 表示输入是归档，需要先展开。
func processPNG(src SourceFile, frameFiles []string) domain.FileResult {
	res := domain.FileResult{Filename: src.Filename}

	if frameFiles == nil {
		files, scratch, err := tarx.Extract(src.Filename, src.TarTempDir)
		if err != nil {
			// 失败路径的 scratch 清理由 Extract 自己保证。
			if !src.Quiet {
				fmt.Fprintf(diagW, "打开文件 %s 失败\n", src.Filename)
			}
			res.Problematic = true
			res.ErrorMsg = fmt.Sprintf("打开文件失败：%v", err)
			return res
		}
		// 成功与否，scratch 目录都在本函数返回前移除。
		defer os.RemoveAll(scratch)
		frameFiles = files
	}

	for _, f := range frameFiles {
		// 元数据失败：中止本文件剩余帧；之前已入队的帧保留。
		md, err := meta.Parse(f)
		if err != nil {
			if !src.Quiet {
				fmt.Fprintf(diagW, "读取 %s 的元数据失败\n", f)
			}
			res.Problematic = true
			res.ErrorMsg = fmt.Sprintf("读取元数据失败：%v", err)
			break
		}
		res.Metadata = append(res.Metadata, md)

		// 解码失败：丢弃该帧（连同刚追加的元数据条目），继续处理后续帧。
		fr, err := pngx.Decode(f)
		if err != nil {
			if !src.Quiet {
				fmt.Fprintf(diagW, "读取图像数据帧失败：%v\n", err)
			}
			res.Metadata = res.Metadata[:len(res.Metadata)-1]
			res.Problematic = true
			res.ErrorMsg = fmt.Sprintf("读取图像数据失败：%v", err)
			continue
		}

		res.Width = fr.Width
		res.Height = fr.Height
		res.Frames = append(res.Frames, fr)
	}

	return res
}
