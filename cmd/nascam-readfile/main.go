package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	nascam "github.com/ucalgary-aurora/nascam-imager-readfile"
)

func main() {
	if code := run(os.Args[1:]); code != 0 {
		os.Exit(code)
	}
}

func run(args []string) int {
	for _, a := range args {
		if isHelp(a) {
			printUsage()
			return 0
		}
	}

	ra, err := parseArgs(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "参数错误：%v\n\n", err)
		printUsage()
		return 2
	}

	// SIGINT：取消所有在途 worker 并返回明确的空结果，而不是半成品崩溃。
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	started := time.Now()
	rr, err := nascam.Read(ctx, ra.Files, nascam.Options{
		Workers:    ra.Workers,
		TarTempDir: ra.TempDir,
		Quiet:      ra.Quiet,
	})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "已取消")
			return 130
		}
		fmt.Fprintf(os.Stderr, "读取失败：%v\n", err)
		return 1
	}

	emitReport(rr, len(ra.Files), time.Since(started))
	if len(rr.Problems) > 0 {
		return 1
	}
	return 0
}

type cliArgs struct {
	Files   []string
	Workers int
	TempDir string
	Quiet   bool
}

func parseArgs(args []string) (cliArgs, error) {
	ra := cliArgs{Workers: 1}

	i := 0
	for i < len(args) {
		a := args[i]
		switch {
		case a == "--quiet":
			ra.Quiet = true
			i++
		case a == "--workers" || strings.HasPrefix(a, "--workers="):
			v, n, err := argValue(args, i, "--workers")
			if err != nil {
				return cliArgs{}, err
			}
			w, err := strconv.Atoi(v)
			if err != nil || w < 1 {
				return cliArgs{}, fmt.Errorf("--workers 需要 >=1 的整数，实际 %q", v)
			}
			ra.Workers = w
			i += n
		case a == "--tempdir" || strings.HasPrefix(a, "--tempdir="):
			v, n, err := argValue(args, i, "--tempdir")
			if err != nil {
				return cliArgs{}, err
			}
			ra.TempDir = v
			i += n
		case strings.HasPrefix(a, "--"):
			return cliArgs{}, fmt.Errorf("未知参数：%q", a)
		default:
			ra.Files = append(ra.Files, a)
			i++
		}
	}

	if len(ra.Files) == 0 {
		return cliArgs{}, errors.New("至少需要一个输入文件")
	}
	return ra, nil
}

// argValue 解析 --flag=value 或 --flag value 两种写法，返回值与消费的参数个数。
func argValue(args []string, i int, flag string) (string, int, error) {
	a := args[i]
	if strings.HasPrefix(a, flag+"=") {
		v := strings.TrimPrefix(a, flag+"=")
		if v == "" {
			return "", 0, fmt.Errorf("%s 缺少取值", flag)
		}
		return v, 1, nil
	}
	if i+1 >= len(args) {
		return "", 0, fmt.Errorf("%s 缺少取值", flag)
	}
	return args[i+1], 2, nil
}

// report 是 stdout 的稳定 JSON 输出（人类可读诊断都在 stderr，互不污染）。
type report struct {
	Files  int `json:"files"`
	Width  int `json:"width"`
	Height int `json:"height"`
	Frames int `json:"frames"`

	Problems []nascam.ProblemFile `json:"problems"`

	ElapsedMS int64 `json:"elapsed_ms"`
}

func emitReport(rr *nascam.ReadResult, files int, elapsed time.Duration) {
	r := report{
		Files:     files,
		Width:     rr.Volume.Width,
		Height:    rr.Volume.Height,
		Frames:    rr.Volume.Depth,
		Problems:  rr.Problems,
		ElapsedMS: elapsed.Milliseconds(),
	}
	if r.Problems == nil {
		r.Problems = []nascam.ProblemFile{}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(r)
}

func isHelp(a string) bool {
	switch a {
	case "-h", "--help", "help":
		return true
	default:
		return false
	}
}

func printUsage() {
	fmt.Fprint(os.Stderr, `nascam-readfile - 读取 NASCAM 全天空成像仪 PNG 数据

用法：
  nascam-readfile [--workers N] [--tempdir DIR] [--quiet] FILE...

输入：
  FILE 为 .png 单帧文件或 .png.tar 归档，可混合给出多个；
  输出帧顺序与 FILE 顺序一致。

参数：
  --workers N    并行 worker 数（默认 1，即顺序执行）
  --tempdir DIR  归档展开的 scratch 根目录（默认 ~/.nascam_imager_readfile）
  --quiet        抑制 stderr 诊断（JSON 报告中的问题列表不受影响）

输出：
  stdout 输出一份 JSON 报告（体数据形状、帧数、问题文件列表）。
  存在问题文件时退出码为 1，被中断时为 130。
`)
}
