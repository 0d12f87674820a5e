package reader

import (
	"context"
	"sync"

	"github.com/ucalgary-aurora/nascam-imager-readfile/internal/domain"
)

// dispatch 把 File Worker 铺到 workers 个并行执行单元上。
//
// 顺序保证（硬约束）：返回切片的顺序永远等于输入顺序，与完成顺序无关
// ——Aggregator 的游标推进依赖输入顺序。实现方式是带下标的任务 +
// 按下标落位，不同 worker 写不同下标，无共享写，不需要锁。
//
// 取消：ctx 取消后不再派发新任务，等在途任务收尾（join-all-or-cancel-all），
// 然后返回 ctx.Err()；调用方据此给出“空结果”而不是半成品。
// per-file 失败永远不会中止 dispatch，它们都包含在 FileResult 里。
func dispatch(ctx context.Context, files []SourceFile, workers int) ([]domain.FileResult, error) {
	if workers <= 1 {
		return dispatchInline(ctx, files)
	}

	results := make([]domain.FileResult, len(files))

	type job struct {
		idx int
		src SourceFile
	}
	jobs := make(chan job)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				results[j.idx] = processFile(j.src)
			}
		}()
	}

feed:
	for i := range files {
		select {
		case jobs <- job{idx: i, src: files[i]}:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// dispatchInline 顺序执行（workers<=1 时不引入任何并发结构）。
// 文件之间检查一次取消；单个文件内部不支持中途取消（与进程级中断一致）。
func dispatchInline(ctx context.Context, files []SourceFile) ([]domain.FileResult, error) {
	results := make([]domain.FileResult, 0, len(files))
	for i := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		results = append(results, processFile(files[i]))
	}
	return results, nil
}
