package tarx

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/uuid"
)

// ArchiveError 表示归档无法打开或展开。
// 返回该错误时，半成品 scratch 目录已被移除。
type ArchiveError struct {
	Archive string
	Err     error
}

func (e *ArchiveError) Error() string {
	return fmt.Sprintf("展开归档 %q 失败：%v", e.Archive, e.Err)
}

func (e *ArchiveError) Unwrap() error { return e.Err }

// Extract 把 tar 归档展开到 scratchRoot 下一个唯一命名的 scratch 子目录，
// 返回按成员名字典序排列的成员路径列表与 scratch 目录本身。
//
// 排序即处理顺序：成员名以拍摄时间为前缀，字典序是拍摄顺序的确定性替身，
// 同一时间戳依然按完整成员名字典序定序（这是显式的并列裁决规则）。
//
// 资源约定：
// - 失败路径：scratch 目录（含半成品）在返回前移除，调用方无需清理
// - 成功路径：scratch 目录归调用方所有，调用方负责在返回前移除
func Extract(archive, scratchRoot string) (files []string, dir string, err error) {
	dir = filepath.Join(scratchRoot, uuid.NewString())

	names, err := extractAll(archive, dir)
	if err != nil {
		// 清理尽力而为：展开失败本身才是要上报的错误。
		_ = os.RemoveAll(dir)
		return nil, "", &ArchiveError{Archive: archive, Err: err}
	}

	sort.Strings(names)
	files = make([]string, 0, len(names))
	for _, n := range names {
		files = append(files, filepath.Join(dir, filepath.FromSlash(n)))
	}
	return files, dir, nil
}

func extractAll(archive, dir string) ([]string, error) {
	f, err := os.Open(archive)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	names := make([]string, 0, 32)
	tr := tar.NewReader(f)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		// 成员名必须落在 scratch 目录内（拒绝绝对路径与 ".." 逃逸）。
		if !filepath.IsLocal(filepath.FromSlash(hdr.Name)) {
			return nil, fmt.Errorf("成员名 %q 逃逸 scratch 目录", hdr.Name)
		}
		dst := filepath.Join(dir, filepath.FromSlash(hdr.Name))

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(dst, 0o755); err != nil {
				return nil, err
			}
		case tar.TypeReg:
			if err := writeMember(dst, tr); err != nil {
				return nil, err
			}
			names = append(names, hdr.Name)
		default:
			return nil, fmt.Errorf("不支持的 tar 成员类型：%q（%c）", hdr.Name, hdr.Typeflag)
		}
	}
	return names, nil
}

func writeMember(dst string, r io.Reader) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	w, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}
