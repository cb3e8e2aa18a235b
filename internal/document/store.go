// Package document 负责补丁目标文件的读取与落盘。
package document

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/go-errors/errors"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// BackupSuffix 备份文件后缀
const BackupSuffix = ".bak"

const defaultPerm os.FileMode = 0644

// WriteOptions 写入选项
type WriteOptions struct {
	// Backup 覆盖前把原内容保存到 <name>.bak
	Backup bool
}

// Store 以 root 为根目录的文档存储
type Store struct {
	fs     afero.Fs
	root   string
	logger *zap.Logger
}

// NewStore 创建存储，logger 为 nil 时不输出日志
func NewStore(fsys afero.Fs, root string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{fs: fsys, root: root, logger: logger}
}

// NewOsStore 基于本地文件系统创建存储
func NewOsStore(root string, logger *zap.Logger) *Store {
	return NewStore(afero.NewOsFs(), root, logger)
}

// Path 返回 name 的实际路径
func (s *Store) Path(name string) string {
	if filepath.IsAbs(name) || s.root == "" {
		return name
	}
	return filepath.Join(s.root, name)
}

// Read 读取整个文件内容
func (s *Store) Read(name string) (string, error) {
	path := s.Path(name)
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return "", errors.Wrap(fmt.Errorf("读取文件失败 %s: %w", path, err), 0)
	}
	s.logger.Debug("读取文件", zap.String("path", path), zap.Int("bytes", len(data)))
	return string(data), nil
}

// Write 原子写入：先写同目录临时文件，再重命名覆盖目标文件。
// 任一步骤失败时目标文件保持原样。
func (s *Store) Write(name, content string, opts WriteOptions) error {
	path := s.Path(name)

	perm := defaultPerm
	exists := false
	info, err := s.fs.Stat(path)
	switch {
	case err == nil:
		perm = info.Mode().Perm()
		exists = true
	case errors.Is(err, fs.ErrNotExist):
	default:
		return errors.Wrap(fmt.Errorf("获取文件信息失败 %s: %w", path, err), 0)
	}

	if opts.Backup && exists {
		if err := s.backup(path, perm); err != nil {
			return err
		}
	}

	tmp, err := afero.TempFile(s.fs, filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.Wrap(fmt.Errorf("创建临时文件失败: %w", err), 0)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(content); err != nil {
		_ = tmp.Close()
		_ = s.fs.Remove(tmpName)
		return errors.Wrap(fmt.Errorf("写入临时文件失败: %w", err), 0)
	}
	if err := tmp.Close(); err != nil {
		_ = s.fs.Remove(tmpName)
		return errors.Wrap(fmt.Errorf("关闭临时文件失败: %w", err), 0)
	}
	if err := s.fs.Chmod(tmpName, perm); err != nil {
		_ = s.fs.Remove(tmpName)
		return errors.Wrap(fmt.Errorf("设置文件权限失败: %w", err), 0)
	}
	if err := s.fs.Rename(tmpName, path); err != nil {
		_ = s.fs.Remove(tmpName)
		return errors.Wrap(fmt.Errorf("写入文件失败 %s: %w", path, err), 0)
	}

	s.logger.Debug("写入文件", zap.String("path", path), zap.Int("bytes", len(content)))
	return nil
}

// backup 备份原配置
func (s *Store) backup(path string, perm os.FileMode) error {
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return errors.Wrap(fmt.Errorf("读取待备份文件失败 %s: %w", path, err), 0)
	}
	backupPath := path + BackupSuffix
	if err := afero.WriteFile(s.fs, backupPath, data, perm); err != nil {
		return errors.Wrap(fmt.Errorf("备份文件失败 %s: %w", backupPath, err), 0)
	}
	s.logger.Info("已备份原文件", zap.String("backup", backupPath))
	return nil
}
