//go:build android

package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// settingsDirName gdata 在应用私有目录下使用的子目录
const settingsDirName = "starlight"

// EnsureStorageDir 在 gdata 打开前创建 Android 上的设置目录并检查可写
//
// gdata 使用 /data/data/{package}/ 作为根目录，但不会创建子目录。
func EnsureStorageDir() error {
	root := StoragePath()
	if root == "" {
		return fmt.Errorf("failed to detect Android package name")
	}
	dir := filepath.Join(root, settingsDirName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create settings dir %s: %w", dir, err)
	}

	probe := filepath.Join(dir, ".write_test")
	if err := os.WriteFile(probe, nil, 0644); err != nil {
		return fmt.Errorf("settings dir %s is not writable: %w", dir, err)
	}
	_ = os.Remove(probe)
	return nil
}

// StoragePath 应用私有目录，包名从 /proc/self/cmdline 读取
func StoragePath() string {
	data, err := os.ReadFile("/proc/self/cmdline")
	if err != nil {
		return ""
	}
	pkg, _, _ := strings.Cut(string(data), "\x00")
	pkg = strings.TrimSpace(pkg)
	if pkg == "" {
		return ""
	}
	return filepath.Join("/data/data", pkg)
}
