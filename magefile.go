//go:build mage
// +build mage

package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Default 默认任务：显示帮助信息
func Default() {
	fmt.Println("Alpha Vantage Go 客户端构建系统")
	fmt.Println("==============================")
	fmt.Println("可用任务:")
	fmt.Println("  mage build       - 构建示例程序")
	fmt.Println("  mage test        - 运行所有测试")
	fmt.Println("  mage testRace    - 开启竞态检测运行测试")
	fmt.Println("  mage clean       - 清理构建产物")
	fmt.Println("  mage lint        - 运行代码检查")
	fmt.Println("  mage coverage    - 生成测试覆盖率报告")
}

// Build 构建示例程序，同时验证公共接口可编译
func Build() error {
	mg.Deps(Clean)

	targets := []struct {
		name string
		path string
	}{
		{"simple", "./examples/simple"},
		{"advanced_usage", "./examples/advanced_usage"},
	}

	fmt.Println("🚀 开始构建示例...")

	for _, target := range targets {
		fmt.Printf("📦 构建 %s...\n", target.name)
		output := filepath.Join("./dist", target.name)
		if runtime.GOOS == "windows" {
			output += ".exe"
		}

		cmd := exec.Command("go", "build", "-o", output, target.path)
		cmd.Env = append(os.Environ(), "CGO_ENABLED=0")

		if out, err := cmd.CombinedOutput(); err != nil {
			return fmt.Errorf("构建 %s 失败: %v\n输出: %s", target.name, err, string(out))
		}
	}

	fmt.Println("🎉 构建完成!")
	return nil
}

// Test 运行所有测试，上游由 testkit 模拟，无需网络与凭证
func Test() error {
	fmt.Println("🧪 运行测试...")

	cmd := exec.Command("go", "test", "./pkg/...", "-timeout=5m")
	cmd.Env = append(os.Environ(), "ALPHAVANTAGE_API_KEY=")

	output, err := cmd.CombinedOutput()
	if err != nil {
		fmt.Printf("测试失败输出:\n%s\n", string(output))
		return fmt.Errorf("测试失败: %v", err)
	}

	fmt.Println("✅ 测试通过!")
	return nil
}

// TestRace 开启竞态检测运行测试
func TestRace() error {
	fmt.Println("🧪 运行竞态检测...")
	return sh.RunV("go", "test", "-race", "./pkg/...", "-timeout=10m")
}

// Clean 清理构建产物
func Clean() error {
	fmt.Println("🧹 清理构建产物...")

	if err := os.MkdirAll("./dist", 0755); err != nil {
		return fmt.Errorf("创建 dist 目录失败: %v", err)
	}

	files, err := filepath.Glob("./dist/*")
	if err != nil {
		return fmt.Errorf("查找文件失败: %v", err)
	}
	for _, file := range files {
		if err := os.Remove(file); err != nil {
			fmt.Printf("警告: 无法删除文件 %s: %v\n", file, err)
		}
	}

	if err := os.RemoveAll("./reports"); err != nil {
		fmt.Printf("警告: 清理报告目录失败: %v\n", err)
	}

	fmt.Println("✅ 清理完成!")
	return nil
}

// Lint 运行代码检查并自动修复格式
func Lint() error {
	fmt.Println("🔍 运行代码检查...")

	output, err := sh.Output("gofmt", "-l", "./pkg", "./examples")
	if err != nil {
		return fmt.Errorf("gofmt 检查失败: %v", err)
	}

	if strings.TrimSpace(output) != "" {
		fmt.Printf("发现代码格式问题:\n%s\n", output)
		fmt.Println("🛠️  正在自动修复格式问题...")
		if err := sh.Run("gofmt", "-w", "./pkg", "./examples"); err != nil {
			return fmt.Errorf("自动修复失败: %v", err)
		}
	}

	if err := sh.RunV("go", "vet", "./..."); err != nil {
		return fmt.Errorf("go vet 失败: %v", err)
	}

	fmt.Println("✅ 代码检查通过!")
	return nil
}

// Coverage 生成测试覆盖率报告
func Coverage() error {
	fmt.Println("📈 生成测试覆盖率报告...")

	if err := os.MkdirAll("./reports", 0755); err != nil {
		return fmt.Errorf("创建报告目录失败: %v", err)
	}

	cmd := exec.Command("go", "test", "./pkg/...", "-coverprofile=./reports/coverage.out", "-covermode=atomic")
	if output, err := cmd.CombinedOutput(); err != nil {
		fmt.Printf("测试输出:\n%s\n", string(output))
		return fmt.Errorf("生成覆盖率失败: %v", err)
	}

	if err := sh.Run("go", "tool", "cover", "-html=./reports/coverage.out", "-o", "./reports/coverage.html"); err != nil {
		return fmt.Errorf("生成HTML报告失败: %v", err)
	}

	if err := sh.RunV("go", "tool", "cover", "-func=./reports/coverage.out"); err != nil {
		return fmt.Errorf("显示覆盖率失败: %v", err)
	}

	fmt.Println("✅ 覆盖率报告生成完成!")
	fmt.Println("   详细报告: file://" + getAbsolutePath("./reports/coverage.html"))
	return nil
}

func getAbsolutePath(relativePath string) string {
	absPath, err := filepath.Abs(relativePath)
	if err != nil {
		return relativePath
	}
	return absPath
}
