//go:build ignore

// build.go - gemscope build script
// Usage: go run build.go [-target=TARGET] [-v]
// Targets: all, web, cli, test, clean

package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

const module = "gemscope"

var (
	distDir = "dist"

	// key = directory under cmd/, value = output binary name
	executables = map[string]string{
		"web":      "gemscope-web",
		"gemscope": "gemscope",
	}

	colorReset = "\033[0m"
	colorRed   = "\033[31m"
	colorGreen = "\033[32m"
	colorBlue  = "\033[34m"
	colorCyan  = "\033[36m"
)

func main() {
	target := flag.String("target", "all", "Build target")
	verbose := flag.Bool("v", false, "Verbose output")
	version := flag.String("version", "dev", "Version stamped into the binaries")
	flag.Parse()

	printHeader()
	startTime := time.Now()

	var err error
	switch *target {
	case "all":
		for name := range executables {
			if err = buildExecutable(name, *version, *verbose); err != nil {
				break
			}
		}
	case "web":
		err = buildExecutable("web", *version, *verbose)
	case "cli":
		err = buildExecutable("gemscope", *version, *verbose)
	case "test":
		err = runTests(*verbose)
	case "clean":
		err = clean()
	default:
		showHelp()
		os.Exit(1)
	}

	if err != nil {
		printError(err.Error())
		os.Exit(1)
	}
	printSuccess(fmt.Sprintf("Build completed in %s", time.Since(startTime).Round(time.Millisecond)))
}

func printHeader() {
	fmt.Println(colorCyan + "===========================================" + colorReset)
	fmt.Println(colorCyan + "         gemscope - Build System           " + colorReset)
	fmt.Println(colorCyan + "===========================================" + colorReset)
	fmt.Println()
}

func printInfo(msg string) {
	fmt.Printf("%s[INFO]%s %s\n", colorBlue, colorReset, msg)
}

func printSuccess(msg string) {
	fmt.Printf("%s[SUCCESS]%s %s\n", colorGreen, colorReset, msg)
}

func printError(msg string) {
	fmt.Printf("%s[ERROR]%s %s\n", colorRed, colorReset, msg)
}

// ldflags stamps build metadata into internal/config.
func ldflags(version string) string {
	pkg := module + "/internal/config"
	return fmt.Sprintf("-s -w -X %s.Version=%s -X %s.Commit=%s -X %s.BuildTime=%s",
		pkg, version,
		pkg, gitCommit(),
		pkg, time.Now().UTC().Format(time.RFC3339))
}

func gitCommit() string {
	out, err := exec.Command("git", "rev-parse", "--short", "HEAD").Output()
	if err != nil {
		return "none"
	}
	return strings.TrimSpace(string(out))
}

func buildExecutable(name, version string, verbose bool) error {
	binName, ok := executables[name]
	if !ok {
		return fmt.Errorf("unknown executable: %s", name)
	}
	if runtime.GOOS == "windows" {
		binName += ".exe"
	}

	printInfo(fmt.Sprintf("Building %s...", name))
	if err := os.MkdirAll(distDir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", distDir, err)
	}

	outputPath := filepath.Join(distDir, binName)
	args := []string{"build", "-trimpath", "-ldflags", ldflags(version), "-o", outputPath, "./cmd/" + name}
	if verbose {
		args = append([]string{"build", "-v"}, args[1:]...)
		fmt.Printf("Running: go %s\n", strings.Join(args, " "))
	}

	cmd := exec.Command("go", args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to build %s: %w", name, err)
	}

	if info, err := os.Stat(outputPath); err == nil {
		printSuccess(fmt.Sprintf("Built %s (%.1f MB)", binName, float64(info.Size())/1024/1024))
	}
	return nil
}

func runTests(verbose bool) error {
	printInfo("Running Go tests...")
	args := []string{"test", "-race"}
	if verbose {
		args = append(args, "-v")
	}
	args = append(args, "./...")

	cmd := exec.Command("go", args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("go tests failed: %w", err)
	}
	printSuccess("All tests passed")
	return nil
}

func clean() error {
	printInfo("Cleaning build artifacts, exports and logs...")
	for _, dir := range []string{distDir, "exports", "logs"} {
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("failed to clean %s: %w", dir, err)
		}
	}
	printSuccess("Build artifacts cleaned")
	return nil
}

func showHelp() {
	fmt.Println("Usage: go run build.go [-target=TARGET] [-v] [-version=VERSION]")
	fmt.Println()
	fmt.Println("Targets:")
	fmt.Println("  all    Build the web server and the CLI (default)")
	fmt.Println("  web    Build the web server")
	fmt.Println("  cli    Build the gemscope CLI")
	fmt.Println("  test   Run Go tests with the race detector")
	fmt.Println("  clean  Remove dist/, exports/ and logs/")
}
