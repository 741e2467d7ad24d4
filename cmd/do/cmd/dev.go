package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"
)

func DevCmd() *cobra.Command {
	var proxyPort, appPort int

	cmd := &cobra.Command{
		Use:   "dev",
		Short: "Run the server under air, regenerating templ and tailwind on change",
		Long: `Rebuilds on changes to Go, templ, css, js and help content.
The browser talks to air's proxy, which reloads the page after each rebuild.
Generated _templ.go files are ignored so a templ edit triggers one rebuild.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDev(proxyPort, appPort)
		},
	}

	cmd.Flags().IntVar(&proxyPort, "port", 8080, "port the browser connects to")
	cmd.Flags().IntVar(&appPort, "app-port", 8090, "port the server listens on behind the proxy")
	return cmd
}

func runDev(proxyPort, appPort int) error {
	airPath, err := exec.LookPath("air")
	if err != nil {
		fmt.Println("Missing binary: air")
		fmt.Println("Install with:")
		fmt.Println("  go install github.com/air-verse/air@latest")
		return fmt.Errorf("air not found")
	}

	fmt.Println("Building bin/do...")
	build := exec.Command("go", "build", "-o", "bin/do", "./cmd/do")
	build.Stdout = os.Stdout
	build.Stderr = os.Stderr
	if err := build.Run(); err != nil {
		return fmt.Errorf("failed to build do: %w", err)
	}

	airArgs := []string{
		"air",
		"-c", "/dev/null",
		"-root", ".",
		"-build.cmd", "./bin/do gen && go build -o ./tmp/main ./cmd/server",
		"-build.bin", "./tmp/main",
		"-build.delay", "100",
		"-build.exclude_dir", "bin,node_modules,tmp,data",
		"-build.exclude_regex", "_templ.go$|_test.go$|output\\.css$|\\.tmp$",
		"-build.include_ext", "go,templ,css,js,md",
		"-build.kill_delay", "500ms",
		"-build.send_interrupt", "true",
		"-proxy.enabled", "true",
		"-proxy.proxy_port", strconv.Itoa(proxyPort),
		"-proxy.app_port", strconv.Itoa(appPort),
	}

	env := os.Environ()
	env = append(env,
		"PORT="+strconv.Itoa(appPort),
		"APP_URL=http://localhost:"+strconv.Itoa(proxyPort),
		"CONTENT_WATCH=true",
	)

	return syscall.Exec(airPath, airArgs, env)
}
