package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"
)

func BuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build commands",
	}

	cmd.AddCommand(buildServerCmd())
	return cmd
}

func buildServerCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "server",
		Short: "Generate assets and build the server binary",
		RunE: func(cmd *cobra.Command, args []string) error {
			return buildServer(output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "bin/mochitomo", "binary path")
	return cmd
}

func buildServer(output string) error {
	fmt.Println("==> Generating assets...")
	if err := runGen(); err != nil {
		return err
	}

	fmt.Println("==> Building", output)
	env := append(os.Environ(), "CGO_ENABLED=0")
	ldflags := "-s -w"
	if rev := gitRevision(); rev != "" {
		ldflags += " -X main.version=" + rev
	}

	cmd := exec.Command("go", "build", "-trimpath", "-ldflags", ldflags, "-o", output, "./cmd/server")
	cmd.Env = env
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("go build failed: %w", err)
	}

	fmt.Println("==> Done!")
	return nil
}

func gitRevision() string {
	out, err := exec.Command("git", "rev-parse", "--short", "HEAD").Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}
