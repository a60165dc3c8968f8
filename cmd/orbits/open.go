package main

import (
	"fmt"
	"os/exec"
	"runtime"
)

// openBrowser hands path to the platform's default opener.
func openBrowser(path string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", path)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", path)
	default:
		cmd = exec.Command("xdg-open", path)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to launch %s: %w", cmd.Path, err)
	}
	go cmd.Wait()
	return nil
}
