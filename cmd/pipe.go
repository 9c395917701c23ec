package cmd

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/shuangxunian/claude-code-router/internal/api"
	"github.com/shuangxunian/claude-code-router/internal/config"
	"github.com/shuangxunian/claude-code-router/internal/sniff"
)

// dispatchPipedImage handles the pipe-in-image shortcut: when stdin is not a
// terminal and its bytes carry an image magic number, the image goes straight
// to the running service and argv is ignored. Reports whether the invocation
// was consumed here.
func dispatchPipedImage() bool {
	fd := os.Stdin.Fd()
	if isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd) {
		return false
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil || len(data) == 0 {
		return false
	}

	mimeType := sniff.Classify(data)
	if mimeType == "" {
		// Piped input that is not an image falls through to normal dispatch.
		return false
	}

	if err := describeImage(data, mimeType); err != nil {
		color.Red("Error processing image: %v", err)
		os.Exit(1)
	}
	return true
}

// describeImage posts the image to the service's describe endpoint and
// prints the upstream answer verbatim. The service is assumed reachable.
func describeImage(data []byte, mimeType sniff.MimeType) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	payload, err := json.Marshal(api.DescribeRequest{
		Data:     base64.StdEncoding.EncodeToString(data),
		MimeType: string(mimeType),
	})
	if err != nil {
		return err
	}

	client := &http.Client{Timeout: 2 * time.Minute}
	resp, err := client.Post(cfg.ServiceURL()+"/v1/images/describe", "application/json", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("router service unreachable (is it running? try 'ccr start'): %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("service returned %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}

	fmt.Println(string(body))
	return nil
}
