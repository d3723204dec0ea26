package logging

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"
)

// TailLog writes the last n lines of a log file to w (all lines when n <= 0).
// With follow set it keeps polling for appended lines until ctx is done.
func TailLog(ctx context.Context, w io.Writer, path string, n int, follow bool) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	lines, err := lastLines(file, n)
	if err != nil {
		return fmt.Errorf("read log file: %w", err)
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	if !follow {
		return nil
	}
	return tailFollow(ctx, w, file)
}

// lastLines reads r to the end and keeps at most n trailing lines.
func lastLines(r io.Reader, n int) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
		if n > 0 && len(lines) > n {
			lines = lines[1:]
		}
	}
	return lines, scanner.Err()
}

// tailFollow copies data appended to file until ctx is done.
func tailFollow(ctx context.Context, w io.Writer, file *os.File) error {
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		if _, err := io.Copy(w, file); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// ReadEvents decodes every event in a run log. Lines that are not valid
// events are skipped.
func ReadEvents(path string) ([]Event, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	lines, err := lastLines(file, 0)
	if err != nil {
		return nil, fmt.Errorf("read log file: %w", err)
	}
	events := make([]Event, 0, len(lines))
	for _, line := range lines {
		var event Event
		if err := json.Unmarshal([]byte(line), &event); err != nil || event.Type == "" {
			continue
		}
		events = append(events, event)
	}
	return events, nil
}
