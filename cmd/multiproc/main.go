package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	jmtlogger "github.com/JDW2018/JMTLogger"
)

// Demonstrates several processes writing and rotating the same log
// file. The parent re-executes itself as worker processes; the file
// lock keeps rotation consistent across all of them.

const (
	childEnv       = "MULTIPROC_WORKER_ID"
	numWorkers     = 4
	logsPerWorker  = 2000
	sharedLogsDir  = "./multiproc_logs"
	sharedFileSize = 64 * 1024 // small, to force rotations during the run
)

func main() {
	if workerID := os.Getenv(childEnv); workerID != "" {
		runWorker(workerID)
		return
	}
	runParent()
}

func runParent() {
	fmt.Println("--- Multi-Process Logging Example ---")

	_ = os.RemoveAll(sharedLogsDir)
	if err := os.MkdirAll(sharedLogsDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create log directory: %v\n", err)
		os.Exit(1)
	}

	self, err := os.Executable()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cannot resolve own executable: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Spawning %d worker processes, %d records each.\n", numWorkers, logsPerWorker)

	procs := make([]*exec.Cmd, 0, numWorkers)
	for i := 0; i < numWorkers; i++ {
		workerID := uuid.NewString()[:8]
		cmd := exec.Command(self)
		cmd.Env = append(os.Environ(), childEnv+"="+workerID)
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		if err := cmd.Start(); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to start worker %s: %v\n", workerID, err)
			continue
		}
		fmt.Printf("Started worker %s (pid %d)\n", workerID, cmd.Process.Pid)
		procs = append(procs, cmd)
	}

	for _, cmd := range procs {
		if err := cmd.Wait(); err != nil {
			fmt.Fprintf(os.Stderr, "Worker pid %d failed: %v\n", cmd.Process.Pid, err)
		}
	}

	fmt.Println("All workers finished.")
	reportFiles()
}

func runWorker(workerID string) {
	logger, err := jmtlogger.NewBuilder().
		Name("multiproc").
		Level(jmtlogger.LevelDebug).
		File(filepath.Join(sharedLogsDir, "shared.log")).
		EnableConsole(false).
		MaxFileSize(sharedFileSize).
		BackupCount(3).
		InternalErrors(true).
		Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Worker %s failed to initialize logger: %v\n", workerID, err)
		os.Exit(1)
	}

	for i := 0; i < logsPerWorker; i++ {
		logger.Info("worker record", "worker", workerID, "seq", i)
	}

	if err := logger.Close(10 * time.Second); err != nil {
		fmt.Fprintf(os.Stderr, "Worker %s shutdown error: %v\n", workerID, err)
		os.Exit(1)
	}
	fmt.Printf("Worker %s done.\n", workerID)
}

func reportFiles() {
	entries, err := os.ReadDir(sharedLogsDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read log directory: %v\n", err)
		return
	}
	fmt.Printf("Files in %s:\n", sharedLogsDir)
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			continue
		}
		fmt.Printf("  %-20s %8d bytes\n", entry.Name(), info.Size())
	}
}
