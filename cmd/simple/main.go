package main

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	jmtlogger "github.com/JDW2018/JMTLogger"
)

const configFile = "simple_config.toml"

// Example TOML content
var tomlContent = `
# Example simple_config.toml
[logger]
  name = "simple_example"
  level = 10 # Debug
  directory = "./simple_logs"
  enable_file = true
  enable_console = true
  format = "text"
  max_file_size = 1048576
  backup_count = 3
  buffer_size = 1024
  flush_interval_ms = 100
`

func main() {
	fmt.Println("--- Simple Logger Example ---")

	// Create dummy config file
	err := os.WriteFile(configFile, []byte(tomlContent), 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write dummy config: %v\n", err)
	} else {
		fmt.Printf("Created dummy config file: %s\n", configFile)
	}

	// --- Initialize Logger ---
	if err := jmtlogger.InitFromFile(configFile); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Logger initialized.")

	// --- Logging ---
	jmtlogger.Debug("This is a debug message.", "user_id", 123)
	jmtlogger.Info("Application starting...")
	jmtlogger.Warn("Potential issue detected.", "threshold", 0.95)
	jmtlogger.Error("An error occurred!", "code", 500)
	jmtlogger.Exception("request handling failed", errors.New("connection reset"))

	// Logging from goroutines
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			jmtlogger.Info("Goroutine started", "id", id)
			time.Sleep(time.Duration(50+id*50) * time.Millisecond)
			jmtlogger.Info("Goroutine finished", "id", id)
		}(i)
	}

	wg.Wait()
	fmt.Println("Goroutines finished.")

	// --- Shutdown Logger ---
	fmt.Println("Shutting down logger...")
	if err := jmtlogger.Close(2 * time.Second); err != nil {
		fmt.Fprintf(os.Stderr, "Logger shutdown error: %v\n", err)
	} else {
		fmt.Println("Logger shutdown complete.")
	}

	fmt.Println("--- Example Finished ---")
	fmt.Println("Check log files in './simple_logs'.")
}
