package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ironsheep/hough-circles-mcp/internal/imaging"
	"github.com/ironsheep/hough-circles-mcp/internal/logging"
	"github.com/ironsheep/hough-circles-mcp/internal/pipeline"
	"github.com/ironsheep/hough-circles-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	log := logging.FromEnv()

	// Handle --version, --help and process before starting the server
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("hough-circles-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			printUsage()
			return
		case "process":
			if len(os.Args) < 3 {
				fmt.Fprintln(os.Stderr, "usage: hough-circles-mcp process <image> [output-dir]")
				os.Exit(2)
			}
			outDir := ""
			if len(os.Args) > 3 {
				outDir = os.Args[3]
			}
			if err := process(log, os.Args[2], outDir); err != nil {
				log.Fatal().Err(err).Str("image", os.Args[2]).Msg("processing failed")
			}
			return
		}
	}

	log.Debug().
		Str("version", Version).
		Str("build_time", BuildTime).
		Str("commit", GitCommit).
		Msg("starting MCP server")

	srv := server.New(log, Version)
	if err := srv.Run(); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}

func printUsage() {
	fmt.Println("hough-circles-mcp - MCP server for Canny edge and Hough circle detection")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  hough-circles-mcp                         Serve MCP over stdin/stdout")
	fmt.Println("  hough-circles-mcp process <image> [dir]   Save every pipeline stage as <name>-<stage>.png")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version, -v    Print version information")
	fmt.Println("  --help, -h       Print this help message")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Println("  IMAGE_MCP_LOG_LEVEL=debug|info|warn|error   Log level (default info)")
	fmt.Println("  IMAGE_MCP_LOG_FORMAT=console                Human-readable logs instead of JSON")
	fmt.Println()
	fmt.Println("Logs are written to stderr; stdout carries the MCP protocol.")
}

// process runs the pipeline once with default parameters and writes all
// stage images next to the input, or into outDir when given.
func process(log zerolog.Logger, path, outDir string) error {
	grid, err := imaging.LoadRGB(path)
	if err != nil {
		return err
	}

	res, err := pipeline.Run(grid, pipeline.DefaultParams(), pipeline.WithLogger(log))
	if err != nil {
		return err
	}

	if outDir == "" {
		outDir = filepath.Dir(path)
	}
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	files, err := res.SaveAll(outDir, base, "png")
	if err != nil {
		return err
	}

	for _, c := range res.Accepted() {
		fmt.Printf("circle center=(%d,%d) radius=%d votes=%d score=%.3f\n",
			c.Center.X, c.Center.Y, c.Radius, c.Votes, c.Score)
	}
	log.Info().Strs("files", files).Msg("stages saved")
	return nil
}
