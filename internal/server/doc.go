// Package server implements the MCP (Model Context Protocol) server for the
// circle detection pipeline.
//
// # Protocol
//
// Newline-delimited JSON-RPC 2.0 over stdio: one request per stdin line, one
// response per stdout line. Logs go to stderr. Handled methods are initialize,
// tools/list, tools/call and ping; notifications/initialized is accepted
// without a reply.
//
// # Available Tools
//
// Basic Image Information:
//   - image_load: decode and cache an image, report size and format
//   - image_dimensions: width and height only
//
// Edge and Circle Detection:
//   - image_edge_detect: Canny edge map as PNG
//   - image_detect_circles: Hough circle detection, optional annotated PNG
//
// Pipeline Inspection:
//   - image_pipeline_stage: One intermediate stage as PNG
//   - image_hough_pipeline: Save all ten stages to disk
//
// Every pipeline tool accepts the pipeline.Params fields as optional
// arguments; omitted fields keep their defaults.
//
// # Image Caching
//
// Decoded source images are cached by path for the life of the process, so
// tuning runs on one file decode it once.
//
// # Error Handling
//
// Failed tool calls produce a JSON-RPC error whose fields are:
//   - code: -32602 for malformed requests or invalid pipeline parameters,
//     -32000 for any other tool failure
//   - message: a short summary
//   - data: The Go error string
//
// # Usage
//
//	srv := server.New(logging.FromEnv(), version)
//	if err := srv.Run(); err != nil {
//	    log.Fatal().Err(err).Msg("server error")
//	}
package server
