// Package pipeline is the application layer around the transcode core: it
// validates the job, runs the conversion, verifies the written file and
// reports a summary. It also drives the probe-only plan preview.
//
//   - Convert(ctx, cfg, backend, log) → Result
//     run ID → transcode.Run → verify MP4 → summary.
//   - Plan(ctx, req, probers, w, log)
//     pick a prober → probe → stream map → render text/yaml/json.
package pipeline
