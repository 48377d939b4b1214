// Package probe inspects media files without running a conversion.
//
// Three probers feed the plan command:
//   - Probe / ParseJSON: one ffprobe JSON call (format + streams), which
//     also yields the color and field details behind HDRType and
//     IsInterlaced.
//   - ProbeTS / ProbeTSFile: a pure-Go MPEG-TS reader that describes the
//     elementary streams listed in the PMT.
//   - libav itself, wired in by the caller.
//
// VerifyMP4 reads a finished output file back and summarizes its tracks.
package probe
