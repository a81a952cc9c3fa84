package port

import "context"

// Transcoder is an interface to define the external audio transformation.
// Implementations enforce their own wall-clock deadline and classify
// failures as domain.ErrTranscodeTimeout or domain.ErrTranscodeFailed.
type Transcoder interface {
	// Transform rewrites the audio at inputPath into the service's
	// output format at outputPath.
	Transform(ctx context.Context, inputPath, outputPath string) error
	// Probe returns the duration of the media at path, in seconds.
	Probe(ctx context.Context, path string) (float64, error)
	// Segment stream-copies inputPath into numbered files following
	// outputPattern (a printf pattern with one %03d verb), each at most
	// segmentSeconds long.
	Segment(ctx context.Context, inputPath, outputPattern string, segmentSeconds int) error
}
