package registry

import (
	"fmt"
	"strings"
	"time"

	"github.com/vidmend/vidmend/internal/analyzer"
	"github.com/vidmend/vidmend/internal/ffprobe"
	"github.com/vidmend/vidmend/internal/util"
)

// FixInfo groups the attributes that only exist after a successful repair.
// The group is set and cleared as a unit.
type FixInfo struct {
	Path   string
	Time   time.Time
	Params string
}

// VideoRecord is the long-lived entry per tracked file. The path is the
// unique key; descriptor fields are flattened onto the record by
// ApplyDescriptor.
type VideoRecord struct {
	Path   string
	Size   uint64
	Status Status

	Duration         *float64
	Width            *int
	Height           *int
	Codec            string
	PixelFormat      string
	ColorSpace       string
	FrameRate        *float64
	VideoBitrateKbps *int
	AudioCodec       string
	AudioBitrateKbps *int

	Issues analyzer.IssueList

	// ErrorMessage is populated only in StatusError.
	ErrorMessage string

	// Fix is non-nil only in StatusFixed.
	Fix *FixInfo
}

// ApplyDescriptor copies the fixed, enumerated set of probe-derived fields
// onto the record. Fields the probe left unset stay unset here too.
func (r *VideoRecord) ApplyDescriptor(desc *ffprobe.MediaDescriptor) {
	r.Duration = desc.Duration
	r.Width = desc.Width
	r.Height = desc.Height
	r.Codec = desc.Codec
	r.PixelFormat = desc.PixelFormat
	r.ColorSpace = desc.ColorSpace
	r.FrameRate = desc.FrameRate
	r.VideoBitrateKbps = desc.VideoBitrateKbps
	r.AudioCodec = desc.AudioCodec
	r.AudioBitrateKbps = desc.AudioBitrateKbps
}

// Resolution renders the detected dimensions, "unknown" when undetermined.
func (r *VideoRecord) Resolution() string {
	if r.Width == nil || r.Height == nil {
		return "unknown"
	}
	return fmt.Sprintf("%dx%d", *r.Width, *r.Height)
}

// DurationString renders the detected duration, "??:??" when undetermined.
func (r *VideoRecord) DurationString() string {
	if r.Duration == nil || *r.Duration <= 0 {
		return "??:??"
	}
	return util.FormatDuration(*r.Duration)
}

// Summary renders a one-line description for list display.
func (r *VideoRecord) Summary() string {
	parts := []string{
		util.GetFilename(r.Path),
		r.Status.String(),
		r.Resolution(),
		r.DurationString(),
	}
	if r.Codec != "" {
		parts = append(parts, r.Codec)
	}
	if n := len(r.Issues.All()); n > 0 {
		parts = append(parts, fmt.Sprintf("%d issue(s)", n))
	}
	return strings.Join(parts, " | ")
}

// Details renders a multi-line description of everything known about the
// record.
func (r *VideoRecord) Details() string {
	var b strings.Builder
	fmt.Fprintf(&b, "File: %s\n", r.Path)
	fmt.Fprintf(&b, "Status: %s\n", r.Status)
	fmt.Fprintf(&b, "Size: %s\n", util.FormatBytes(r.Size))
	fmt.Fprintf(&b, "Resolution: %s\n", r.Resolution())
	fmt.Fprintf(&b, "Duration: %s\n", r.DurationString())
	if r.Codec != "" {
		fmt.Fprintf(&b, "Video codec: %s\n", r.Codec)
	}
	if r.PixelFormat != "" {
		fmt.Fprintf(&b, "Pixel format: %s\n", r.PixelFormat)
	}
	if r.ColorSpace != "" {
		fmt.Fprintf(&b, "Color space: %s\n", r.ColorSpace)
	}
	if r.FrameRate != nil {
		fmt.Fprintf(&b, "Frame rate: %.2f fps\n", *r.FrameRate)
	}
	if r.AudioCodec != "" {
		fmt.Fprintf(&b, "Audio codec: %s\n", r.AudioCodec)
	}
	for _, issue := range r.Issues.Video {
		fmt.Fprintf(&b, "Video issue: %s\n", issue)
	}
	for _, issue := range r.Issues.Audio {
		fmt.Fprintf(&b, "Audio issue: %s\n", issue)
	}
	if r.ErrorMessage != "" {
		fmt.Fprintf(&b, "Error: %s\n", r.ErrorMessage)
	}
	if r.Fix != nil {
		fmt.Fprintf(&b, "Fixed: %s at %s (%s)\n", r.Fix.Path, r.Fix.Time.Format(time.RFC3339), r.Fix.Params)
	}
	return b.String()
}
