// ABOUTME: Container, stream and packet contracts
// ABOUTME: Implemented by the native containers and the ffmpeg backend
package media

// MediaType is the kind of data carried by a stream
type MediaType int

const (
	MediaTypeUnknown MediaType = iota
	MediaTypeAudio
	MediaTypeVideo
	MediaTypeSubtitle
	MediaTypeData
)

func (t MediaType) String() string {
	switch t {
	case MediaTypeAudio:
		return "audio"
	case MediaTypeVideo:
		return "video"
	case MediaTypeSubtitle:
		return "subtitle"
	case MediaTypeData:
		return "data"
	default:
		return "unknown"
	}
}

// CodecParameters summarises how a stream is encoded
type CodecParameters struct {
	MediaType  MediaType
	Codec      string
	Channels   int
	SampleRate int
	BitRate    int64

	// Decodable is true when a decoder for Codec is available
	Decodable bool

	// Default is true when the container flags the stream as the default track
	Default bool
}

// Stream is one track inside a container. Streams are read-only once the
// container is open.
type Stream interface {
	Index() int
	TimeBase() Rational
	// Duration is the total stream length in TimeBase units, 0 if unknown
	Duration() int64
	CodecParameters() CodecParameters
}

// Packet is a compressed unit of one stream
type Packet interface {
	StreamIndex() int
	// PTS returns the presentation timestamp in stream time base units.
	// ok is false when the timestamp is unknown.
	PTS() (pts int64, ok bool)
	Data() []byte
}

// Releaser is implemented by packets backed by memory that must be freed
// explicitly once the packet has been consumed.
type Releaser interface {
	Release()
}

// Container is an open demuxed media source. It is owned by a single decode
// operation and is not safe for concurrent use.
type Container interface {
	Streams() []Stream
	Stream(index int) (Stream, error)
	// ReadPacket returns the next packet of any stream, or io.EOF
	ReadPacket() (Packet, error)
	// Seek repositions the read cursor of streamIndex so subsequent packets
	// start no earlier than minTs and pass through ts. All values are in the
	// stream's time base.
	Seek(streamIndex int, ts, minTs, maxTs int64) error
	Close() error
}

// RawPacket is a plain in-memory Packet
type RawPacket struct {
	Index   int
	Pts     int64
	HasPts  bool
	Payload []byte
}

func (p *RawPacket) StreamIndex() int   { return p.Index }
func (p *RawPacket) PTS() (int64, bool) { return p.Pts, p.HasPts }
func (p *RawPacket) Data() []byte       { return p.Payload }

// Release frees a packet's external memory if it has any
func Release(p Packet) {
	if r, ok := p.(Releaser); ok {
		r.Release()
	}
}
