// ABOUTME: Ogg Opus container
// ABOUTME: Splits Ogg pages into Opus packets and timestamps them from the TOC byte
package container

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/aksiksi/shush/pkg/audio/decode"
	"github.com/aksiksi/shush/pkg/media"
)

const (
	oggHeaderSize = 27
	oggFlagBOS    = 0x02
)

var (
	oggCapture = []byte("OggS")
	opusHead   = []byte("OpusHead")
	opusTags   = []byte("OpusTags")
)

// oggPage is one parsed Ogg page
type oggPage struct {
	flags   byte
	granule int64
	serial  uint32

	// packets holds the page's packet segments; the last one continues on
	// the next page when continued is set
	packets   [][]byte
	continued bool
}

// oggReader splits an Ogg bitstream into pages
type oggReader struct {
	r *bufio.Reader
}

func newOggReader(r io.Reader) *oggReader {
	return &oggReader{r: bufio.NewReader(r)}
}

func (o *oggReader) reset(r io.Reader) {
	o.r.Reset(r)
}

func (o *oggReader) next() (*oggPage, error) {
	header := make([]byte, oggHeaderSize)
	if _, err := io.ReadFull(o.r, header); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("truncated ogg page header")
		}
		return nil, err
	}
	if !bytes.Equal(header[:4], oggCapture) {
		return nil, fmt.Errorf("missing ogg capture pattern")
	}
	if header[4] != 0 {
		return nil, fmt.Errorf("unsupported ogg version: %d", header[4])
	}

	segments := make([]byte, header[26])
	if _, err := io.ReadFull(o.r, segments); err != nil {
		return nil, fmt.Errorf("truncated ogg segment table: %w", err)
	}

	page := &oggPage{
		flags:   header[5],
		granule: int64(binary.LittleEndian.Uint64(header[6:14])),
		serial:  binary.LittleEndian.Uint32(header[14:18]),
	}

	var size int
	for _, s := range segments {
		size += int(s)
	}
	body := make([]byte, size)
	if _, err := io.ReadFull(o.r, body); err != nil {
		return nil, fmt.Errorf("truncated ogg page body: %w", err)
	}

	// A lacing value below 255 ends a packet
	start, end := 0, 0
	for _, s := range segments {
		end += int(s)
		if s < 255 {
			page.packets = append(page.packets, body[start:end])
			start = end
		}
	}
	if len(segments) > 0 && segments[len(segments)-1] == 255 {
		page.packets = append(page.packets, body[start:end])
		page.continued = true
	}
	return page, nil
}

// opusHeader is the identification header of an Ogg Opus stream
type opusHeader struct {
	channels  int
	preSkip   int
	inputRate int
	mapping   int
}

func parseOpusHead(p []byte) (opusHeader, error) {
	if len(p) < 19 || !bytes.Equal(p[:8], opusHead) {
		return opusHeader{}, fmt.Errorf("invalid OpusHead packet")
	}
	if p[8]>>4 != 0 {
		return opusHeader{}, fmt.Errorf("unsupported OpusHead version: %d", p[8])
	}
	return opusHeader{
		channels:  int(p[9]),
		preSkip:   int(binary.LittleEndian.Uint16(p[10:12])),
		inputRate: int(binary.LittleEndian.Uint32(p[12:16])),
		mapping:   int(p[18]),
	}, nil
}

// opusFrameSamples returns the duration of one Opus frame for a TOC config,
// in 48kHz samples
func opusFrameSamples(config byte) int {
	switch {
	case config < 12: // SILK
		return [4]int{480, 960, 1920, 2880}[config%4]
	case config < 16: // Hybrid
		return [2]int{480, 960}[config%2]
	default: // CELT
		return [4]int{120, 240, 480, 960}[config%4]
	}
}

// opusPacketSamples returns the duration of an Opus packet in 48kHz samples
func opusPacketSamples(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, fmt.Errorf("empty opus packet")
	}
	frames := 1
	switch p[0] & 0x03 {
	case 1, 2:
		frames = 2
	case 3:
		if len(p) < 2 {
			return 0, fmt.Errorf("truncated opus packet")
		}
		frames = int(p[1] & 0x3F)
	}
	return frames * opusFrameSamples(p[0]>>3), nil
}

type oggSource struct {
	f         *os.File
	pages     *oggReader
	serial    uint32
	head      opusHeader
	dataStart int64 // file offset of the first audio page

	queue   [][]byte
	partial []byte
	held    media.Packet
	pos     int64 // 48kHz samples since the first audio packet
	done    bool
}

func openOgg(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	src, granule, err := newOggSource(f)
	if err != nil {
		f.Close()
		return nil, err
	}

	log.Printf("Opus stream: %d channels, pre-skip %d, input rate %dHz", src.head.channels, src.head.preSkip, src.head.inputRate)

	duration := granule - int64(src.head.preSkip)
	if duration < 0 {
		duration = 0
	}
	stream := &Stream{
		timeBase: media.NewRational(1, decode.OpusSampleRate),
		duration: duration,
		params: media.CodecParameters{
			MediaType:  media.MediaTypeAudio,
			Codec:      decode.CodecOpus,
			Channels:   src.head.channels,
			SampleRate: decode.OpusSampleRate,
			Decodable:  decode.Supported(decode.CodecOpus) && src.head.channels <= 2,
			Default:    true,
		},
	}
	return newFile("Ogg Opus", stream, src), nil
}

// newOggSource reads the Opus headers and scans the file for its final
// granule position, then rewinds to the first audio page
func newOggSource(f *os.File) (*oggSource, int64, error) {
	counter := &countingReader{r: f}
	pages := newOggReader(counter)

	first, err := pages.next()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read ogg page: %w", err)
	}
	if first.flags&oggFlagBOS == 0 || len(first.packets) == 0 {
		return nil, 0, fmt.Errorf("ogg stream does not start with a BOS page")
	}
	head, err := parseOpusHead(first.packets[0])
	if err != nil {
		return nil, 0, err
	}
	if head.mapping != 0 && head.channels > 2 {
		return nil, 0, fmt.Errorf("unsupported opus channel mapping family %d with %d channels", head.mapping, head.channels)
	}

	// The comment header may span several pages and always ends one
	var tags []byte
	for {
		page, err := pages.next()
		if err != nil {
			return nil, 0, fmt.Errorf("failed to read OpusTags: %w", err)
		}
		if page.serial != first.serial {
			continue
		}
		for _, p := range page.packets {
			tags = append(tags, p...)
		}
		if !page.continued {
			break
		}
	}
	if !bytes.HasPrefix(tags, opusTags) {
		return nil, 0, fmt.Errorf("invalid OpusTags packet")
	}
	dataStart := counter.n - int64(pages.r.Buffered())

	var granule int64
	for {
		page, err := pages.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan ogg pages: %w", err)
		}
		if page.serial == first.serial && page.granule > granule {
			granule = page.granule
		}
	}

	s := &oggSource{
		f:         f,
		pages:     pages,
		serial:    first.serial,
		head:      head,
		dataStart: dataStart,
	}
	if err := s.rewind(); err != nil {
		return nil, 0, err
	}
	return s, granule, nil
}

func (s *oggSource) rewind() error {
	if _, err := s.f.Seek(s.dataStart, io.SeekStart); err != nil {
		return fmt.Errorf("failed to rewind: %w", err)
	}
	s.pages.reset(s.f)
	s.queue = nil
	s.partial = nil
	s.held = nil
	s.pos = 0
	s.done = false
	return nil
}

// nextPayload returns the next complete Opus packet of the stream
func (s *oggSource) nextPayload() ([]byte, error) {
	for len(s.queue) == 0 {
		if s.done {
			return nil, io.EOF
		}
		page, err := s.pages.next()
		if errors.Is(err, io.EOF) {
			s.done = true
			continue
		}
		if err != nil {
			return nil, err
		}
		if page.serial != s.serial {
			continue
		}

		for i, p := range page.packets {
			if i == 0 && s.partial != nil {
				p = append(s.partial, p...)
				s.partial = nil
			}
			if i == len(page.packets)-1 && page.continued {
				s.partial = append([]byte(nil), p...)
				break
			}
			s.queue = append(s.queue, p)
		}
	}

	p := s.queue[0]
	s.queue = s.queue[1:]
	return p, nil
}

func (s *oggSource) readPacket() (media.Packet, error) {
	if s.held != nil {
		p := s.held
		s.held = nil
		return p, nil
	}

	payload, err := s.nextPayload()
	if err != nil {
		return nil, err
	}
	samples, err := opusPacketSamples(payload)
	if err != nil {
		return nil, err
	}

	// Timestamps count from the end of the encoder priming samples
	p := &media.RawPacket{
		Pts:     s.pos - int64(s.head.preSkip),
		HasPts:  true,
		Payload: payload,
	}
	s.pos += int64(samples)
	return p, nil
}

func (s *oggSource) seek(ts int64) error {
	if err := s.rewind(); err != nil {
		return err
	}
	for {
		p, err := s.readPacket()
		if err != nil {
			return fmt.Errorf("failed to seek to sample %d: %w", ts, err)
		}
		// s.pos is now the end of p
		if s.pos-int64(s.head.preSkip) > ts {
			s.held = p
			return nil
		}
	}
}

func (s *oggSource) close() error {
	return s.f.Close()
}

// countingReader counts bytes read from r
type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
