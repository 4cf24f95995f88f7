package otoaudio

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
	"github.com/mewkiz/flac"

	"github.com/tejashwikalptaru/eqplayer/internal/domain"
)

// audioDecoder yields interleaved 16-bit little-endian PCM.
// Length is in output bytes.
type audioDecoder interface {
	io.ReadSeeker
	Length() int64
	SampleRate() int
	ChannelCount() int
}

// SupportedExtensions lists the file extensions the engine can decode.
var SupportedExtensions = []string{".mp3", ".wav", ".flac", ".ogg"}

// newDecoder picks a decoder by file extension and returns stereo output.
func newDecoder(f *os.File) (audioDecoder, error) {
	var (
		dec audioDecoder
		err error
	)

	ext := strings.ToLower(filepath.Ext(f.Name()))
	switch ext {
	case ".mp3":
		dec, err = newMP3Decoder(f)
	case ".wav":
		dec, err = newWAVDecoder(f)
	case ".flac":
		dec, err = newFLACDecoder(f)
	case ".ogg":
		dec, err = newOGGDecoder(f)
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, err
	}

	switch dec.ChannelCount() {
	case 1:
		return &upmixDecoder{src: dec}, nil
	case 2:
		return dec, nil
	default:
		return nil, fmt.Errorf("%w: %d channels", domain.ErrUnsupportedFormat, dec.ChannelCount())
	}
}

// seekTarget resolves a Seek call against the current position and length.
func seekTarget(offset int64, whence int, pos, length int64) int64 {
	var target int64
	switch whence {
	case io.SeekStart:
		target = offset
	case io.SeekCurrent:
		target = pos + offset
	case io.SeekEnd:
		target = length + offset
	}
	return max(0, min(target, length))
}

// clampSample limits a sample to the int16 range.
func clampSample(sample int) int16 {
	return int16(max(-32768, min(32767, sample)))
}

// --- MP3 decoder ---

type mp3Decoder struct {
	dec *mp3.Decoder
}

func newMP3Decoder(f *os.File) (*mp3Decoder, error) {
	dec, err := mp3.NewDecoder(f)
	if err != nil {
		return nil, fmt.Errorf("decoding MP3: %w", err)
	}
	return &mp3Decoder{dec: dec}, nil
}

func (d *mp3Decoder) Read(p []byte) (int, error) { return d.dec.Read(p) }
func (d *mp3Decoder) Seek(offset int64, whence int) (int64, error) {
	return d.dec.Seek(offset, whence)
}
func (d *mp3Decoder) Length() int64     { return d.dec.Length() }
func (d *mp3Decoder) SampleRate() int   { return d.dec.SampleRate() }
func (d *mp3Decoder) ChannelCount() int { return 2 }

// --- WAV decoder ---

type wavDecoder struct {
	file         *os.File
	buf          []byte
	pos          int64
	totalBytes   int64
	pcmStart     int64
	sampleRate   int
	channels     int
	srcBitDepth  int
	srcFrameSize int64
}

func newWAVDecoder(f *os.File) (*wavDecoder, error) {
	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%w: invalid WAV file", domain.ErrUnsupportedFormat)
	}

	if err := dec.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("reading WAV PCM data: %w", err)
	}

	channels := int(dec.NumChans)
	bitDepth := int(dec.BitDepth)
	switch bitDepth {
	case 8, 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: %d-bit WAV", domain.ErrUnsupportedFormat, bitDepth)
	}
	srcFrameSize := int64(channels) * int64(bitDepth) / 8

	totalFrames := dec.PCMLen() / srcFrameSize
	pcmStart, err := f.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, fmt.Errorf("getting PCM start position: %w", err)
	}

	return &wavDecoder{
		file:         f,
		sampleRate:   int(dec.SampleRate),
		channels:     channels,
		srcBitDepth:  bitDepth,
		srcFrameSize: srcFrameSize,
		totalBytes:   totalFrames * int64(channels) * 2,
		pcmStart:     pcmStart,
	}, nil
}

func (d *wavDecoder) Read(p []byte) (int, error) {
	if len(d.buf) > 0 {
		n := copy(p, d.buf)
		d.buf = d.buf[n:]
		d.pos += int64(n)
		return n, nil
	}
	if d.pos >= d.totalBytes {
		return 0, io.EOF
	}

	srcBytesPerSample := d.srcBitDepth / 8
	numSamples := max(len(p)/2, 1)
	remaining := int((d.totalBytes - d.pos) / 2)
	numSamples = min(numSamples, remaining)

	src := make([]byte, numSamples*srcBytesPerSample)
	n, err := io.ReadFull(d.file, src)
	samples := n / srcBytesPerSample
	if samples == 0 {
		if err == nil || err == io.ErrUnexpectedEOF {
			err = io.EOF
		}
		return 0, err
	}

	raw := make([]byte, samples*2)
	for i := range samples {
		off := i * srcBytesPerSample
		var sample int
		switch d.srcBitDepth {
		case 8:
			sample = (int(src[off]) - 128) << 8
		case 16:
			sample = int(int16(binary.LittleEndian.Uint16(src[off:])))
		case 24:
			s := int32(src[off]) | int32(src[off+1])<<8 | int32(src[off+2])<<16
			if s&0x800000 != 0 {
				s |= ^0xFFFFFF
			}
			sample = int(s >> 8)
		case 32:
			sample = int(int32(binary.LittleEndian.Uint32(src[off:])) >> 16)
		}
		binary.LittleEndian.PutUint16(raw[i*2:], uint16(clampSample(sample)))
	}

	written := copy(p, raw)
	if written < len(raw) {
		d.buf = raw[written:]
	}
	d.pos += int64(written)
	if err == io.ErrUnexpectedEOF {
		err = io.EOF
	}
	return written, err
}

func (d *wavDecoder) Seek(offset int64, whence int) (int64, error) {
	target := seekTarget(offset, whence, d.pos, d.totalBytes)

	frame := target / (int64(d.channels) * 2)
	if _, err := d.file.Seek(d.pcmStart+frame*d.srcFrameSize, io.SeekStart); err != nil {
		return d.pos, err
	}

	d.buf = nil
	d.pos = frame * int64(d.channels) * 2
	return d.pos, nil
}

func (d *wavDecoder) Length() int64     { return d.totalBytes }
func (d *wavDecoder) SampleRate() int   { return d.sampleRate }
func (d *wavDecoder) ChannelCount() int { return d.channels }

// --- FLAC decoder ---

type flacDecoder struct {
	stream     *flac.Stream
	buf        []byte
	pos        int64
	totalBytes int64
	sampleRate int
	channels   int
	bps        int
}

func newFLACDecoder(f *os.File) (*flacDecoder, error) {
	stream, err := flac.NewSeek(f)
	if err != nil {
		return nil, fmt.Errorf("decoding FLAC: %w", err)
	}

	info := stream.Info
	channels := int(info.NChannels)
	return &flacDecoder{
		stream:     stream,
		sampleRate: int(info.SampleRate),
		channels:   channels,
		bps:        int(info.BitsPerSample),
		totalBytes: int64(info.NSamples) * int64(channels) * 2,
	}, nil
}

func (d *flacDecoder) Read(p []byte) (int, error) {
	if len(d.buf) > 0 {
		n := copy(p, d.buf)
		d.buf = d.buf[n:]
		d.pos += int64(n)
		return n, nil
	}

	frame, err := d.stream.ParseNext()
	if err != nil {
		return 0, err
	}

	nSamples := int(frame.Subframes[0].NSamples)
	raw := make([]byte, nSamples*d.channels*2)
	for i := range nSamples {
		for ch := range d.channels {
			sample := int(frame.Subframes[ch].Samples[i])
			switch {
			case d.bps > 16:
				sample >>= d.bps - 16
			case d.bps < 16:
				sample <<= 16 - d.bps
			}
			off := (i*d.channels + ch) * 2
			binary.LittleEndian.PutUint16(raw[off:], uint16(clampSample(sample)))
		}
	}

	written := copy(p, raw)
	if written < len(raw) {
		d.buf = raw[written:]
	}
	d.pos += int64(written)
	return written, nil
}

func (d *flacDecoder) Seek(offset int64, whence int) (int64, error) {
	target := seekTarget(offset, whence, d.pos, d.totalBytes)

	frameBytes := int64(d.channels) * 2
	if _, err := d.stream.Seek(uint64(target / frameBytes)); err != nil {
		return d.pos, err
	}

	d.buf = nil
	d.pos = target - target%frameBytes
	return d.pos, nil
}

func (d *flacDecoder) Length() int64     { return d.totalBytes }
func (d *flacDecoder) SampleRate() int   { return d.sampleRate }
func (d *flacDecoder) ChannelCount() int { return d.channels }

// --- OGG Vorbis decoder ---

type oggDecoder struct {
	reader     *oggvorbis.Reader
	buf        []byte
	pos        int64
	totalBytes int64
	sampleRate int
	channels   int
}

func newOGGDecoder(f *os.File) (*oggDecoder, error) {
	reader, err := oggvorbis.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("decoding OGG: %w", err)
	}

	channels := reader.Channels()
	return &oggDecoder{
		reader:     reader,
		sampleRate: reader.SampleRate(),
		channels:   channels,
		totalBytes: reader.Length() * int64(channels) * 2,
	}, nil
}

func (d *oggDecoder) Read(p []byte) (int, error) {
	if len(d.buf) > 0 {
		n := copy(p, d.buf)
		d.buf = d.buf[n:]
		d.pos += int64(n)
		return n, nil
	}

	samples := make([]float32, max(len(p)/2, 1))
	n, err := d.reader.Read(samples)
	if n == 0 {
		if err == nil {
			err = io.EOF
		}
		return 0, err
	}

	raw := make([]byte, n*2)
	for i, s := range samples[:n] {
		s = max(-1, min(1, s))
		binary.LittleEndian.PutUint16(raw[i*2:], uint16(int16(s*32767)))
	}

	written := copy(p, raw)
	if written < len(raw) {
		d.buf = raw[written:]
	}
	d.pos += int64(written)
	return written, err
}

func (d *oggDecoder) Seek(offset int64, whence int) (int64, error) {
	target := seekTarget(offset, whence, d.pos, d.totalBytes)

	frameBytes := int64(d.channels) * 2
	if err := d.reader.SetPosition(target / frameBytes); err != nil {
		return d.pos, err
	}

	d.buf = nil
	d.pos = target - target%frameBytes
	return d.pos, nil
}

func (d *oggDecoder) Length() int64     { return d.totalBytes }
func (d *oggDecoder) SampleRate() int   { return d.sampleRate }
func (d *oggDecoder) ChannelCount() int { return d.channels }

// --- Mono upmix ---

// upmixDecoder duplicates every sample of a mono decoder into both channels.
type upmixDecoder struct {
	src     audioDecoder
	pending []byte
}

func (d *upmixDecoder) Read(p []byte) (int, error) {
	if len(d.pending) > 0 {
		n := copy(p, d.pending)
		d.pending = d.pending[n:]
		return n, nil
	}

	mono := make([]byte, max(len(p)/4, 1)*2)
	n, err := d.src.Read(mono)
	n -= n % 2
	if n == 0 {
		return 0, err
	}

	stereo := make([]byte, n*2)
	for i := 0; i < n; i += 2 {
		copy(stereo[i*2:], mono[i:i+2])
		copy(stereo[i*2+2:], mono[i:i+2])
	}

	written := copy(p, stereo)
	d.pending = stereo[written:]
	return written, err
}

func (d *upmixDecoder) Seek(offset int64, whence int) (int64, error) {
	var target int64
	switch whence {
	case io.SeekStart:
		target = offset
	case io.SeekEnd:
		target = d.Length() + offset
	default:
		return 0, fmt.Errorf("upmix: unsupported whence %d", whence)
	}

	pos, err := d.src.Seek(target/2, io.SeekStart)
	d.pending = nil
	return pos * 2, err
}

func (d *upmixDecoder) Length() int64     { return d.src.Length() * 2 }
func (d *upmixDecoder) SampleRate() int   { return d.src.SampleRate() }
func (d *upmixDecoder) ChannelCount() int { return 2 }
