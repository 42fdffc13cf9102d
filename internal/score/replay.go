package score

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// ModeStandard is the only ruleset the thumbnail understands.
const ModeStandard = 0

// ReplayExtension is the file extension of osu! replays.
const ReplayExtension = ".osr"

var (
	// ErrNoReplay is returned when the replay folder has no .osr file.
	ErrNoReplay = errors.New("no replay file found")
	// ErrUnsupportedMode is returned for non-standard replays.
	ErrUnsupportedMode = errors.New("unsupported ruleset")
)

// .NET ticks at the Unix epoch
const unixEpochTicks = 621355968000000000

// FindReplay returns the first .osr file in dir, ordered by name.
func FindReplay(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoReplay, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), ReplayExtension) {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return "", fmt.Errorf("%w in %s", ErrNoReplay, dir)
	}

	sort.Strings(names)
	return filepath.Join(dir, names[0]), nil
}

// LoadReplay opens and decodes a replay file.
func LoadReplay(path string) (*Summary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	s, err := DecodeReplay(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return s, nil
}

// DecodeReplay reads the replay header. Frame data is not needed and is
// left unread.
func DecodeReplay(r io.Reader) (*Summary, error) {
	d := &replayDecoder{r: bufio.NewReader(r)}

	s := &Summary{}
	s.Mode = d.byte()
	s.Version = d.int32()
	s.BeatmapHash = d.string()
	s.Username = d.string()
	s.ReplayHash = d.string()
	s.Count300 = int(d.uint16())
	s.Count100 = int(d.uint16())
	s.Count50 = int(d.uint16())
	s.CountGeki = int(d.uint16())
	s.CountKatu = int(d.uint16())
	s.CountMiss = int(d.uint16())
	s.Score = int64(d.int32())
	s.MaxCombo = int(d.uint16())
	s.Perfect = d.byte() != 0
	s.Mods = FromBits(uint32(d.int32()))
	_ = d.string() // life bar graph
	ticks := d.int64()

	if d.err != nil {
		return nil, fmt.Errorf("decode replay: %w", d.err)
	}
	if s.Mode != ModeStandard {
		return nil, fmt.Errorf("%w: mode %d", ErrUnsupportedMode, s.Mode)
	}

	s.Timestamp = time.Unix(0, (ticks-unixEpochTicks)*100).UTC()
	return s, nil
}

// replayDecoder keeps the first error and turns later reads into no-ops.
type replayDecoder struct {
	r   *bufio.Reader
	err error
}

func (d *replayDecoder) read(v any) {
	if d.err != nil {
		return
	}
	d.err = binary.Read(d.r, binary.LittleEndian, v)
}

func (d *replayDecoder) byte() byte {
	var v byte
	d.read(&v)
	return v
}

func (d *replayDecoder) uint16() uint16 {
	var v uint16
	d.read(&v)
	return v
}

func (d *replayDecoder) int32() int32 {
	var v int32
	d.read(&v)
	return v
}

func (d *replayDecoder) int64() int64 {
	var v int64
	d.read(&v)
	return v
}

// string reads an osu! string: 0x00 for empty, or 0x0b, ULEB128 length, UTF-8 bytes.
func (d *replayDecoder) string() string {
	marker := d.byte()
	if d.err != nil || marker == 0x00 {
		return ""
	}
	if marker != 0x0b {
		d.err = fmt.Errorf("invalid string marker 0x%02x", marker)
		return ""
	}

	n, err := binary.ReadUvarint(d.r)
	if err != nil {
		d.err = err
		return ""
	}
	if n > 1<<20 {
		d.err = fmt.Errorf("string length %d too large", n)
		return ""
	}

	buf := make([]byte, n)
	if _, err := io.ReadFull(d.r, buf); err != nil {
		d.err = err
		return ""
	}
	return string(buf)
}
