// Package snapshot writes and reads compressed archives of every live furnace.
package snapshot

import (
	"bufio"
	"encoding/gob"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"furnace_engine/internal/furnace"

	"github.com/klauspost/compress/zstd"
)

// Version is the archive format written by WriteSnapshot.
const Version = 1

var ErrVersion = errors.New("unsupported snapshot version")

// Header is the first line of an archive, readable without decoding the body.
type Header struct {
	Version   int       `json:"version"`
	Tick      uint64    `json:"tick"`
	Furnaces  int       `json:"furnaces"`
	CreatedAt time.Time `json:"created_at"`
}

type Archive struct {
	Header Header
	States []furnace.State
}

// New stamps a header for states taken at tick.
func New(tick uint64, states []furnace.State, now time.Time) Archive {
	return Archive{
		Header: Header{
			Version:   Version,
			Tick:      tick,
			Furnaces:  len(states),
			CreatedAt: now.UTC(),
		},
		States: states,
	}
}

// WriteSnapshot stores a as a zstd stream: a JSON header line followed by the
// gob-encoded archive. The file is written to a temp name and renamed.
func WriteSnapshot(path string, a Archive) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(tmp)
		}
	}()

	if err := encode(f, a); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// encode writes the compressed archive to w. The encoder is closed on every
// path.
func encode(w io.Writer, a Archive) (err error) {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	defer func() {
		if cerr := enc.Close(); err == nil {
			err = cerr
		}
	}()
	bw := bufio.NewWriterSize(enc, 64*1024)

	hb, err := json.Marshal(a.Header)
	if err != nil {
		return err
	}
	if _, err := bw.Write(hb); err != nil {
		return err
	}
	if err := bw.WriteByte('\n'); err != nil {
		return err
	}
	if err := gob.NewEncoder(bw).Encode(&a); err != nil {
		return fmt.Errorf("gob encode: %w", err)
	}
	return bw.Flush()
}

// ReadHeader decodes only the header line.
func ReadHeader(path string) (Header, error) {
	var h Header
	f, err := os.Open(path)
	if err != nil {
		return h, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return h, err
	}
	defer dec.Close()

	line, err := bufio.NewReader(dec).ReadBytes('\n')
	if err != nil {
		return h, fmt.Errorf("read header: %w", err)
	}
	if err := json.Unmarshal(line, &h); err != nil {
		return h, fmt.Errorf("decode header: %w", err)
	}
	return h, nil
}

func ReadSnapshot(path string) (Archive, error) {
	var a Archive
	f, err := os.Open(path)
	if err != nil {
		return a, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return a, err
	}
	defer dec.Close()

	br := bufio.NewReaderSize(dec, 64*1024)
	line, err := br.ReadBytes('\n')
	if err != nil {
		return a, fmt.Errorf("read header: %w", err)
	}
	var h Header
	if err := json.Unmarshal(line, &h); err != nil {
		return a, fmt.Errorf("decode header: %w", err)
	}
	if h.Version != Version {
		return a, fmt.Errorf("%w: %d", ErrVersion, h.Version)
	}

	if err := gob.NewDecoder(br).Decode(&a); err != nil {
		return a, fmt.Errorf("gob decode: %w", err)
	}
	return a, nil
}
