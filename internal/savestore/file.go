package savestore

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"
)

const fileExt = ".sav.zst"

// FileStore writes one file per slot: a JSON header line followed by the
// zstd-compressed snapshot.
type FileStore struct {
	dir string
	enc *zstd.Encoder
	dec *zstd.Decoder
	now func() time.Time
}

type fileHeader struct {
	Digest  string    `json:"digest"`
	Size    int       `json:"size"`
	SavedAt time.Time `json:"saved_at"`
}

func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("empty save dir")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, err
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		_ = enc.Close()
		return nil, err
	}
	return &FileStore{dir: dir, enc: enc, dec: dec, now: time.Now}, nil
}

func (s *FileStore) path(slot string) string { return filepath.Join(s.dir, slot+fileExt) }

// Put writes to a temp file and renames it over the slot.
func (s *FileStore) Put(ctx context.Context, slot string, data []byte) (Info, error) {
	if err := CheckSlot(slot); err != nil {
		return Info{}, err
	}
	if err := ctx.Err(); err != nil {
		return Info{}, err
	}
	h := fileHeader{Digest: Digest(data), Size: len(data), SavedAt: s.now().UTC()}
	hb, err := json.Marshal(h)
	if err != nil {
		return Info{}, err
	}
	var buf bytes.Buffer
	buf.Write(hb)
	buf.WriteByte('\n')
	buf.Write(s.enc.EncodeAll(data, nil))

	tmp, err := os.CreateTemp(s.dir, slot+".*.tmp")
	if err != nil {
		return Info{}, err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		return Info{}, err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return Info{}, err
	}
	if err := tmp.Close(); err != nil {
		return Info{}, err
	}
	if err := os.Rename(tmp.Name(), s.path(slot)); err != nil {
		return Info{}, err
	}
	return Info{Slot: slot, Size: h.Size, Digest: h.Digest, SavedAt: h.SavedAt}, nil
}

func (s *FileStore) open(slot string) (*os.File, fileHeader, *bufio.Reader, error) {
	f, err := os.Open(s.path(slot))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fileHeader{}, nil, ErrSlotNotFound
		}
		return nil, fileHeader{}, nil, err
	}
	br := bufio.NewReader(f)
	line, err := br.ReadBytes('\n')
	if err != nil {
		_ = f.Close()
		return nil, fileHeader{}, nil, fmt.Errorf("%w: slot %s header: %v", ErrCorrupt, slot, err)
	}
	var h fileHeader
	if err := json.Unmarshal(line, &h); err != nil {
		_ = f.Close()
		return nil, fileHeader{}, nil, fmt.Errorf("%w: slot %s header: %v", ErrCorrupt, slot, err)
	}
	return f, h, br, nil
}

func (s *FileStore) Get(ctx context.Context, slot string) ([]byte, error) {
	if err := CheckSlot(slot); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, h, br, err := s.open(slot)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	compressed, err := io.ReadAll(br)
	if err != nil {
		return nil, err
	}
	data, err := s.dec.DecodeAll(compressed, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: slot %s: %v", ErrCorrupt, slot, err)
	}
	if err := verify(slot, data, h.Digest); err != nil {
		return nil, err
	}
	return data, nil
}

// List reads only the header line of each slot file.
func (s *FileStore) List(ctx context.Context) ([]Info, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}
	var out []Info
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, fileExt) {
			continue
		}
		slot := strings.TrimSuffix(name, fileExt)
		f, h, _, err := s.open(slot)
		if err != nil {
			continue
		}
		_ = f.Close()
		out = append(out, Info{Slot: slot, Size: h.Size, Digest: h.Digest, SavedAt: h.SavedAt})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slot < out[j].Slot })
	return out, nil
}

func (s *FileStore) Close() error {
	s.dec.Close()
	return s.enc.Close()
}
