package linear

import (
	"bufio"
	"encoding/binary"
	"io"
	"math"
	"os"

	"github.com/pkg/errors"
)

var ErrBadModelFile = errors.New("bad model file")

const (
	flagSquash = 1 << 0
)

// Binary layout, little-endian:
//   - 4 bytes magic/version: 'T', 'D', 1 (major), 0 (minor)
//   - uint32 number of inputs
//   - uint32 flags (bit 0: tanh output)
//   - inputs+1 float32 weights, the bias last
func (m *Model) Save(path string) error {
	if !m.fitted() {
		return ErrNotFitted
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var w = bufio.NewWriter(f)
	var header = make([]byte, 12)
	copy(header, []byte{'T', 'D', 1, 0})
	binary.LittleEndian.PutUint32(header[4:], uint32(m.inputs))
	var flags uint32
	if m.opt.Squash {
		flags |= flagSquash
	}
	binary.LittleEndian.PutUint32(header[8:], flags)
	_, err = w.Write(header)
	if err != nil {
		return err
	}
	err = writeSlice(w, m.weights.Data)
	if err != nil {
		return err
	}
	err = w.Flush()
	if err != nil {
		return err
	}
	return f.Close()
}

func (m *Model) Load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var r = bufio.NewReader(f)
	var header = make([]byte, 12)
	_, err = io.ReadFull(r, header)
	if err != nil {
		return errors.Wrapf(ErrBadModelFile, "%v: header: %v", path, err)
	}
	if header[0] != 'T' || header[1] != 'D' {
		return errors.Wrapf(ErrBadModelFile, "%v: magic word does not match", path)
	}
	if header[2] != 1 || header[3] != 0 {
		return errors.Wrapf(ErrBadModelFile, "%v: version %v.%v is not supported", path, header[2], header[3])
	}
	var inputs = int64(binary.LittleEndian.Uint32(header[4:]))
	var flags = binary.LittleEndian.Uint32(header[8:])

	info, err := f.Stat()
	if err != nil {
		return err
	}
	if want := int64(len(header)) + 4*(inputs+1); info.Size() != want {
		return errors.Wrapf(ErrBadModelFile, "%v: %v inputs need %v bytes, file has %v",
			path, inputs, want, info.Size())
	}

	var data = make([]float64, inputs+1)
	var buf = make([]byte, 4)
	for i := range data {
		_, err = io.ReadFull(r, buf)
		if err != nil {
			return errors.Wrapf(ErrBadModelFile, "%v: weight %v: %v", path, i, err)
		}
		data[i] = float64(math.Float32frombits(binary.LittleEndian.Uint32(buf)))
	}

	m.opt.Squash = flags&flagSquash != 0
	m.setActivation()
	m.init(int(inputs))
	copy(m.weights.Data, data)
	return nil
}

func writeSlice(w io.Writer, data []float64) error {
	buf := make([]byte, 4)
	for j := range data {
		binary.LittleEndian.PutUint32(buf, math.Float32bits(float32(data[j])))
		_, err := w.Write(buf)
		if err != nil {
			return err
		}
	}
	return nil
}
