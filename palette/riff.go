package palette

import (
	"encoding/binary"
	"fmt"
	"io"

	"golang.org/x/image/riff"

	"palut/cielab"
)

/*
typedef struct tagLOGPALETTE {
  WORD         palVersion;
  WORD         palNumEntries;
  PALETTEENTRY palPalEntry[1];
} LOGPALETTE;

typedef struct tagPALETTEENTRY {
  BYTE peRed;
  BYTE peGreen;
  BYTE peBlue;
  BYTE peFlags;
} PALETTEENTRY;
*/

var (
	riffType = riff.FourCC{'R', 'I', 'F', 'F'}
	palType  = riff.FourCC{'P', 'A', 'L', ' '}
	dataType = riff.FourCC{'d', 'a', 't', 'a'}
)

const palVersion = 0x0300

// ReadRIFF reads a Microsoft RIFF palette. All data chunks, including those
// nested in PAL lists, are concatenated in file order.
func ReadRIFF(r io.Reader) (*Palette, error) {
	formType, rd, err := riff.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: could not open RIFF stream: %w", ErrInvalidPalette, err)
	} else if formType != palType {
		return nil, fmt.Errorf("%w: unsupported RIFF content type: %s", ErrInvalidPalette, string(formType[:]))
	}

	colors, err := readChunks(rd, string(formType[:]))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPalette, err)
	}
	return New(colors)
}

func readChunks(r *riff.Reader, ident string) ([]cielab.RGB, error) {
	var res []cielab.RGB

	for n := 0; ; n++ {
		id, size, data, err := r.Next()
		if err != nil {
			if err == io.EOF {
				break
			}
			return res, fmt.Errorf("could not read chunk %q#%d: %w", ident, n, err)
		}

		switch id {
		case riff.LIST:
			listType, list, lerr := riff.NewListReader(size, data)
			if lerr != nil {
				return res, fmt.Errorf("could not read list from chunk %q#%d: %w", ident, n, lerr)
			} else if listType != palType {
				return res, fmt.Errorf("chunk %q#%d unsupported type: %s", ident, n, string(listType[:]))
			}

			colors, lerr := readChunks(list, fmt.Sprintf("%s%d.%s", ident, n, listType[:]))
			res = append(res, colors...)
			if lerr != nil {
				return res, lerr
			}
		case dataType:
			colors, err := readLogPalette(data, fmt.Sprintf("%s%d", ident, n))
			res = append(res, colors...)
			if err != nil {
				return res, err
			}
		default:
			return res, fmt.Errorf("unsupported chunk type in %q#%d: %s", ident, n, id)
		}
	}

	return res, nil
}

func readLogPalette(r io.Reader, ident string) ([]cielab.RGB, error) {
	var hdr [4]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, fmt.Errorf("could not read header from chunk %s: %w", ident, err)
	}

	if ver := binary.LittleEndian.Uint16(hdr[:2]); ver != palVersion {
		return nil, fmt.Errorf("unsupported palette version in chunk %s: %#04x", ident, ver)
	}

	count := binary.LittleEndian.Uint16(hdr[2:])
	res := make([]cielab.RGB, count)
	var entry [4]byte
	for i := range res {
		if _, err := io.ReadFull(r, entry[:]); err != nil {
			return res[:i], fmt.Errorf("could not read color %d/%d from chunk %s: %w", i, count, ident, err)
		}
		res[i] = cielab.RGB{R: entry[0], G: entry[1], B: entry[2]}
	}

	return res, nil
}

// WriteRIFF writes p as a single chunk RIFF palette.
func WriteRIFF(w io.Writer, p *Palette) (int64, error) {
	chunkSize := 4 + 4*p.Len() // palVersion + palNumEntries + 4 bytes/color

	buf := make([]byte, 0, 20+chunkSize)
	buf = append(buf, riffType[:]...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(4+8+chunkSize))
	buf = append(buf, palType[:]...)
	buf = append(buf, dataType[:]...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(chunkSize))
	buf = binary.LittleEndian.AppendUint16(buf, palVersion)
	buf = binary.LittleEndian.AppendUint16(buf, uint16(p.Len()))
	for _, c := range p.rgb {
		buf = append(buf, c.R, c.G, c.B, 0x00)
	}

	n, err := w.Write(buf)
	if err != nil {
		return int64(n), fmt.Errorf("could not write palette: %w", err)
	} else if n != len(buf) {
		return int64(n), fmt.Errorf("could not write palette: wrote only %d/%d bytes", n, len(buf))
	}
	return int64(n), nil
}
