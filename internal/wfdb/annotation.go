// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package wfdb

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/borngreat26/DSC106-ClusterFunks2/pkg/types"
)

// ErrTruncated is returned when an annotation file ends inside a word or
// inside the payload of a SKIP or AUX pseudo-annotation.
var ErrTruncated = errors.New("truncated annotation file")

// AnnotationFile is the decoded content of an MIT-format annotation file.
type AnnotationFile struct {
	Annotations []types.Annotation

	// TimeResolution is the sample rate declared by a "## time resolution"
	// definition annotation, or 0 when the file declares none.
	TimeResolution float64
}

var timeResolutionRe = regexp.MustCompile(`^## time resolution: ([0-9.eE+-]+)`)

// ReadAnnotationFile decodes the annotation file at path.
func ReadAnnotationFile(path string) (AnnotationFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return AnnotationFile{}, fmt.Errorf("opening annotations: %w", err)
	}
	defer f.Close()

	af, err := ReadAnnotations(f)
	if err != nil {
		return AnnotationFile{}, fmt.Errorf("decoding annotations %s: %w", path, err)
	}
	return af, nil
}

// ReadAnnotations decodes an MIT-format annotation stream.
//
// Each 16-bit little-endian word holds a 6-bit code in its high bits and a
// 10-bit value in its low bits. A zero word ends the stream. SKIP is followed
// by a 32-bit interval stored high half first. NUM, SUB, CHN and AUX modify
// the annotation before them; NUM and CHN carry forward to later annotations.
func ReadAnnotations(r io.Reader) (AnnotationFile, error) {
	br := bufio.NewReader(r)
	var (
		anns    []types.Annotation
		sample  int64
		num     int
		channel int
	)

	for {
		word, err := readWord(br)
		if err == io.EOF {
			break
		}
		if err != nil {
			return AnnotationFile{}, err
		}
		if word == 0 {
			break
		}

		code := int(word >> codeShift)
		value := int(word & intervalMask)
		last := len(anns) - 1

		switch code {
		case codeSkip:
			hi, err := readWord(br)
			if err != nil {
				return AnnotationFile{}, truncated(err)
			}
			lo, err := readWord(br)
			if err != nil {
				return AnnotationFile{}, truncated(err)
			}
			sample += int64(int32(uint32(hi)<<16 | uint32(lo)))
		case codeNum:
			num = value
			if last >= 0 {
				anns[last].Num = value
			}
		case codeSub:
			if last >= 0 {
				anns[last].Subtype = value
			}
		case codeChan:
			channel = value
			if last >= 0 {
				anns[last].Channel = value
			}
		case codeAux:
			aux, err := readAux(br, value)
			if err != nil {
				return AnnotationFile{}, err
			}
			if last >= 0 {
				anns[last].Aux = aux
			}
		default:
			sample += int64(value)
			anns = append(anns, types.Annotation{
				Sample:  sample,
				Code:    code,
				Symbol:  Symbol(code),
				Num:     num,
				Channel: channel,
			})
		}
	}

	return splitDefinitions(anns), nil
}

// splitDefinitions removes "## ..." definition annotations at sample 0 and
// picks up a declared time resolution.
func splitDefinitions(anns []types.Annotation) AnnotationFile {
	var af AnnotationFile
	out := anns[:0]
	for _, a := range anns {
		if a.Sample == 0 && (a.Code == CodeNotQRS || a.Code == CodeNote) && strings.HasPrefix(a.Aux, "## ") {
			if m := timeResolutionRe.FindStringSubmatch(a.Aux); m != nil {
				if fs, err := strconv.ParseFloat(m[1], 64); err == nil && fs > 0 {
					af.TimeResolution = fs
				}
			}
			continue
		}
		out = append(out, a)
	}
	af.Annotations = out
	return af
}

func readWord(br *bufio.Reader) (uint16, error) {
	var buf [2]byte
	n, err := io.ReadFull(br, buf[:])
	if err == io.EOF && n == 0 {
		return 0, io.EOF
	}
	if err != nil {
		return 0, ErrTruncated
	}
	return binary.LittleEndian.Uint16(buf[:]), nil
}

// readAux reads an n-byte AUX string padded to an even length.
func readAux(br *bufio.Reader, n int) (string, error) {
	size := n + n%2
	buf := make([]byte, size)
	if _, err := io.ReadFull(br, buf); err != nil {
		return "", ErrTruncated
	}
	return strings.TrimRight(string(buf[:n]), "\x00"), nil
}

func truncated(err error) error {
	if err == io.EOF {
		return ErrTruncated
	}
	return err
}
