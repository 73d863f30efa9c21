// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package wfdb

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/borngreat26/DSC106-ClusterFunks2/pkg/types"
)

// WriteAnnotations encodes anns in MIT format, terminated by a zero word.
// Annotations must be in non-decreasing sample order. Gaps wider than the
// 10-bit interval field are written with SKIP.
func WriteAnnotations(w io.Writer, anns []types.Annotation) error {
	bw := bufio.NewWriter(w)
	put := func(code, value int) error {
		return binary.Write(bw, binary.LittleEndian, uint16(code<<codeShift|value))
	}

	var prev int64
	num, channel := 0, 0
	for i, a := range anns {
		if a.Code < 0 || a.Code >= codeSkip {
			return fmt.Errorf("annotation %d: invalid code %d", i, a.Code)
		}
		delta := a.Sample - prev
		if delta < 0 {
			return fmt.Errorf("annotation %d: sample %d before %d", i, a.Sample, prev)
		}
		if delta > intervalMask || (a.Code == 0 && delta == 0) {
			if delta > math.MaxInt32 {
				return fmt.Errorf("annotation %d: gap %d too large", i, delta)
			}
			if err := put(codeSkip, 0); err != nil {
				return err
			}
			u := uint32(int32(delta))
			if err := binary.Write(bw, binary.LittleEndian, uint16(u>>16)); err != nil {
				return err
			}
			if err := binary.Write(bw, binary.LittleEndian, uint16(u)); err != nil {
				return err
			}
			delta = 0
		}
		if err := put(a.Code, int(delta)); err != nil {
			return err
		}
		prev = a.Sample

		if a.Subtype != 0 {
			if err := put(codeSub, a.Subtype&intervalMask); err != nil {
				return err
			}
		}
		if a.Channel != channel {
			if err := put(codeChan, a.Channel&intervalMask); err != nil {
				return err
			}
			channel = a.Channel
		}
		if a.Num != num {
			if err := put(codeNum, a.Num&intervalMask); err != nil {
				return err
			}
			num = a.Num
		}
		if a.Aux != "" {
			if len(a.Aux) > 255 {
				return fmt.Errorf("annotation %d: aux longer than 255 bytes", i)
			}
			if err := put(codeAux, len(a.Aux)); err != nil {
				return err
			}
			if _, err := bw.WriteString(a.Aux); err != nil {
				return err
			}
			if len(a.Aux)%2 == 1 {
				if err := bw.WriteByte(0); err != nil {
					return err
				}
			}
		}
	}
	if err := put(0, 0); err != nil {
		return err
	}
	return bw.Flush()
}
