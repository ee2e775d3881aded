// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"bytes"
	"encoding/binary"
	"math/bits"

	"github.com/ik5/audmix/formats/wav"
)

// WAV16 returns a canonical 16-bit PCM WAV container holding samples.
func WAV16(rate, channels int, samples []int16) []byte {
	buf := new(bytes.Buffer)
	if err := wav.WriteWAV16(buf, rate, channels, samples); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// WAV8 returns an 8-bit unsigned PCM WAV container holding samples.
func WAV8(rate, channels int, samples []byte) []byte {
	buf := new(bytes.Buffer)
	if err := wav.WriteWAV8(buf, rate, channels, samples); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// Constant16 returns frames*channels copies of v.
func Constant16(frames, channels int, v int16) []int16 {
	out := make([]int16, frames*channels)
	for i := range out {
		out[i] = v
	}
	return out
}

// Ramp16 returns samples whose value is their index, wrapping at int16.
// Every byte position of the PCM region is distinguishable over 32768
// samples.
func Ramp16(n int) []int16 {
	out := make([]int16, n)
	for i := range out {
		out[i] = int16(i)
	}
	return out
}

// WithChunk inserts an extra chunk between "fmt " and "data" of a canonical
// 44-byte-header container, moving the PCM region.
func WithChunk(container []byte, id string, body []byte) []byte {
	out := make([]byte, 0, len(container)+8+len(body))
	out = append(out, container[:36]...)
	out = append(out, id...)
	out = binary.LittleEndian.AppendUint32(out, uint32(len(body)))
	out = append(out, body...)
	out = append(out, container[36:]...)
	binary.LittleEndian.PutUint32(out[4:8], uint32(len(out)-8))
	return out
}

// AIFF16 returns a big-endian 16-bit AIFF container holding samples.
func AIFF16(rate, channels int, samples []int16) []byte {
	comm := new(bytes.Buffer)
	binary.Write(comm, binary.BigEndian, uint16(channels))
	binary.Write(comm, binary.BigEndian, uint32(len(samples)/channels))
	binary.Write(comm, binary.BigEndian, uint16(16))
	comm.Write(extended80(uint64(rate)))

	ssnd := new(bytes.Buffer)
	binary.Write(ssnd, binary.BigEndian, uint64(0)) // offset, block size
	binary.Write(ssnd, binary.BigEndian, samples)

	out := new(bytes.Buffer)
	out.WriteString("FORM")
	binary.Write(out, binary.BigEndian, uint32(4+8+comm.Len()+8+ssnd.Len()))
	out.WriteString("AIFF")
	out.WriteString("COMM")
	binary.Write(out, binary.BigEndian, uint32(comm.Len()))
	out.Write(comm.Bytes())
	out.WriteString("SSND")
	binary.Write(out, binary.BigEndian, uint32(ssnd.Len()))
	out.Write(ssnd.Bytes())
	return out.Bytes()
}

func extended80(v uint64) []byte {
	out := make([]byte, 10)
	e := 63 - bits.LeadingZeros64(v)
	binary.BigEndian.PutUint16(out[0:2], uint16(16383+e))
	binary.BigEndian.PutUint64(out[2:10], v<<(63-e))
	return out
}
