// Package tziftest builds TZif files in memory for tests.
package tziftest

import (
	"bytes"
	"encoding/binary"
	"math"
)

// Zone is one local time type.
type Zone struct {
	Name   string
	Offset int // seconds east of UTC
	IsDST  bool
}

// Transition switches to Zones[Zone] at When, in Unix seconds.
type Transition struct {
	When int64
	Zone int
}

// Data describes a TZif file. Version is 1 through 4; versions from 2 on
// carry a 64-bit block and the Footer.
type Data struct {
	Version     int
	Zones       []Zone
	Transitions []Transition
	Footer      string
}

// Encode returns d in TZif form.
func Encode(d Data) []byte {
	var buf bytes.Buffer

	var chars []byte
	index := map[string]int{}
	for _, z := range d.Zones {
		if _, ok := index[z.Name]; !ok {
			index[z.Name] = len(chars)
			chars = append(chars, z.Name...)
			chars = append(chars, 0)
		}
	}

	block := func(wide bool) {
		buf.WriteString("TZif")
		switch d.Version {
		case 0, 1:
			buf.WriteByte(0)
		default:
			buf.WriteByte(byte('0' + d.Version))
		}
		buf.Write(make([]byte, 15))

		var tx []Transition
		for _, t := range d.Transitions {
			if wide || (t.When >= math.MinInt32 && t.When <= math.MaxInt32) {
				tx = append(tx, t)
			}
		}
		for _, n := range []int{0, 0, 0, len(tx), len(d.Zones), len(chars)} {
			_ = binary.Write(&buf, binary.BigEndian, uint32(n))
		}
		for _, t := range tx {
			if wide {
				_ = binary.Write(&buf, binary.BigEndian, t.When)
			} else {
				_ = binary.Write(&buf, binary.BigEndian, int32(t.When))
			}
		}
		for _, t := range tx {
			buf.WriteByte(byte(t.Zone))
		}
		for _, z := range d.Zones {
			_ = binary.Write(&buf, binary.BigEndian, int32(z.Offset))
			if z.IsDST {
				buf.WriteByte(1)
			} else {
				buf.WriteByte(0)
			}
			buf.WriteByte(byte(index[z.Name]))
		}
		buf.Write(chars)
	}

	block(false)
	if d.Version >= 2 {
		block(true)
		buf.WriteString("\n" + d.Footer + "\n")
	}
	return buf.Bytes()
}
