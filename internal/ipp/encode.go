package ipp

import (
	"bufio"
	"io"
)

// Encode writes a Message's header and attribute groups to w, followed by
// the end-of-attributes-tag. It does not write msg.Payload; callers stream
// the payload separately (see internal/ippbody) so a large document body
// is never buffered here.
func Encode(w io.Writer, msg *Message) error {
	bw := bufio.NewWriter(w)

	if err := writeHeader(bw, msg.Header); err != nil {
		return err
	}
	for _, g := range msg.Attrs.Groups {
		if err := bw.WriteByte(byte(g.Tag)); err != nil {
			return err
		}
		for _, a := range g.Attrs {
			if err := writeAttribute(bw, a); err != nil {
				return err
			}
		}
	}
	if err := bw.WriteByte(byte(TagEnd)); err != nil {
		return err
	}
	return bw.Flush()
}

func writeHeader(w *bufio.Writer, h Header) error {
	buf := []byte{
		h.VersionMajor, h.VersionMinor,
		byte(h.Code >> 8), byte(h.Code),
		byte(h.RequestID >> 24), byte(h.RequestID >> 16), byte(h.RequestID >> 8), byte(h.RequestID),
	}
	_, err := w.Write(buf)
	return err
}

func writeAttribute(w *bufio.Writer, a Attribute) error {
	if arr, ok := a.Value.(Array); ok {
		if len(arr) == 0 {
			return writeOneValue(w, a.Name, NoValue{})
		}
		if err := writeOneValue(w, a.Name, arr[0]); err != nil {
			return err
		}
		for _, v := range arr[1:] {
			// zero-length name signals "additional value for the previous
			// attribute" per the wire grammar.
			if err := writeOneValue(w, "", v); err != nil {
				return err
			}
		}
		return nil
	}
	return writeOneValue(w, a.Name, a.Value)
}

func writeOneValue(w *bufio.Writer, name string, v Value) error {
	if err := w.WriteByte(byte(v.Tag())); err != nil {
		return err
	}
	if err := writeLenPrefixed(w, []byte(name)); err != nil {
		return err
	}
	return writeLenPrefixed(w, v.encodedBytes())
}

func writeLenPrefixed(w *bufio.Writer, b []byte) error {
	n := len(b)
	if err := w.WriteByte(byte(n >> 8)); err != nil {
		return err
	}
	if err := w.WriteByte(byte(n)); err != nil {
		return err
	}
	if n == 0 {
		return nil
	}
	_, err := w.Write(b)
	return err
}
