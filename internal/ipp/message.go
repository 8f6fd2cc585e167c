package ipp

import "io"

// Header is the fixed 8-byte preamble shared by requests and responses.
type Header struct {
	VersionMajor byte
	VersionMinor byte
	// Code carries the operation-id on a request and the status-code on a
	// response; callers use Op(h.Code) or Status(h.Code) as appropriate.
	Code      uint16
	RequestID uint32
}

// Message is a fully parsed header plus attribute groups, with the data
// payload (if any) left unread as a lazy stream positioned right after the
// end-of-attributes-tag.
type Message struct {
	Header  Header
	Attrs   AttributeSet
	Payload io.Reader
}

// OperationAttrs returns the message's operation-attributes group,
// creating one if absent.
func (m *Message) OperationAttrs() *Group {
	return m.Attrs.GroupOrNew(TagOperationAttributes)
}

// JobAttrs returns the message's job-attributes group, if present.
func (m *Message) JobAttrs() (*Group, bool) {
	return m.Attrs.Group(TagJobAttributes)
}

// NewResponse builds a bare response message sharing the request's version
// and request-id, with an empty operation-attributes group ready for
// charset/language and further attributes.
func NewResponse(req *Message, status Status) *Message {
	resp := &Message{
		Header: Header{
			VersionMajor: req.Header.VersionMajor,
			VersionMinor: req.Header.VersionMinor,
			Code:         uint16(status),
			RequestID:    req.Header.RequestID,
		},
	}
	resp.Attrs.Groups = append(resp.Attrs.Groups, Group{Tag: TagOperationAttributes})
	return resp
}
