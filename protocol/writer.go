package protocol

import (
	"fmt"
	"io"
	"strings"
)

// SerializeRequest renders a request into its exact wire form. The
// headers are written in insertion order, followed by the blank-line
// terminator, even when there are no headers at all.
func SerializeRequest(req *Request) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s %s/%s%s", req.Method, req.Protocol, req.Version, LineEnding)
	writeHeaders(&b, req.Headers)

	return b.String()
}

// SerializeResponse renders a response into its exact wire form. The
// status-line name text is derived from the numeric code.
func SerializeResponse(resp *Response) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s/%s %d %s%s",
		resp.Protocol, resp.Version, resp.Status.Int(), resp.Status.Name(), LineEnding)
	writeHeaders(&b, resp.Headers)

	return b.String()
}

// WriteRequest serialises req into w.
func WriteRequest(w io.Writer, req *Request) error {
	_, err := io.WriteString(w, SerializeRequest(req))
	return err
}

// WriteResponse serialises resp into w.
func WriteResponse(w io.Writer, resp *Response) error {
	_, err := io.WriteString(w, SerializeResponse(resp))
	return err
}

func writeHeaders(b *strings.Builder, headers *Headers) {
	headers.Each(func(name, value string) {
		b.WriteString(name)
		b.WriteString(headerSeparator)
		b.WriteString(value)
		b.WriteString(LineEnding)
	})

	// One extra line ending after the last header closes the message.
	b.WriteString(LineEnding)
}
