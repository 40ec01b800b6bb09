// package transport contains implementations to requirements on *message syntaxes*
// defined by http related RFCs.
//
// as of 2022.06, RFCs that were to define HTTP/1.1 (RFC753x) are obsoleted by:
//
//	HTTP Semantics (RFC9110)
//	HTTP Caching (RFC9111) and
//	HTTP/1.1 (RFC9112)
//
// messages are framed over any byte stream with [Framed]: requests go in
// through its sink side, responses come out of its stream side. the
// [Codec] decodes incrementally, so partial reads never block on parsing.
//
// net/http components are reused on the "semantics" part ([net/http.Header], [net/textproto], etc.)
package transport
