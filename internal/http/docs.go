// package http contains the request and response types, which are meant
// to be exported. the package is named after the protocol rather than the
// module so that IDEs and code editors could pick them up alongside the
// standard library ones
//
// the package also contains some type and value aliases from standard
// library to avoid annoying imports
package http

import (
	"net/http"
)

type Header = http.Header

var NoBody = http.NoBody
