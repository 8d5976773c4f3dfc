package protocol

// This package implements parsing and serialising of SHIORI protocol
// messages, the request/response protocol spoken between an ukagaka
// baseware (the host) and a ghost (the response-generating module).
//
// The protocol aims to be
//
// - line oriented and human readable
// - trivial to frame (a blank line ends a message)
// - extensible through headers rather than grammar changes
//
// - `Request`  - A baseware instruction to the ghost.
// - `Response` - The ghost's reply to a single request.
// - `Headers`  - The ordered name/value collection both carry.
//
// === General Syntax
//
// - lines are `\r\n` delimited
// - the first line of a request is the request line:
//
//   ```
//     <Method> SHIORI/<Version>\r\n
//   ```
//
// - the first line of a response is the status line:
//
//   ```
//     SHIORI/<Version> <StatusCode> <StatusName>\r\n
//   ```
//
// - every following line is either a `Name: value` header or blank
// - a message ends with a blank line, i.e. the final header's `\r\n`
//   is followed immediately by one more `\r\n`
//
// For example
//
//   ```
//     GET SHIORI/3.0\r\n
//     Charset: UTF-8\r\n
//     Sender: materia\r\n
//     ID: OnBoot\r\n
//     \r\n
//   ```
//
// and the ghost's reply
//
//   ```
//     SHIORI/3.0 200 OK\r\n
//     Charset: UTF-8\r\n
//     Value: \h\s[0]Hello.\e\r\n
//     \r\n
//   ```
//
// Header names are case sensitive. Duplicate names are legal on the
// wire but the last occurrence wins, so a parsed message holds each
// name at most once. Header order is preserved and round-trips through
// serialisation.
//
// === Methods
//
// Method tokens may contain spaces (`GET Version`, `NOTIFY
// OwnerGhostName`). The request line is therefore tokenised from the
// right: the final space-delimited token is always the
// `SHIORI/<Version>` pair and everything before it is the method.
// Matching the method by scanning from the left would mis-read
// `GET Version` as `GET`.
//
// === Multi-value headers
//
// Some headers pack several sub-values into one line using the
// reserved bytes 0x01 (unit separator) and 0x02 (group separator).
// The Separated/Combined helpers in this package split and join such
// values; which headers use the encoding is a convention between
// baseware and ghost, not something this package enforces.
//
// === Errors
//
// Parsing never produces a partial message. Every failure is one of
// the package sentinel errors, wrapped with the offending line's index
// and raw text, and the caller gets no Request/Response alongside it.
package protocol
