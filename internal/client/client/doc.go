// Package client talks the GophMail protocol to a mail server.
//
// # Overview
//
// TCPClient keeps one TCP connection to the server. The server ties the
// login state to that connection, so a dropped connection also drops the
// login. The connection is dialled on first use and again after a
// transport failure; nothing is retried within a call.
//
// # Error Handling
//
// Transport failures surface as ErrUnavailable. An error response from the
// server is returned as *ServerError carrying the server's message; the
// "user not authenticated" response additionally matches ErrUnauthorized.
//
// A TCPClient is safe for concurrent use; calls are serialized.
package client
