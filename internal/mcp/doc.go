// Package mcp exposes Linear issues and teams over the Model Context Protocol.
//
// The package has four parts. The catalog (catalog.go) declares the readable
// resources, the issue resource template and the three tools. The Reader
// (resources.go) resolves a resource URI to one backend read and returns
// indented JSON. The Dispatcher (tools.go) validates tool arguments against
// the declared input schema and runs one backend call per tool. Server
// (server.go) registers all of it on a go-sdk server and maps errors onto
// JSON-RPC codes.
//
// Resource read failures are protocol errors. Tool backend failures are
// returned as ordinary results with IsError set so the calling agent can see
// and react to them.
package mcp
