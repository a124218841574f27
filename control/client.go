package control

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
)

// Client dials a nettingd control socket and issues one request per call,
// each over its own short-lived connection (the control plane is a
// low-frequency operator interface, not a persistent message stream).
type Client struct {
	socketPath string
}

// NewClient returns a Client targeting the Unix socket at socketPath.
func NewClient(socketPath string) *Client {
	return &Client{socketPath: socketPath}
}

// Call sends req and decodes the daemon's Response.
func (c *Client) Call(req Request) (*Response, error) {
	conn, err := net.Dial("unix", c.socketPath)
	if err != nil {
		return nil, fmt.Errorf("control: dial %s: %w", c.socketPath, err)
	}
	defer conn.Close()

	enc := json.NewEncoder(conn)
	if err := enc.Encode(req); err != nil {
		return nil, fmt.Errorf("control: encode request: %w", err)
	}

	var resp Response
	if err := json.NewDecoder(bufio.NewReader(conn)).Decode(&resp); err != nil {
		return nil, fmt.Errorf("control: decode response: %w", err)
	}
	if !resp.OK {
		return nil, fmt.Errorf("control: %s", resp.Error)
	}
	return &resp, nil
}
