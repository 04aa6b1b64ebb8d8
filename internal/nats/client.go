package nats

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/Bingham-Research-Center/flightdata/internal/types"
)

const (
	SubjectBeastRaw = "beast.raw"
)

// Client represents a NATS client
type Client struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// New creates a new NATS client
func New(url string) (*Client, error) {
	nc, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to get JetStream context: %w", err)
	}

	// Create stream if it doesn't exist
	_, err = js.AddStream(&nats.StreamConfig{
		Name:     "BEAST_RAW",
		Subjects: []string{SubjectBeastRaw},
		Storage:  nats.FileStorage,
		MaxAge:   24 * time.Hour,
	})
	if err != nil && !strings.Contains(err.Error(), "stream name already in use") {
		nc.Close()
		return nil, fmt.Errorf("failed to create stream: %w", err)
	}

	return &Client{
		conn: nc,
		js:   js,
	}, nil
}

// PublishFrame publishes a raw Beast frame to NATS
func (c *Client) PublishFrame(frame *types.Frame) error {
	data, err := json.Marshal(frame)
	if err != nil {
		return fmt.Errorf("failed to marshal frame: %w", err)
	}

	_, err = c.js.Publish(SubjectBeastRaw, data)
	if err != nil {
		return fmt.Errorf("failed to publish frame: %w", err)
	}

	return nil
}

// SubscribeFrames subscribes to raw Beast frames
func (c *Client) SubscribeFrames(handler func(*types.Frame)) error {
	_, err := c.js.Subscribe(SubjectBeastRaw, func(msg *nats.Msg) {
		var frame types.Frame
		if err := json.Unmarshal(msg.Data, &frame); err != nil {
			fmt.Printf("Error unmarshaling frame: %v\n", err)
			return
		}
		handler(&frame)
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe: %w", err)
	}

	return nil
}

// Close closes the NATS connection
func (c *Client) Close() {
	if c.conn != nil {
		c.conn.Close()
	}
}
