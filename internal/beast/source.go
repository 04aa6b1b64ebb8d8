package beast

import (
	"log"
	"net"
	"sync"
	"time"

	"github.com/Bingham-Research-Center/flightdata/internal/types"
)

// Source connects to a Beast feed over TCP and emits timestamped frames. It
// reconnects with a fixed delay when the feed drops and keeps a bounded
// channel so a slow consumer applies backpressure instead of losing frames.
type Source struct {
	addr     string
	frames   chan types.Frame
	stopChan chan struct{}
	wg       sync.WaitGroup

	mu   sync.Mutex
	conn net.Conn
}

// NewSource creates a Source for the given host:port address.
func NewSource(addr string) *Source {
	return &Source{
		addr:     addr,
		frames:   make(chan types.Frame, 1000), // Buffer size of 1000 frames
		stopChan: make(chan struct{}),
	}
}

// Start begins reading from the feed.
func (s *Source) Start() error {
	s.wg.Add(1)
	go s.run()
	return nil
}

// Stop gracefully stops the source and closes the frame channel.
func (s *Source) Stop() {
	close(s.stopChan)
	s.mu.Lock()
	if s.conn != nil {
		s.conn.Close()
	}
	s.mu.Unlock()
	s.wg.Wait()
	close(s.frames)
}

// Frames returns the channel of decoded frames.
func (s *Source) Frames() <-chan types.Frame {
	return s.frames
}

func (s *Source) run() {
	defer s.wg.Done()

	reconnectDelay := 5 * time.Second
	firstConnection := true

	for {
		select {
		case <-s.stopChan:
			return
		default:
			if firstConnection {
				log.Printf("Attempting to connect to %s...", s.addr)
				firstConnection = false
			}

			conn, err := net.Dial("tcp", s.addr)
			if err != nil {
				select {
				case <-s.stopChan:
					return
				case <-time.After(reconnectDelay):
				}
				continue
			}

			if tcpConn, ok := conn.(*net.TCPConn); ok {
				if err := tcpConn.SetKeepAlive(true); err != nil {
					log.Printf("Warning: failed to set keepalive for %s: %v", s.addr, err)
				}
				if err := tcpConn.SetNoDelay(true); err != nil {
					log.Printf("Warning: failed to set no delay for %s: %v", s.addr, err)
				}
			}
			log.Printf("Connected to %s", s.addr)

			s.mu.Lock()
			s.conn = conn
			s.mu.Unlock()

			s.readLoop(conn)

			s.mu.Lock()
			s.conn = nil
			s.mu.Unlock()
		}
	}
}

func (s *Source) readLoop(conn net.Conn) {
	defer conn.Close()

	var deframer Deframer
	buffer := make([]byte, 4096)

	for {
		select {
		case <-s.stopChan:
			return
		default:
			if err := conn.SetReadDeadline(time.Now().Add(2 * time.Second)); err != nil {
				log.Printf("Warning: failed to set read deadline for %s: %v", s.addr, err)
			}

			n, err := conn.Read(buffer)
			if err != nil {
				if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
					continue
				}
				return
			}

			now := time.Now().UTC()
			for _, msg := range deframer.Feed(buffer[:n]) {
				if msg.Type == TypeModeAC {
					continue
				}
				select {
				case s.frames <- types.NewFrame(msg.Payload, now, s.addr):
				case <-s.stopChan:
					return
				}
			}
		}
	}
}
